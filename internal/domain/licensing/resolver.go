// Package licensing resuelve el derecho de uso de una empresa a partir de su plan y licencia.
package licensing

import (
	"time"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// Entitlement conjunto efectivo de módulos y capacidades white-label de una empresa.
type Entitlement struct {
	CompanyID               string
	LicenseID               string
	PlanID                  string
	LicensedModules         entity.ModuleSet
	WhiteLabelEnabled       bool
	WhiteLabelColorsEnabled bool
	// ReadOnly: empresa suspendida con política read_only; las acciones se niegan.
	ReadOnly bool
}

// Empty entitlement vacío (fail-closed).
func Empty(companyID string) Entitlement {
	return Entitlement{CompanyID: companyID, LicensedModules: entity.ModuleSet{}}
}

// Licensed informa si el módulo está licenciado.
func (e Entitlement) Licensed(m entity.ModuleID) bool {
	return e.LicensedModules.Has(m)
}

// ActiveLicense devuelve la licencia activa y vigente en now, o nil.
// Si por datos históricos hubiera más de una, gana la de inicio más reciente.
func ActiveLicense(licenses []*entity.License, now time.Time) *entity.License {
	var found *entity.License
	for _, l := range licenses {
		if l == nil || l.Status != entity.LicenseStatusActive || !l.Covers(now) {
			continue
		}
		if found == nil || l.StartDate.After(found.StartDate) {
			found = l
		}
	}
	return found
}

// Resolve calcula el Entitlement. Nunca falla: la ausencia de licencia o plan
// es un estado normal que produce el conjunto vacío.
// El plan es la única fuente de módulos; la licencia solo enciende/apaga y trae white-label.
func Resolve(company *entity.Company, licenses []*entity.License, plans map[string]*entity.Plan, now time.Time) Entitlement {
	if company == nil {
		return Empty("")
	}
	out := Empty(company.ID)
	if company.Status == entity.CompanyStatusTerminated {
		return out
	}
	lic := ActiveLicense(licenses, now)
	if lic == nil {
		return out
	}
	if company.Status == entity.CompanyStatusSuspended && lic.SuspensionPolicy != entity.SuspensionReadOnly {
		return out
	}
	plan := plans[lic.PlanID]
	if plan == nil {
		return out
	}
	out.LicenseID = lic.ID
	out.PlanID = plan.ID
	out.LicensedModules = plan.Modules()
	out.WhiteLabelEnabled = lic.WhiteLabelEnabled
	out.WhiteLabelColorsEnabled = lic.WhiteLabelEnabled && lic.WhiteLabelColorsEnabled
	out.ReadOnly = company.Status == entity.CompanyStatusSuspended
	return out
}
