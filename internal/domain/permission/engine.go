// Package permission decide si un usuario puede usar un módulo o ejecutar una acción.
// Es una función pura del estado actual: no guarda caché entre evaluaciones.
package permission

import (
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
)

// Reason motivo de la decisión (se registra en auditoría cuando se niega).
type Reason string

const (
	ReasonAllowed            Reason = "allowed"
	ReasonUserMissing        Reason = "user_missing"
	ReasonUserInactive       Reason = "user_inactive"
	ReasonUnknownRole        Reason = "unknown_role"
	ReasonCompanyMismatch    Reason = "company_mismatch"
	ReasonUnknownCapability  Reason = "unknown_capability"
	ReasonModuleNotLicensed  Reason = "module_not_licensed"
	ReasonCadastrosAdminOnly Reason = "cadastros_admin_only"
	ReasonAdminOnlyModule    Reason = "admin_only_module"
	ReasonModuleNotGranted   Reason = "module_not_granted"
	ReasonPermissionMissing  Reason = "permission_not_granted"
	ReasonLicenseReadOnly    Reason = "license_read_only"
	ReasonStoreScope         Reason = "store_scope"
)

// Capability lo que se solicita: un módulo (gate de pantalla) o un permiso (gate de acción).
type Capability struct {
	Module     entity.ModuleID
	Permission entity.PermissionID
}

// ForModule capacidad a nivel de módulo.
func ForModule(m entity.ModuleID) Capability { return Capability{Module: m} }

// ForPermission capacidad a nivel de acción; el módulo se deriva del catálogo.
func ForPermission(p entity.PermissionID) Capability {
	return Capability{Module: p.Module(), Permission: p}
}

// String identifica la capacidad en logs y auditoría.
func (c Capability) String() string {
	if c.Permission != "" {
		return string(c.Permission)
	}
	return string(c.Module)
}

// Decision resultado de la evaluación.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func deny(r Reason) Decision { return Decision{Allowed: false, Reason: r} }

var allow = Decision{Allowed: true, Reason: ReasonAllowed}

// Decide aplica, en orden: estado del usuario, licencia, excepción de cadastros,
// módulos solo-admin, concesiones por usuario y permisos de acción.
func Decide(user *entity.User, ent licensing.Entitlement, c Capability) Decision {
	if user == nil {
		return deny(ReasonUserMissing)
	}
	if !user.IsActive() {
		return deny(ReasonUserInactive)
	}
	if ent.CompanyID != "" && user.CompanyID != ent.CompanyID {
		return deny(ReasonCompanyMismatch)
	}
	if c.Permission != "" && !c.Permission.Valid() {
		return deny(ReasonUnknownCapability)
	}
	if !c.Module.Valid() {
		return deny(ReasonUnknownCapability)
	}
	if d := moduleDecision(user, ent, c.Module); !d.Allowed {
		return d
	}
	if c.Permission == "" {
		return allow
	}
	if ent.ReadOnly && !c.Permission.ReadOnly() {
		return deny(ReasonLicenseReadOnly)
	}
	if user.IsAdmin() {
		return allow
	}
	if !user.HasPermissionGrant(c.Permission) {
		return deny(ReasonPermissionMissing)
	}
	return allow
}

func moduleDecision(user *entity.User, ent licensing.Entitlement, m entity.ModuleID) Decision {
	// Los admins omiten las concesiones por usuario pero siguen atados a la licencia.
	if !ent.Licensed(m) {
		return deny(ReasonModuleNotLicensed)
	}
	if user.IsAdmin() {
		return allow
	}
	if user.Role != entity.RoleEmployee {
		return deny(ReasonUnknownRole)
	}
	if m.Group() == entity.GroupCadastros {
		return deny(ReasonCadastrosAdminOnly)
	}
	if m.AdminOnly() {
		return deny(ReasonAdminOnlyModule)
	}
	if !user.HasModuleGrant(m) {
		return deny(ReasonModuleNotGranted)
	}
	return allow
}

// DecideForStore añade la restricción de loja: un empleado solo opera en su propia loja.
func DecideForStore(user *entity.User, ent licensing.Entitlement, c Capability, storeID string) Decision {
	d := Decide(user, ent, c)
	if !d.Allowed {
		return d
	}
	if !user.CanActOnStore(storeID) {
		return deny(ReasonStoreScope)
	}
	return d
}

// VisibleModules módulos que la UI debe mostrar al usuario.
func VisibleModules(user *entity.User, ent licensing.Entitlement) []entity.ModuleID {
	var out []entity.ModuleID
	for _, m := range ent.LicensedModules.Slice() {
		if Decide(user, ent, ForModule(m)).Allowed {
			out = append(out, m)
		}
	}
	return out
}
