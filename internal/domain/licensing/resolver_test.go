package licensing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
)

var now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func fixture() (*entity.Company, []*entity.License, map[string]*entity.Plan) {
	company := &entity.Company{ID: "c-1", Name: "Moda Centro", Status: entity.CompanyStatusActive}
	plan := &entity.Plan{ID: "p-basic", ModulesEnabled: []entity.ModuleID{entity.ModulePDV, entity.ModuleCaixa, entity.ModuleEstoque}}
	lic := &entity.License{
		ID: "l-1", CompanyID: "c-1", PlanID: "p-basic",
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0),
		Status: entity.LicenseStatusActive, SuspensionPolicy: entity.SuspensionReadOnly,
		WhiteLabelEnabled: true, WhiteLabelColorsEnabled: true,
	}
	return company, []*entity.License{lic}, map[string]*entity.Plan{plan.ID: plan}
}

func TestResolve_ActiveLicenseUsesPlanModules(t *testing.T) {
	company, lics, plans := fixture()

	ent := licensing.Resolve(company, lics, plans, now)
	assert.Equal(t, "l-1", ent.LicenseID)
	assert.Equal(t, []entity.ModuleID{entity.ModuleCaixa, entity.ModuleEstoque, entity.ModulePDV}, ent.LicensedModules.Slice())
	assert.True(t, ent.WhiteLabelEnabled)
	assert.True(t, ent.WhiteLabelColorsEnabled)
	assert.False(t, ent.ReadOnly)
}

func TestResolve_FailClosed(t *testing.T) {
	company, lics, plans := fixture()

	cases := map[string]func(){
		"licencia vencida":   func() { lics[0].EndDate = now.AddDate(0, 0, -2) },
		"licencia futura":    func() { lics[0].StartDate = now.AddDate(0, 0, 2) },
		"licencia bloqueada": func() { lics[0].Status = entity.LicenseStatusBlocked },
		"plan inexistente":   func() { lics[0].PlanID = "p-x" },
		"empresa terminada":  func() { company.Status = entity.CompanyStatusTerminated },
		"suspendida full_block": func() {
			company.Status = entity.CompanyStatusSuspended
			lics[0].SuspensionPolicy = entity.SuspensionFullBlock
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			company, lics, plans = fixture()
			mutate()
			ent := licensing.Resolve(company, lics, plans, now)
			assert.Empty(t, ent.LicensedModules.Slice())
			assert.False(t, ent.WhiteLabelEnabled)
			assert.False(t, ent.WhiteLabelColorsEnabled)
		})
	}

	ent := licensing.Resolve(company, nil, plans, now)
	assert.Empty(t, ent.LicensedModules.Slice())
}

func TestResolve_EndDateInclusive(t *testing.T) {
	company, lics, plans := fixture()
	lics[0].EndDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	ent := licensing.Resolve(company, lics, plans, now)
	assert.NotEmpty(t, ent.LicensedModules.Slice(), "el último día de vigencia cuenta completo")
}

func TestResolve_ColorsForcedOffWithoutWhiteLabel(t *testing.T) {
	company, lics, plans := fixture()
	lics[0].WhiteLabelEnabled = false
	lics[0].WhiteLabelColorsEnabled = true

	ent := licensing.Resolve(company, lics, plans, now)
	assert.False(t, ent.WhiteLabelColorsEnabled)
}

func TestResolve_SuspendedReadOnly(t *testing.T) {
	company, lics, plans := fixture()
	company.Status = entity.CompanyStatusSuspended

	ent := licensing.Resolve(company, lics, plans, now)
	assert.True(t, ent.ReadOnly)
	assert.True(t, ent.Licensed(entity.ModuleCaixa))
}

func TestActiveLicense_PrefersLatestStart(t *testing.T) {
	_, lics, _ := fixture()
	newer := *lics[0]
	newer.ID = "l-2"
	newer.StartDate = now.AddDate(0, 0, -1)
	lics = append(lics, &newer)

	got := licensing.ActiveLicense(lics, now)
	require.NotNil(t, got)
	assert.Equal(t, "l-2", got.ID)
}

func TestCheckLimit(t *testing.T) {
	plan := &entity.Plan{MaxUsers: 2, MaxStores: 0}

	assert.NoError(t, licensing.CheckLimit(plan, licensing.LimitUsers, 1))
	assert.ErrorIs(t, licensing.CheckLimit(plan, licensing.LimitUsers, 2), domain.ErrPlanLimitReached)
	assert.NoError(t, licensing.CheckLimit(plan, licensing.LimitStores, 500), "0 = ilimitado")
	assert.NoError(t, licensing.CheckLimit(nil, licensing.LimitUsers, 10))
}
