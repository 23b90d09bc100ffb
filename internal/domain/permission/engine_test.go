package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "c-1"

func entitlement(mods ...entity.ModuleID) licensing.Entitlement {
	return licensing.Entitlement{CompanyID: companyID, LicensedModules: entity.NewModuleSet(mods...)}
}

func admin() *entity.User {
	return &entity.User{ID: "u-admin", CompanyID: companyID, Role: entity.RoleCompanyAdmin, Status: entity.UserStatusActive}
}

func employee(mods []entity.ModuleID, perms []entity.PermissionID) *entity.User {
	return &entity.User{
		ID: "u-emp", CompanyID: companyID, StoreID: "s-1",
		Role: entity.RoleEmployee, Status: entity.UserStatusActive,
		ModulesGranted: mods, PermissionsGranted: perms,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Admin
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_AdminBypassesGrantsWithinLicense(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa, entity.ModuleProdutos, entity.ModuleUsuarios)
	u := admin()

	for _, m := range []entity.ModuleID{entity.ModuleCaixa, entity.ModuleProdutos, entity.ModuleUsuarios} {
		assert.True(t, permission.Decide(u, ent, permission.ForModule(m)).Allowed, "admin debe ver %s", m)
	}
	assert.True(t, permission.Decide(u, ent, permission.ForPermission(entity.PermCaixaFechar)).Allowed)

	d := permission.Decide(u, ent, permission.ForModule(entity.ModuleEstoque))
	assert.False(t, d.Allowed)
	assert.Equal(t, permission.ReasonModuleNotLicensed, d.Reason)
}

func TestDecide_ReadOnlyLicenseDeniesActions(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa)
	ent.ReadOnly = true

	assert.True(t, permission.Decide(admin(), ent, permission.ForModule(entity.ModuleCaixa)).Allowed)
	d := permission.Decide(admin(), ent, permission.ForPermission(entity.PermCaixaAbrir))
	assert.False(t, d.Allowed)
	assert.Equal(t, permission.ReasonLicenseReadOnly, d.Reason)
}

func TestDecide_ReadOnlyLicenseKeepsViewPermissions(t *testing.T) {
	ent := entitlement(entity.ModuleCustos, entity.ModulePrecificacao, entity.ModuleContasReceber)
	ent.ReadOnly = true

	for _, p := range []entity.PermissionID{entity.PermCustosVisualizar, entity.PermPrecificacaoVisualizar, entity.PermContasReceberVisualizar} {
		assert.True(t, permission.Decide(admin(), ent, permission.ForPermission(p)).Allowed, p)
	}
	for _, p := range []entity.PermissionID{entity.PermCustosEditar, entity.PermPrecificacaoEditar, entity.PermContasReceberBaixar} {
		d := permission.Decide(admin(), ent, permission.ForPermission(p))
		assert.False(t, d.Allowed, p)
		assert.Equal(t, permission.ReasonLicenseReadOnly, d.Reason)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Empleado
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_EmployeeNeedsLicenseAndGrant(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa, entity.ModuleEstoque)
	u := employee([]entity.ModuleID{entity.ModuleCaixa, entity.ModulePDV}, []entity.PermissionID{entity.PermCaixaAbrir})

	assert.True(t, permission.Decide(u, ent, permission.ForModule(entity.ModuleCaixa)).Allowed)

	d := permission.Decide(u, ent, permission.ForModule(entity.ModuleEstoque))
	assert.Equal(t, permission.ReasonModuleNotGranted, d.Reason)

	d = permission.Decide(u, ent, permission.ForModule(entity.ModulePDV))
	assert.Equal(t, permission.ReasonModuleNotLicensed, d.Reason)

	assert.True(t, permission.Decide(u, ent, permission.ForPermission(entity.PermCaixaAbrir)).Allowed)
	d = permission.Decide(u, ent, permission.ForPermission(entity.PermCaixaFechar))
	assert.False(t, d.Allowed)
	assert.Equal(t, permission.ReasonPermissionMissing, d.Reason)
}

func TestDecide_PermissionRequiresOwningModule(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa)
	// permiso huérfano (p. ej. datos heredados): sin el módulo no vale
	u := employee(nil, []entity.PermissionID{entity.PermCaixaAbrir})

	d := permission.Decide(u, ent, permission.ForPermission(entity.PermCaixaAbrir))
	assert.False(t, d.Allowed)
	assert.Equal(t, permission.ReasonModuleNotGranted, d.Reason)
}

func TestDecide_CadastrosHiddenForEmployees(t *testing.T) {
	ent := entitlement(entity.ModuleProdutos, entity.ModuleClientes)
	u := employee([]entity.ModuleID{entity.ModuleProdutos, entity.ModuleClientes}, nil)

	for _, m := range []entity.ModuleID{entity.ModuleProdutos, entity.ModuleClientes} {
		d := permission.Decide(u, ent, permission.ForModule(m))
		assert.False(t, d.Allowed)
		assert.Equal(t, permission.ReasonCadastrosAdminOnly, d.Reason)
	}
}

func TestDecide_ConfiguracoesAdminOnly(t *testing.T) {
	ent := entitlement(entity.ModuleUsuarios, entity.ModuleConfiguracoes)
	u := employee([]entity.ModuleID{entity.ModuleUsuarios, entity.ModuleConfiguracoes}, []entity.PermissionID{entity.PermUsuariosGerenciar})

	d := permission.Decide(u, ent, permission.ForPermission(entity.PermUsuariosGerenciar))
	assert.False(t, d.Allowed)
	assert.Equal(t, permission.ReasonAdminOnlyModule, d.Reason)
}

func TestDecide_LicenseFailClosed(t *testing.T) {
	ent := licensing.Empty(companyID)
	u := employee([]entity.ModuleID{entity.ModuleCaixa, entity.ModulePDV, entity.ModuleEstoque}, nil)

	for _, m := range entity.AllModules() {
		assert.False(t, permission.Decide(u, ent, permission.ForModule(m)).Allowed, "módulo %s", m)
		assert.False(t, permission.Decide(admin(), ent, permission.ForModule(m)).Allowed, "módulo %s", m)
	}
}

func TestDecide_InactiveAndUnknown(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa)

	u := admin()
	u.Status = entity.UserStatusSuspended
	assert.Equal(t, permission.ReasonUserInactive, permission.Decide(u, ent, permission.ForModule(entity.ModuleCaixa)).Reason)

	assert.Equal(t, permission.ReasonUnknownCapability,
		permission.Decide(admin(), ent, permission.ForModule("financeiro_x")).Reason)
	assert.Equal(t, permission.ReasonUnknownCapability,
		permission.Decide(admin(), ent, permission.ForPermission("caixa.explodir")).Reason)
	assert.Equal(t, permission.ReasonUserMissing, permission.Decide(nil, ent, permission.ForModule(entity.ModuleCaixa)).Reason)
}

func TestDecideForStore_EmployeeScopedToOwnStore(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa)
	u := employee([]entity.ModuleID{entity.ModuleCaixa}, []entity.PermissionID{entity.PermCaixaAbrir})
	c := permission.ForPermission(entity.PermCaixaAbrir)

	assert.True(t, permission.DecideForStore(u, ent, c, "s-1").Allowed)
	assert.Equal(t, permission.ReasonStoreScope, permission.DecideForStore(u, ent, c, "s-2").Reason)
	assert.True(t, permission.DecideForStore(admin(), ent, c, "s-2").Allowed)
}

func TestVisibleModules(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa, entity.ModulePDV, entity.ModuleProdutos)
	u := employee([]entity.ModuleID{entity.ModulePDV, entity.ModuleProdutos}, nil)

	assert.Equal(t, []entity.ModuleID{entity.ModulePDV}, permission.VisibleModules(u, ent))
	assert.Len(t, permission.VisibleModules(admin(), ent), 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concesiones
// ──────────────────────────────────────────────────────────────────────────────

func TestRevokeModule_CascadesPermissions(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa, entity.ModuleEstoque)
	u := employee(nil, nil)

	require.NoError(t, permission.SetModules(u, ent, []entity.ModuleID{entity.ModuleCaixa, entity.ModuleEstoque}))
	require.NoError(t, permission.GrantPermission(u, entity.PermCaixaAbrir))
	require.NoError(t, permission.GrantPermission(u, entity.PermCaixaFechar))
	require.NoError(t, permission.GrantPermission(u, entity.PermEstoqueAjustar))

	permission.RevokeModule(u, entity.ModuleCaixa)
	assert.Equal(t, []entity.ModuleID{entity.ModuleEstoque}, u.ModulesGranted)
	assert.Equal(t, []entity.PermissionID{entity.PermEstoqueAjustar}, u.PermissionsGranted)

	// volver a conceder el módulo no restaura los permisos
	require.NoError(t, permission.GrantModule(u, ent, entity.ModuleCaixa))
	assert.True(t, u.HasModuleGrant(entity.ModuleCaixa))
	assert.False(t, u.HasPermissionGrant(entity.PermCaixaAbrir))
	assert.False(t, u.HasPermissionGrant(entity.PermCaixaFechar))
}

func TestSetModules_RejectsUnlicensedAndPrunes(t *testing.T) {
	ent := entitlement(entity.ModuleCaixa)
	u := employee([]entity.ModuleID{entity.ModuleCaixa}, []entity.PermissionID{entity.PermCaixaAbrir})

	err := permission.SetModules(u, ent, []entity.ModuleID{entity.ModuleEstoque})
	assert.ErrorIs(t, err, domain.ErrModuleNotLicensed)
	assert.Equal(t, []entity.ModuleID{entity.ModuleCaixa}, u.ModulesGranted, "sin cambios tras el error")

	require.NoError(t, permission.SetModules(u, ent, nil))
	assert.Empty(t, u.ModulesGranted)
	assert.Empty(t, u.PermissionsGranted)
}

func TestGrantPermission_RequiresModule(t *testing.T) {
	u := employee(nil, nil)

	err := permission.GrantPermission(u, entity.PermEstoqueAjustar)
	assert.ErrorIs(t, err, domain.ErrPermissionNeedsModule)
	assert.Empty(t, u.PermissionsGranted)

	assert.ErrorIs(t, permission.GrantPermission(u, "estoque.voar"), domain.ErrInvalidInput)
}
