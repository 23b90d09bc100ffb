package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/apptest"
	applicensing "github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var ctx = context.Background()

func setCompanyStatus(t *testing.T, f *apptest.Fixture, st entity.CompanyStatus) {
	f.Mutate(t, func(r repository.Repos) error {
		c, err := r.Companies.Get(apptest.CompanyID)
		if err != nil {
			return err
		}
		c.Status = st
		return r.Companies.Save(c)
	})
}

func licensingFor(t *testing.T, f *apptest.Fixture) licensing.Entitlement {
	ent, err := applicensing.NewResolver(f.Store, func() time.Time { return apptest.Now }).Entitlement(ctx, apptest.CompanyID)
	require.NoError(t, err)
	return ent
}

func TestCheck_AdminAllowedEmployeeDeniedAndAudited(t *testing.T) {
	f := apptest.New(t)
	c := permission.ForPermission(entity.PermCaixaAbrir)
	require.NoError(t, f.Authz.Check(ctx, f.Admin, c))

	err := f.Authz.Check(ctx, f.Employee, c)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	log := f.Store.AuditLog(apptest.CompanyID)
	require.NotEmpty(t, log)
	last := log[len(log)-1]
	assert.Equal(t, entity.AuditAccessDenied, last.Action)
	assert.Equal(t, "caixa.abrir", last.EntityID)
	assert.Contains(t, last.Reason, string(permission.ReasonModuleNotGranted))
}

func TestAuthorize_StoreScope(t *testing.T) {
	f := apptest.New(t)
	f.Grant(t, []entity.ModuleID{entity.ModuleEstoque}, entity.PermEstoqueEntrada)
	c := permission.ForPermission(entity.PermEstoqueEntrada)

	err := f.Store.Run(ctx, apptest.CompanyID, func(r repository.Repos) error {
		acc, err := f.Authz.Authorize(ctx, r, f.Employee, c, apptest.StoreID)
		require.NoError(t, err)
		assert.Equal(t, apptest.PlanID, acc.Plan.ID)
		_, err = f.Authz.Authorize(ctx, r, f.Employee, c, apptest.Store2ID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	require.NoError(t, f.Store.Run(ctx, apptest.CompanyID, func(r repository.Repos) error {
		_, err := f.Authz.Authorize(ctx, r, f.Admin, c, apptest.Store2ID)
		return err
	}))
}

func TestCheck_SuspendedReadOnlyKeepsScreensDeniesActions(t *testing.T) {
	f := apptest.New(t)
	setCompanyStatus(t, f, entity.CompanyStatusSuspended)

	assert.NoError(t, f.Authz.Check(ctx, f.Admin, permission.ForModule(entity.ModuleCaixa)))
	err := f.Authz.Check(ctx, f.Admin, permission.ForPermission(entity.PermCaixaAbrir))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestCheck_TerminatedCompanyFailsClosed(t *testing.T) {
	f := apptest.New(t)
	setCompanyStatus(t, f, entity.CompanyStatusTerminated)
	err := f.Authz.Check(ctx, f.Admin, permission.ForModule(entity.ModuleDashboard))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, 1, f.Denials())
}

func TestPermissions_ReadOnlyHidesWriteActions(t *testing.T) {
	f := apptest.New(t)
	var user *entity.User
	f.Mutate(t, func(r repository.Repos) error {
		var err error
		user, err = r.Users.Get(apptest.CompanyID, apptest.AdminID)
		return err
	})
	ent := licensingFor(t, f)
	assert.Contains(t, f.Authz.Permissions(user, ent), entity.PermCaixaAbrir)

	setCompanyStatus(t, f, entity.CompanyStatusSuspended)
	ent = licensingFor(t, f)
	perms := f.Authz.Permissions(user, ent)
	assert.NotContains(t, perms, entity.PermCaixaAbrir)
	assert.NotContains(t, perms, entity.PermPrecificacaoEditar)
	assert.Contains(t, perms, entity.PermPrecificacaoVisualizar)
	assert.Contains(t, perms, entity.PermContasReceberVisualizar)
}
