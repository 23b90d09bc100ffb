package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/analytics"
	"github.com/jhoicas/moda-retail/internal/application/apptest"
	"github.com/jhoicas/moda-retail/internal/application/auth"
	"github.com/jhoicas/moda-retail/internal/application/cash"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/inventory"
	applicensing "github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/application/pricing"
	"github.com/jhoicas/moda-retail/internal/application/sales"
	"github.com/jhoicas/moda-retail/internal/application/usecase"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	apphttp "github.com/jhoicas/moda-retail/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/moda-retail/pkg/jwt"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

type fakeSync struct{ failed int }

func (s *fakeSync) Status() ports.SyncStatus { return ports.SyncStatus{Failed: s.failed} }
func (s *fakeSync) RetryFailed() int {
	n := s.failed
	s.failed = 0
	return n
}

type api struct {
	f    *apptest.Fixture
	app  *fiber.App
	sync *fakeSync
}

func newAPI(t *testing.T) *api {
	f := apptest.New(t)
	brand := usecase.PlatformBrand{Name: "Moda Core", PrimaryColor: "#111111"}
	fs := &fakeSync{}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           auth.NewAuthUseCase(f.Store, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}, logger.Nop()),
		Authorizer:       f.Authz,
		CompanyUC:        usecase.NewCompanyUseCase(f.Store, f.Authz, f.C),
		ModuleService:    usecase.NewModuleService(f.Store, f.Authz, f.C.Now),
		BrandingUC:       usecase.NewBrandingUseCase(f.Store, f.Authz, f.C, brand),
		UserUC:           usecase.NewUserUseCase(f.Store, f.Authz, f.C),
		Pricing:          pricing.NewService(f.Store, f.Authz, f.C),
		RegisterMovement: inventory.NewRegisterMovementUseCase(f.Store, f.Authz, f.C),
		Sales:            sales.NewUseCase(f.Store, f.Authz, f.C),
		Cash:             cash.NewUseCase(f.Store, f.Authz, f.C, nil, brand),
		Dashboard:        analytics.NewDashboardUseCase(f.Store, f.Authz, f.C),
		Admin:            applicensing.NewAdminService(f.Store, f.C),
		Sync:             fs,
		JWTSecret:        testJWTSecret,
	})
	return &api{f: f, app: app, sync: fs}
}

func bearer(t *testing.T, a entity.Actor, storeID string) string {
	return signed(t, pkgjwt.Subject{UserID: a.UserID, CompanyID: a.CompanyID, StoreID: storeID, Role: string(a.Role)}, testExpMin)
}

func (a *api) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ── auth ─────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	a := newAPI(t)
	hash, err := auth.HashPassword("segredo123")
	require.NoError(t, err)
	a.f.Mutate(t, func(r repository.Repos) error {
		u, err := r.Users.Get(apptest.CompanyID, apptest.AdminID)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		return r.Users.Save(u)
	})

	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@bela.com", Password: "segredo123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, apptest.AdminID, out.User.ID)

	resp = a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@bela.com", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@bela.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// ── módulos y permisos ──────────────────────────────────────────────────────

func TestEntitlements(t *testing.T) {
	a := newAPI(t)
	a.f.Grant(t, []entity.ModuleID{entity.ModuleCaixa}, entity.PermCaixaAbrir)

	resp := a.do(t, http.MethodGet, "/api/me/entitlements", bearer(t, a.f.Employee, apptest.StoreID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.EntitlementResponse](t, resp)
	assert.Contains(t, out.VisibleModules, "caixa")
	assert.NotContains(t, out.VisibleModules, "custos")
	assert.Equal(t, []string{"caixa.abrir"}, out.Permissions)
}

func TestRequireModule_DeniesAndAudits(t *testing.T) {
	a := newAPI(t)
	tok := bearer(t, a.f.Employee, apptest.StoreID)

	resp := a.do(t, http.MethodGet, "/api/costs/overhead", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "ACCESS_DENIED", out.Code)
	assert.Equal(t, 1, a.f.Denials())
}

func TestCashSession_OpenTwiceConflicts(t *testing.T) {
	a := newAPI(t)
	tok := bearer(t, a.f.Admin, "")
	body := dto.OpenCashSessionRequest{StoreID: apptest.StoreID, OpeningAmount: apptest.D("200")}

	resp := a.do(t, http.MethodPost, "/api/cash-sessions", tok, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s := decode[dto.CashSessionResponse](t, resp)

	resp = a.do(t, http.MethodPost, "/api/cash-sessions", tok, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CASH_SESSION_OPEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = a.do(t, http.MethodGet, "/api/cash-sessions/current?store_id="+apptest.StoreID, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, s.ID, decode[dto.CashSessionResponse](t, resp).ID)

	resp = a.do(t, http.MethodGet, "/api/cash-sessions/current?store_id="+apptest.Store2ID, tok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestValidationMapsTo400(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/inventory/movements", bearer(t, a.f.Admin, ""), dto.RegisterMovementRequest{
		Operation: "teleport", StoreID: apptest.StoreID, SKU: "X", Quantity: 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestDashboardSummary(t *testing.T) {
	a := newAPI(t)

	resp := a.do(t, http.MethodGet, "/api/dashboard/summary", bearer(t, a.f.Admin, ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.DashboardSummary](t, resp)
	assert.Equal(t, 0, out.SalesCount)
	assert.Equal(t, "Maio 2026", out.DateLabel)

	resp = a.do(t, http.MethodGet, "/api/dashboard/summary?store_id=nao-existe", bearer(t, a.f.Admin, ""), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/dashboard/summary", bearer(t, a.f.Employee, apptest.StoreID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ── admin global ────────────────────────────────────────────────────────────

func TestAdminRoutes_RequireGlobalAdmin(t *testing.T) {
	a := newAPI(t)

	resp := a.do(t, http.MethodGet, "/api/admin/plans", bearer(t, a.f.Admin, ""), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/admin/plans", bearer(t, a.f.Global, ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	plans := decode[[]dto.PlanResponse](t, resp)
	require.Len(t, plans, 1)
	assert.Equal(t, apptest.PlanID, plans[0].ID)
}

// ── sincronización ──────────────────────────────────────────────────────────

func TestSyncStatusHeader(t *testing.T) {
	a := newAPI(t)
	tok := bearer(t, a.f.Admin, "")

	resp := a.do(t, http.MethodGet, "/api/branding", tok, nil)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderSyncStatus))
	resp.Body.Close()

	a.sync.failed = 2
	resp = a.do(t, http.MethodGet, "/api/branding", tok, nil)
	assert.Equal(t, "pending", resp.Header.Get(apphttp.HeaderSyncStatus))
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, "/api/admin/sync/retry", bearer(t, a.f.Global, ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, decode[map[string]int](t, resp)["requeued"])
}
