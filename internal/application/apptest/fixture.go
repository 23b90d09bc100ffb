// Package apptest arma un tenant de prueba sobre el store en memoria para los
// tests de la capa de aplicación.
package apptest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/internal/infrastructure/memory"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// Identificadores fijos del tenant de prueba.
const (
	CompanyID  = "c-1"
	StoreID    = "s-1"
	Store2ID   = "s-2"
	PlanID     = "p-1"
	LicenseID  = "l-1"
	AdminID    = "u-admin"
	EmployeeID = "u-emp"
)

// Now instante fijo de los tests.
var Now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

// Events publicador que guarda lo recibido.
type Events struct {
	mu   sync.Mutex
	list []entity.Event
}

// Publish implementa ports.EventPublisher.
func (e *Events) Publish(_ context.Context, ev entity.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, ev)
	return nil
}

// Kinds tipos publicados en orden.
func (e *Events) Kinds() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.list))
	for _, ev := range e.list {
		out = append(out, ev.Kind)
	}
	return out
}

// Sync cola que guarda los registros encolados.
type Sync struct {
	mu      sync.Mutex
	records []ports.SyncRecord
}

// Enqueue implementa ports.SyncEnqueuer.
func (s *Sync) Enqueue(rec ports.SyncRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Kinds tipos encolados en orden.
func (s *Sync) Kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Kind)
	}
	return out
}

// Fixture tenant con plan completo, licencia activa, un admin y un empleado sin concesiones.
type Fixture struct {
	Store  *memory.Store
	Events *Events
	Sync   *Sync
	C      ports.Collaborators
	Authz  *authz.Authorizer

	Admin    entity.Actor
	Employee entity.Actor
	Global   entity.Actor
}

// New crea el fixture.
func New(t *testing.T) *Fixture {
	t.Helper()
	f := &Fixture{Store: memory.New(), Events: &Events{}, Sync: &Sync{}}
	clock := func() time.Time { return Now }
	log := logger.Nop()
	f.C = ports.Collaborators{Audit: f.Store, Events: f.Events, Sync: f.Sync, Log: log, Now: clock}
	f.Authz = authz.NewAuthorizer(f.Store, f.Store, log, clock)
	f.Admin = entity.Actor{UserID: AdminID, CompanyID: CompanyID, Role: entity.RoleCompanyAdmin}
	f.Employee = entity.Actor{UserID: EmployeeID, CompanyID: CompanyID, Role: entity.RoleEmployee}
	f.Global = entity.Actor{UserID: "root", Role: entity.RoleGlobalAdmin}

	f.Mutate(t, func(r repository.Repos) error {
		_ = r.Plans.Save(&entity.Plan{ID: PlanID, Name: "Completo", ModulesEnabled: entity.AllModules()})
		_ = r.Companies.Save(&entity.Company{ID: CompanyID, Name: "Moda Bela", Status: entity.CompanyStatusActive})
		_ = r.Companies.SaveStore(&entity.Store{ID: StoreID, CompanyID: CompanyID, Name: "Centro", Active: true})
		_ = r.Companies.SaveStore(&entity.Store{ID: Store2ID, CompanyID: CompanyID, Name: "Shopping", Active: true})
		_ = r.Licenses.Save(&entity.License{
			ID: LicenseID, CompanyID: CompanyID, PlanID: PlanID,
			StartDate: Now.AddDate(0, -1, 0), Status: entity.LicenseStatusActive,
			SuspensionPolicy: entity.SuspensionReadOnly,
		})
		_ = r.Users.Save(&entity.User{ID: AdminID, CompanyID: CompanyID, Email: "admin@bela.com", Role: entity.RoleCompanyAdmin, Status: entity.UserStatusActive})
		_ = r.Users.Save(&entity.User{ID: EmployeeID, CompanyID: CompanyID, StoreID: StoreID, Email: "ana@bela.com", Role: entity.RoleEmployee, Status: entity.UserStatusActive})
		return r.Costs.SaveParameters(&entity.CostParameters{CompanyID: CompanyID, DefaultCashDiscountPercent: decimal.NewFromInt(10)})
	})
	return f
}

// Mutate escribe directamente en el tenant (preparación de escenarios).
func (f *Fixture) Mutate(t *testing.T, fn func(r repository.Repos) error) {
	t.Helper()
	require.NoError(t, f.Store.Run(context.Background(), CompanyID, fn))
}

// Grant concede módulos y permisos al empleado sin pasar por los casos de uso.
func (f *Fixture) Grant(t *testing.T, modules []entity.ModuleID, perms ...entity.PermissionID) {
	t.Helper()
	f.Mutate(t, func(r repository.Repos) error {
		u, err := r.Users.Get(CompanyID, EmployeeID)
		if err != nil {
			return err
		}
		u.ModulesGranted = modules
		u.PermissionsGranted = perms
		return r.Users.Save(u)
	})
}

// SetPlanLimits ajusta los límites del plan.
func (f *Fixture) SetPlanLimits(t *testing.T, fn func(p *entity.Plan)) {
	t.Helper()
	f.Mutate(t, func(r repository.Repos) error {
		p, err := r.Plans.Get(PlanID)
		if err != nil {
			return err
		}
		fn(p)
		return r.Plans.Save(p)
	})
}

// Denials cantidad de negaciones auditadas en el tenant.
func (f *Fixture) Denials() int {
	n := 0
	for _, ev := range f.Store.AuditLog(CompanyID) {
		if ev.Action == entity.AuditAccessDenied {
			n++
		}
	}
	return n
}

// D atajo para decimales literales.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }
