// Package memory implementa el Catalog & Inventory Store en memoria: colecciones
// normalizadas por tenant, transacciones serializadas por empresa y log de auditoría.
// Es la fuente de verdad de la sesión; la persistencia durable es asíncrona.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var (
	_ repository.TxRunner = (*Store)(nil)
	_ ports.Auditor       = (*Store)(nil)
)

// Store estado en memoria de todos los tenants.
type Store struct {
	mu sync.RWMutex // protege las tablas

	tenantsMu sync.Mutex
	tenants   map[string]*sync.Mutex

	companies      *table[entity.Company]
	stores         *table[entity.Store]
	plans          *table[entity.Plan]
	licenses       *table[entity.License]
	users          *table[entity.User]
	costItems      *table[entity.CostItem]
	costParams     *table[entity.CostParameters]
	snapshots      *table[entity.OverheadSnapshot]
	pricingLines   *table[entity.PricingLine]
	cardFees       *table[entity.CardFee]
	balances       *table[entity.StockBalance]
	stockMovements *table[entity.StockMovement]
	cashSessions   *table[entity.CashSession]
	cashMovements  *table[entity.CashMovement]
	sales          *table[entity.Sale]
	receivables    *table[entity.Receivable]
	branding       *table[entity.Branding]
	audit          *table[entity.AuditEvent]
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		tenants:        map[string]*sync.Mutex{},
		companies:      newTable[entity.Company](nil),
		stores:         newTable[entity.Store](nil),
		plans:          newTable(clonePlan),
		licenses:       newTable[entity.License](nil),
		users:          newTable(cloneUser),
		costItems:      newTable[entity.CostItem](nil),
		costParams:     newTable[entity.CostParameters](nil),
		snapshots:      newTable[entity.OverheadSnapshot](nil),
		pricingLines:   newTable[entity.PricingLine](nil),
		cardFees:       newTable(cloneCardFee),
		balances:       newTable[entity.StockBalance](nil),
		stockMovements: newTable[entity.StockMovement](nil),
		cashSessions:   newTable(cloneCashSession),
		cashMovements:  newTable[entity.CashMovement](nil),
		sales:          newTable(cloneSale),
		receivables:    newTable(cloneReceivable),
		branding:       newTable[entity.Branding](nil),
		audit:          newTable[entity.AuditEvent](nil),
	}
}

func (s *Store) tenantLock(companyID string) *sync.Mutex {
	s.tenantsMu.Lock()
	defer s.tenantsMu.Unlock()
	m, ok := s.tenants[companyID]
	if !ok {
		m = &sync.Mutex{}
		s.tenants[companyID] = m
	}
	return m
}

// Run ejecuta fn serializado por empresa. Los cambios se aplican solo si fn no devuelve error.
// No es reentrante: fn no debe llamar a Run para la misma empresa.
func (s *Store) Run(ctx context.Context, companyID string, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := s.tenantLock(companyID)
	lock.Lock()
	defer lock.Unlock()

	t := s.begin()
	if err := fn(t.repos()); err != nil {
		return err
	}
	s.mu.Lock()
	t.commit()
	s.mu.Unlock()
	return nil
}

// Record implementa ports.Auditor: el registro no depende de la transacción del llamador,
// así una negación queda auditada aunque la operación se aborte.
func (s *Store) Record(_ context.Context, ev entity.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit.put(ev.ID, shallow(&ev))
	return nil
}

// AuditLog eventos de auditoría de la empresa en orden de registro.
func (s *Store) AuditLog(companyID string) []entity.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.AuditEvent
	for _, k := range s.audit.order {
		if ev := s.audit.rows[k]; ev.CompanyID == companyID {
			out = append(out, *ev)
		}
	}
	return out
}
