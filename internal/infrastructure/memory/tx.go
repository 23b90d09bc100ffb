package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

// tx escrituras pendientes de una llamada a Run.
type tx struct {
	companies      *overlay[entity.Company]
	stores         *overlay[entity.Store]
	plans          *overlay[entity.Plan]
	licenses       *overlay[entity.License]
	users          *overlay[entity.User]
	costItems      *overlay[entity.CostItem]
	costParams     *overlay[entity.CostParameters]
	snapshots      *overlay[entity.OverheadSnapshot]
	pricingLines   *overlay[entity.PricingLine]
	cardFees       *overlay[entity.CardFee]
	balances       *overlay[entity.StockBalance]
	stockMovements *overlay[entity.StockMovement]
	cashSessions   *overlay[entity.CashSession]
	cashMovements  *overlay[entity.CashMovement]
	sales          *overlay[entity.Sale]
	receivables    *overlay[entity.Receivable]
	branding       *overlay[entity.Branding]
	audit          *overlay[entity.AuditEvent]
}

func (s *Store) begin() *tx {
	return &tx{
		companies:      newOverlay(s, s.companies),
		stores:         newOverlay(s, s.stores),
		plans:          newOverlay(s, s.plans),
		licenses:       newOverlay(s, s.licenses),
		users:          newOverlay(s, s.users),
		costItems:      newOverlay(s, s.costItems),
		costParams:     newOverlay(s, s.costParams),
		snapshots:      newOverlay(s, s.snapshots),
		pricingLines:   newOverlay(s, s.pricingLines),
		cardFees:       newOverlay(s, s.cardFees),
		balances:       newOverlay(s, s.balances),
		stockMovements: newOverlay(s, s.stockMovements),
		cashSessions:   newOverlay(s, s.cashSessions),
		cashMovements:  newOverlay(s, s.cashMovements),
		sales:          newOverlay(s, s.sales),
		receivables:    newOverlay(s, s.receivables),
		branding:       newOverlay(s, s.branding),
		audit:          newOverlay(s, s.audit),
	}
}

func (t *tx) commit() {
	t.companies.commit()
	t.stores.commit()
	t.plans.commit()
	t.licenses.commit()
	t.users.commit()
	t.costItems.commit()
	t.costParams.commit()
	t.snapshots.commit()
	t.pricingLines.commit()
	t.cardFees.commit()
	t.balances.commit()
	t.stockMovements.commit()
	t.cashSessions.commit()
	t.cashMovements.commit()
	t.sales.commit()
	t.receivables.commit()
	t.branding.commit()
	t.audit.commit()
}

func (t *tx) repos() repository.Repos {
	return repository.Repos{
		Companies:   companyRepo{t},
		Plans:       planRepo{t},
		Licenses:    licenseRepo{t},
		Users:       userRepo{t},
		Costs:       costRepo{t},
		Pricing:     pricingRepo{t},
		CardFees:    cardFeeRepo{t},
		Stock:       stockRepo{t},
		Cash:        cashRepo{t},
		Sales:       saleRepo{t},
		Receivables: receivableRepo{t},
		Branding:    brandingRepo{t},
		Audit:       auditRepo{t},
	}
}

func tenant(companyID string) string { return companyID + "/" }

// ── empresas y lojas ─────────────────────────────────────────────────────────

type companyRepo struct{ t *tx }

func (r companyRepo) Get(id string) (*entity.Company, error) { return r.t.companies.get(id), nil }

func (r companyRepo) List() ([]*entity.Company, error) { return r.t.companies.list("", nil), nil }

func (r companyRepo) Save(c *entity.Company) error {
	r.t.companies.put(c.ID, c)
	return nil
}

func (r companyRepo) GetStore(companyID, storeID string) (*entity.Store, error) {
	return r.t.stores.get(key(companyID, storeID)), nil
}

func (r companyRepo) ListStores(companyID string) ([]*entity.Store, error) {
	return r.t.stores.list(tenant(companyID), nil), nil
}

func (r companyRepo) SaveStore(s *entity.Store) error {
	r.t.stores.put(key(s.CompanyID, s.ID), s)
	return nil
}

// ── planes y licencias ───────────────────────────────────────────────────────

type planRepo struct{ t *tx }

func (r planRepo) Get(id string) (*entity.Plan, error) { return r.t.plans.get(id), nil }

func (r planRepo) List() ([]*entity.Plan, error) { return r.t.plans.list("", nil), nil }

func (r planRepo) Save(p *entity.Plan) error {
	r.t.plans.put(p.ID, p)
	return nil
}

type licenseRepo struct{ t *tx }

func (r licenseRepo) Get(id string) (*entity.License, error) { return r.t.licenses.get(id), nil }

func (r licenseRepo) ListByCompany(companyID string) ([]*entity.License, error) {
	return r.t.licenses.list("", func(l *entity.License) bool { return l.CompanyID == companyID }), nil
}

func (r licenseRepo) Save(l *entity.License) error {
	r.t.licenses.put(l.ID, l)
	return nil
}

// ── usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct{ t *tx }

func (r userRepo) Get(companyID, id string) (*entity.User, error) {
	return r.t.users.get(key(companyID, id)), nil
}

func (r userRepo) FindByEmail(email string) (*entity.User, error) {
	found := r.t.users.list("", func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r userRepo) ListByCompany(companyID string) ([]*entity.User, error) {
	return r.t.users.list(tenant(companyID), nil), nil
}

func (r userRepo) Save(u *entity.User) error {
	r.t.users.put(key(u.CompanyID, u.ID), u)
	return nil
}

// ── costos ───────────────────────────────────────────────────────────────────

type costRepo struct{ t *tx }

func (r costRepo) GetItem(companyID, id string) (*entity.CostItem, error) {
	return r.t.costItems.get(key(companyID, id)), nil
}

func (r costRepo) ListItems(companyID string) ([]*entity.CostItem, error) {
	return r.t.costItems.list(tenant(companyID), nil), nil
}

func (r costRepo) SaveItem(it *entity.CostItem) error {
	r.t.costItems.put(key(it.CompanyID, it.ID), it)
	return nil
}

func (r costRepo) GetParameters(companyID string) (*entity.CostParameters, error) {
	return r.t.costParams.get(companyID), nil
}

func (r costRepo) SaveParameters(p *entity.CostParameters) error {
	r.t.costParams.put(p.CompanyID, p)
	return nil
}

func (r costRepo) AppendSnapshot(s *entity.OverheadSnapshot) error {
	r.t.snapshots.put(key(s.CompanyID, s.ID), s)
	return nil
}

func (r costRepo) ListSnapshots(companyID string) ([]*entity.OverheadSnapshot, error) {
	return r.t.snapshots.list(tenant(companyID), nil), nil
}

// ── catálogo y tarifas ───────────────────────────────────────────────────────

type pricingRepo struct{ t *tx }

func (r pricingRepo) Get(companyID, code string) (*entity.PricingLine, error) {
	return r.t.pricingLines.get(key(companyID, code)), nil
}

func (r pricingRepo) List(companyID string) ([]*entity.PricingLine, error) {
	return r.t.pricingLines.list(tenant(companyID), nil), nil
}

func (r pricingRepo) Save(l *entity.PricingLine) error {
	r.t.pricingLines.put(key(l.CompanyID, l.Code), l)
	return nil
}

type cardFeeRepo struct{ t *tx }

func (r cardFeeRepo) List(companyID string) ([]*entity.CardFee, error) {
	return r.t.cardFees.list(tenant(companyID), nil), nil
}

func (r cardFeeRepo) Save(f *entity.CardFee) error {
	r.t.cardFees.put(key(f.CompanyID, string(f.Network), string(f.FeeType)), f)
	return nil
}

// ── stock ────────────────────────────────────────────────────────────────────

type stockRepo struct{ t *tx }

func (r stockRepo) GetBalance(companyID, storeID, sku string) (*entity.StockBalance, error) {
	if b := r.t.balances.get(key(companyID, storeID, sku)); b != nil {
		return b, nil
	}
	return &entity.StockBalance{CompanyID: companyID, StoreID: storeID, SKU: sku}, nil
}

func (r stockRepo) ListBalances(companyID, storeID string) ([]*entity.StockBalance, error) {
	return r.t.balances.list(key(companyID, storeID)+"/", nil), nil
}

func (r stockRepo) SaveBalance(b *entity.StockBalance) error {
	r.t.balances.put(key(b.CompanyID, b.StoreID, b.SKU), b)
	return nil
}

func (r stockRepo) AppendMovement(m *entity.StockMovement) error {
	r.t.stockMovements.put(key(m.CompanyID, m.ID), m)
	return nil
}

func (r stockRepo) ListMovements(companyID, storeID, sku string) ([]*entity.StockMovement, error) {
	return r.t.stockMovements.list(tenant(companyID), func(m *entity.StockMovement) bool {
		return (storeID == "" || m.StoreID == storeID) && (sku == "" || m.SKU == sku)
	}), nil
}

// ── caixa ────────────────────────────────────────────────────────────────────

type cashRepo struct{ t *tx }

func (r cashRepo) Get(companyID, id string) (*entity.CashSession, error) {
	return r.t.cashSessions.get(key(companyID, id)), nil
}

func (r cashRepo) FindOpenByStore(companyID, storeID string) (*entity.CashSession, error) {
	open := r.t.cashSessions.list(tenant(companyID), func(s *entity.CashSession) bool {
		return s.StoreID == storeID && s.IsOpen()
	})
	if len(open) == 0 {
		return nil, nil
	}
	return open[0], nil
}

func (r cashRepo) ListByStore(companyID, storeID string) ([]*entity.CashSession, error) {
	return r.t.cashSessions.list(tenant(companyID), func(s *entity.CashSession) bool {
		return storeID == "" || s.StoreID == storeID
	}), nil
}

func (r cashRepo) Save(s *entity.CashSession) error {
	r.t.cashSessions.put(key(s.CompanyID, s.ID), s)
	return nil
}

func (r cashRepo) AppendMovement(m *entity.CashMovement) error {
	r.t.cashMovements.put(key(m.CompanyID, m.ID), m)
	return nil
}

func (r cashRepo) ListMovements(companyID, sessionID string) ([]*entity.CashMovement, error) {
	return r.t.cashMovements.list(tenant(companyID), func(m *entity.CashMovement) bool {
		return m.SessionID == sessionID
	}), nil
}

// ── ventas y contas a receber ────────────────────────────────────────────────

type saleRepo struct{ t *tx }

func (r saleRepo) Get(companyID, id string) (*entity.Sale, error) {
	return r.t.sales.get(key(companyID, id)), nil
}

func (r saleRepo) ListByStoreSince(companyID, storeID string, since time.Time) ([]*entity.Sale, error) {
	return r.t.sales.list(tenant(companyID), func(s *entity.Sale) bool {
		return s.StoreID == storeID && !s.FinalizedAt.Before(since)
	}), nil
}

func (r saleRepo) CountSince(companyID string, since time.Time) (int, error) {
	return len(r.t.sales.list(tenant(companyID), func(s *entity.Sale) bool {
		return !s.FinalizedAt.Before(since)
	})), nil
}

func (r saleRepo) Save(s *entity.Sale) error {
	r.t.sales.put(key(s.CompanyID, s.ID), s)
	return nil
}

type receivableRepo struct{ t *tx }

func (r receivableRepo) Get(companyID, id string) (*entity.Receivable, error) {
	return r.t.receivables.get(key(companyID, id)), nil
}

func (r receivableRepo) List(companyID string, status entity.ReceivableStatus) ([]*entity.Receivable, error) {
	out := r.t.receivables.list(tenant(companyID), func(rec *entity.Receivable) bool {
		return status == "" || rec.Status == status
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r receivableRepo) Save(rec *entity.Receivable) error {
	r.t.receivables.put(key(rec.CompanyID, rec.ID), rec)
	return nil
}

// ── marca y auditoría ────────────────────────────────────────────────────────

type brandingRepo struct{ t *tx }

func (r brandingRepo) Get(companyID string) (*entity.Branding, error) {
	return r.t.branding.get(companyID), nil
}

func (r brandingRepo) Save(b *entity.Branding) error {
	r.t.branding.put(b.CompanyID, b)
	return nil
}

type auditRepo struct{ t *tx }

func (r auditRepo) Append(ev *entity.AuditEvent) error {
	r.t.audit.put(ev.ID, ev)
	return nil
}

func (r auditRepo) List(companyID string, limit int) ([]*entity.AuditEvent, error) {
	out := r.t.audit.list("", func(ev *entity.AuditEvent) bool { return ev.CompanyID == companyID })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
