// Package cash orquesta el libro de caja por loja: abertura, suprimento, sangria,
// fechamento con divergencia y relatório.
package cash

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/application/usecase"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/cashsession"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var (
	openCash  = permission.ForPermission(entity.PermCaixaAbrir)
	closeCash = permission.ForPermission(entity.PermCaixaFechar)
	cashIn    = permission.ForPermission(entity.PermCaixaSuprimento)
	cashOut   = permission.ForPermission(entity.PermCaixaSangria)
	viewCash  = permission.ForModule(entity.ModuleCaixa)
)

// UseCase sesiones de caja. Todas las mutaciones pasan por el runner de la empresa,
// así la unicidad de la sesión abierta y el cierre no compiten entre sí.
type UseCase struct {
	tx     repository.TxRunner
	authz  *authz.Authorizer
	c      ports.Collaborators
	report ReportGenerator
	brand  usecase.PlatformBrand
}

// NewUseCase construye el caso de uso. report puede ser nil (relatório deshabilitado).
func NewUseCase(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators, report ReportGenerator, platform usecase.PlatformBrand) *UseCase {
	return &UseCase{tx: tx, authz: az, c: c, report: report, brand: platform}
}

func toResponse(s *entity.CashSession) *dto.CashSessionResponse {
	status := ""
	if !s.IsOpen() {
		status = string(cashsession.Classify(s.Divergence))
	}
	return dto.ToCashSessionResponse(s, status)
}

// Open abre la sesión de la loja; falla si ya hay una abierta.
func (uc *UseCase) Open(ctx context.Context, actor entity.Actor, in dto.OpenCashSessionRequest) (*dto.CashSessionResponse, error) {
	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out *entity.CashSession
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := uc.authz.Authorize(ctx, r, actor, openCash, in.StoreID); err != nil {
			return err
		}
		store, err := r.Companies.GetStore(actor.CompanyID, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil || !store.Active {
			return fmt.Errorf("%w: loja %s", domain.ErrNotFound, in.StoreID)
		}
		current, err := r.Cash.FindOpenByStore(actor.CompanyID, in.StoreID)
		if err != nil {
			return err
		}
		if current != nil {
			return domain.ErrCashSessionAlreadyOpen
		}
		s, err := cashsession.Open(uuid.New().String(), actor.CompanyID, in.StoreID, in.OpeningAmount, actor.Name(), now)
		if err != nil {
			return err
		}
		if err := r.Cash.Save(s); err != nil {
			return err
		}
		if err := uc.appendMovement(r, fx, s, entity.CashMovementOpening, in.OpeningAmount, "", actor, now); err != nil {
			return err
		}
		fx.Persist(ports.KindCashSession, s.ID, s)
		fx.Audit("cash.open", "cash_session", s.ID, "", nil, s)
		fx.Emit("cash.opened", "cash_session", s.ID)
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	return toResponse(out), nil
}

// CashIn registra un suprimento.
func (uc *UseCase) CashIn(ctx context.Context, actor entity.Actor, sessionID string, in dto.CashMovementRequest) (*dto.CashSessionResponse, error) {
	return uc.move(ctx, actor, sessionID, cashIn, entity.CashMovementIn, in, cashsession.CashIn)
}

// CashOut registra una sangria.
func (uc *UseCase) CashOut(ctx context.Context, actor entity.Actor, sessionID string, in dto.CashMovementRequest) (*dto.CashSessionResponse, error) {
	return uc.move(ctx, actor, sessionID, cashOut, entity.CashMovementOut, in, cashsession.CashOut)
}

func (uc *UseCase) move(
	ctx context.Context,
	actor entity.Actor,
	sessionID string,
	capability permission.Capability,
	kind entity.CashMovementKind,
	in dto.CashMovementRequest,
	apply func(*entity.CashSession, decimal.Decimal) error,
) (*dto.CashSessionResponse, error) {
	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out *entity.CashSession
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		s, err := uc.session(ctx, r, actor, sessionID, capability)
		if err != nil {
			return err
		}
		before := *s
		if err := apply(s, in.Amount); err != nil {
			return err
		}
		if err := r.Cash.Save(s); err != nil {
			return err
		}
		if err := uc.appendMovement(r, fx, s, kind, in.Amount, in.Reason, actor, now); err != nil {
			return err
		}
		fx.Persist(ports.KindCashSession, s.ID, s)
		fx.Audit("cash."+string(kind), "cash_session", s.ID, in.Reason, before, s)
		fx.Emit("cash.moved", "cash_session", s.ID)
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	return toResponse(out), nil
}

// Close fecha la sesión: esperado = abertura + vendas em dinheiro/pix desde la abertura
// - sangrias + suprimentos; divergencia = contado - esperado.
func (uc *UseCase) Close(ctx context.Context, actor entity.Actor, sessionID string, in dto.CloseCashSessionRequest) (*dto.CashSessionResponse, error) {
	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out *entity.CashSession
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		s, err := uc.session(ctx, r, actor, sessionID, closeCash)
		if err != nil {
			return err
		}
		before := *s
		sales, err := r.Sales.ListByStoreSince(actor.CompanyID, s.StoreID, s.OpenedAt)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		if err := cashsession.Close(s, in.CountedAmount, cashsession.CashSalesSince(sales, s.StoreID, s.OpenedAt), actor.Name(), now); err != nil {
			return err
		}
		if err := r.Cash.Save(s); err != nil {
			return err
		}
		if err := uc.appendMovement(r, fx, s, entity.CashMovementClosing, in.CountedAmount, "", actor, now); err != nil {
			return err
		}
		fx.Persist(ports.KindCashSession, s.ID, s)
		fx.Audit("cash.close", "cash_session", s.ID, "", before, s)
		fx.Emit("cash.closed", "cash_session", s.ID)
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)

	status := cashsession.Classify(out.Divergence)
	ev := uc.c.Logger().Info()
	if status != cashsession.DivergenceOK {
		ev = uc.c.Logger().Warn()
	}
	ev.Str("company_id", actor.CompanyID).
		Str("store_id", out.StoreID).
		Str("session_id", out.ID).
		Str("expected", out.ExpectedCash.StringFixed(2)).
		Str("divergence", out.Divergence.StringFixed(2)).
		Str("status", string(status)).
		Msg("caixa fechado")
	return toResponse(out), nil
}

// Get devuelve la sesión (cualquier permiso del módulo caixa en la loja).
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, sessionID string) (*dto.CashSessionResponse, error) {
	var out *entity.CashSession
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		s, err := uc.session(ctx, r, actor, sessionID, viewCash)
		out = s
		return err
	})
	if err != nil {
		return nil, err
	}
	return toResponse(out), nil
}

// CurrentForStore sesión abierta de la loja, o nil.
func (uc *UseCase) CurrentForStore(ctx context.Context, actor entity.Actor, storeID string) (*dto.CashSessionResponse, error) {
	var out *entity.CashSession
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := uc.authz.Authorize(ctx, r, actor, viewCash, storeID); err != nil {
			return err
		}
		s, err := r.Cash.FindOpenByStore(actor.CompanyID, storeID)
		out = s
		return err
	})
	if err != nil || out == nil {
		return nil, err
	}
	return toResponse(out), nil
}

// History sesiones de la loja, de la más reciente a la más antigua.
func (uc *UseCase) History(ctx context.Context, actor entity.Actor, storeID string) ([]*dto.CashSessionResponse, error) {
	var sessions []*entity.CashSession
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if storeID == "" {
			return fmt.Errorf("%w: store_id requerido", domain.ErrInvalidInput)
		}
		if _, err := uc.authz.Authorize(ctx, r, actor, viewCash, storeID); err != nil {
			return err
		}
		var err error
		sessions, err = r.Cash.ListByStore(actor.CompanyID, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].OpenedAt.After(sessions[j].OpenedAt) })
	out := make([]*dto.CashSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toResponse(s))
	}
	return out, nil
}

// Report genera el relatório de fechamento. Solo existe para sesiones cerradas.
func (uc *UseCase) Report(ctx context.Context, actor entity.Actor, sessionID string) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("%w: relatório no configurado", domain.ErrNotFound)
	}
	var rep Report
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		s, err := r.Cash.Get(actor.CompanyID, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: sesión de caja %s", domain.ErrNotFound, sessionID)
		}
		access, err := uc.authz.Authorize(ctx, r, actor, viewCash, s.StoreID)
		if err != nil {
			return err
		}
		if s.IsOpen() {
			return fmt.Errorf("%w: la sesión sigue abierta", domain.ErrConflict)
		}
		rep = Report{Session: s, Divergence: cashsession.Classify(s.Divergence)}
		if rep.Company, err = r.Companies.Get(actor.CompanyID); err != nil {
			return err
		}
		if rep.Store, err = r.Companies.GetStore(actor.CompanyID, s.StoreID); err != nil {
			return err
		}
		if rep.Movements, err = r.Cash.ListMovements(actor.CompanyID, s.ID); err != nil {
			return err
		}
		sales, err := r.Sales.ListByStoreSince(actor.CompanyID, s.StoreID, s.OpenedAt)
		if err != nil {
			return err
		}
		for _, sl := range sales {
			if s.ClosedAt == nil || !sl.FinalizedAt.After(*s.ClosedAt) {
				rep.Sales = append(rep.Sales, sl)
			}
		}
		b, err := r.Branding.Get(actor.CompanyID)
		if err != nil {
			return err
		}
		rep.Brand = usecase.Effective(uc.brand, b, access.Entitlement)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateCashReport(ctx, rep)
}

// session carga la sesión y autoriza sobre su loja. Inexistente ⇒ ErrNotFound.
func (uc *UseCase) session(ctx context.Context, r repository.Repos, actor entity.Actor, id string, c permission.Capability) (*entity.CashSession, error) {
	s, err := r.Cash.Get(actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: sesión de caja %s", domain.ErrNotFound, id)
	}
	if _, err := uc.authz.Authorize(ctx, r, actor, c, s.StoreID); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *UseCase) appendMovement(r repository.Repos, fx *ports.Effects, s *entity.CashSession, kind entity.CashMovementKind, amount decimal.Decimal, reason string, actor entity.Actor, now time.Time) error {
	mov := &entity.CashMovement{
		ID:        uuid.New().String(),
		CompanyID: s.CompanyID,
		SessionID: s.ID,
		Kind:      kind,
		Amount:    amount,
		Reason:    reason,
		Actor:     actor.Name(),
		CreatedAt: now,
	}
	if err := r.Cash.AppendMovement(mov); err != nil {
		return err
	}
	fx.Persist(ports.KindCashMovement, mov.ID, mov)
	return nil
}
