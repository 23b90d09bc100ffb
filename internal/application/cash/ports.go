package cash

import (
	"context"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/domain/cashsession"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// Report datos del relatório de fechamento de una sesión cerrada.
type Report struct {
	Company    *entity.Company
	Store      *entity.Store
	Brand      dto.BrandingResponse
	Session    *entity.CashSession
	Movements  []*entity.CashMovement
	Sales      []*entity.Sale // ventas de la loja en el período de la sesión
	Divergence cashsession.DivergenceStatus
}

// ReportGenerator genera el PDF del fechamento (implementado en infrastructure/pdf).
type ReportGenerator interface {
	GenerateCashReport(ctx context.Context, r Report) ([]byte, error)
}
