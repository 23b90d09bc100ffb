package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/analytics"
)

// DashboardHandler expone el resumen de ventas.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del dashboard
// @Description  Ventas y margen del día y del mes, formas de pago, top SKUs y contas a receber abiertas.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Loja (vacío: todas; empleados ven solo la suya)"
// @Success      200  {object}  dto.DashboardSummary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext(), GetActor(c), c.Query("store_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
