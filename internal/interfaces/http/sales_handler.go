package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/sales"
)

// SalesHandler PDV y contas a receber.
type SalesHandler struct {
	uc *sales.UseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.UseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Finalize godoc
// @Summary      Finalizar venta
// @Description  Reprecia cada ítem con la forma de pago elegida, valida los pagos y da baja al estoque.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinalizeSaleRequest  true  "store_id, items, selection, payments"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.FinalizeSale(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receivables lista por estado (?status=open|settled, vacío = todas).
func (h *SalesHandler) Receivables(c *fiber.Ctx) error {
	out, err := h.uc.ListReceivables(c.UserContext(), GetActor(c), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Settle baixa de una cuota.
func (h *SalesHandler) Settle(c *fiber.Ctx) error {
	out, err := h.uc.Settle(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
