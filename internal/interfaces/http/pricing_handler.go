package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/pricing"
)

// PricingHandler catálogo de precificación, cotizaciones y pools de costos.
type PricingHandler struct {
	svc *pricing.Service
}

// NewPricingHandler construye el handler.
func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// Catalog godoc
// @Summary      Catálogo con costo total, margen y precios por forma de pago
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pricing/catalog [get]
func (h *PricingHandler) Catalog(c *fiber.Ctx) error {
	out, err := h.svc.ListCatalog(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpsertLine crea o edita la línea :code.
func (h *PricingHandler) UpsertLine(c *fiber.Ctx) error {
	var in dto.PricingLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpsertLine(c.UserContext(), GetActor(c), c.Params("code"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateLine baja lógica de la línea.
func (h *PricingHandler) DeactivateLine(c *fiber.Ctx) error {
	if err := h.svc.DeactivateLine(c.UserContext(), GetActor(c), c.Params("code")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Quote godoc
// @Summary      Precio de una línea para la forma de pago elegida
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "code, quantity, selection"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/quote [post]
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Quote(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Overhead totales de los pools y overhead unitario vigente.
func (h *PricingHandler) Overhead(c *fiber.Ctx) error {
	out, err := h.svc.Overhead(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *PricingHandler) AddCostItem(c *fiber.Ctx) error {
	var in dto.CostItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.AddCostItem(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *PricingHandler) UpdateCostItem(c *fiber.Ctx) error {
	var in dto.CostItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpdateCostItem(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *PricingHandler) DeactivateCostItem(c *fiber.Ctx) error {
	if err := h.svc.DeactivateCostItem(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PricingHandler) SetParameters(c *fiber.Ctx) error {
	var in dto.CostParametersRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SetParameters(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpsertCardFee tasa por bandera y tipo; fee_percent nulo = no aplica.
func (h *PricingHandler) UpsertCardFee(c *fiber.Ctx) error {
	var in dto.CardFeeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpsertCardFee(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *PricingHandler) Snapshots(c *fiber.Ctx) error {
	out, err := h.svc.ListSnapshots(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
