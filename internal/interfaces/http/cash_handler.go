package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/cash"
	"github.com/jhoicas/moda-retail/internal/application/dto"
)

// CashHandler sesiones de caixa por loja.
type CashHandler struct {
	uc *cash.UseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cash.UseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caixa
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashSessionRequest  true  "store_id, opening_amount"
// @Success      201   {object}  dto.CashSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Open(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CashIn suprimento.
func (h *CashHandler) CashIn(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c)(h.uc.CashIn(c.UserContext(), GetActor(c), c.Params("id"), in))
}

// CashOut sangria.
func (h *CashHandler) CashOut(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c)(h.uc.CashOut(c.UserContext(), GetActor(c), c.Params("id"), in))
}

// Close godoc
// @Summary      Fechar caixa
// @Description  Calcula el esperado (abertura + vendas dinheiro/PIX + suprimentos - sangrias) y la divergencia.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "session id"
// @Param        body  body  dto.CloseCashSessionRequest  true  "counted_amount"
// @Success      200   {object}  dto.CashSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c)(h.uc.Close(c.UserContext(), GetActor(c), c.Params("id"), in))
}

func (h *CashHandler) Get(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.Get(c.UserContext(), GetActor(c), c.Params("id")))
}

// Current sesión abierta de la loja (?store_id=, por defecto la del token). 204 si no hay.
func (h *CashHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.CurrentForStore(c.UserContext(), GetActor(c), c.Query("store_id", GetStoreID(c)))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(out)
}

// History sesiones de la loja (?store_id=, por defecto la del token).
func (h *CashHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetActor(c), c.Query("store_id", GetStoreID(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report relatório PDF de una sesión cerrada.
func (h *CashHandler) Report(c *fiber.Ctx) error {
	id := c.Params("id")
	b, err := h.uc.Report(c.UserContext(), GetActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="caixa-`+id+`.pdf"`)
	return c.Send(b)
}

func (h *CashHandler) reply(c *fiber.Ctx) func(*dto.CashSessionResponse, error) error {
	return func(out *dto.CashSessionResponse, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}
