package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "operation, store_id (to_store_id en transfer), sku, quantity, reason"
// @Success      201   {array}   dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReceiveTransfer confirma la llegada de mercadería en tránsito.
func (h *InventoryHandler) ReceiveTransfer(c *fiber.Ctx) error {
	var in dto.ReceiveTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ReceiveTransfer(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balances saldos de la loja (?store_id=, por defecto la del token).
func (h *InventoryHandler) Balances(c *fiber.Ctx) error {
	storeID := c.Query("store_id", GetStoreID(c))
	out, err := h.uc.ListBalances(c.UserContext(), GetActor(c), storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Devuelve los SKUs por debajo del punto de reposición con la cantidad sugerida
//
//	de pedido, ordenados por margen y cantidad.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id       query  string  false  "Loja. Vacío = la del token."
// @Param        reorder_point  query  int     false  "Punto de reposición (por defecto 3)."
// @Success      200  {array}   dto.ReplenishmentSuggestion
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	storeID := c.Query("store_id", GetStoreID(c))
	rp := c.QueryInt("reorder_point", inventory.DefaultReorderPoint)

	list, err := h.uc.GenerateReplenishmentList(c.UserContext(), GetActor(c), storeID, rp)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
