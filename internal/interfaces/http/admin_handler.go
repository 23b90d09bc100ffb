package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/application/ports"
)

// syncControl estado y reintento de la cola de persistencia.
type syncControl interface {
	ports.SyncReporter
	RetryFailed() int
}

// AdminHandler rutas del administrador global: planes, empresas, licencias y sincronización.
type AdminHandler struct {
	svc  *licensing.AdminService
	sync syncControl
}

// NewAdminHandler construye el handler. sync puede ser nil.
func NewAdminHandler(svc *licensing.AdminService, sync syncControl) *AdminHandler {
	return &AdminHandler{svc: svc, sync: sync}
}

// blockRequest motivo del bloqueo (queda en auditoría).
type blockRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) ListPlans(c *fiber.Ctx) error {
	out, err := h.svc.ListPlans(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePlan godoc
// @Summary      Crear plan
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanRequest  true  "name, modules, límites, monthly_price"
// @Success      201   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admin/plans [post]
func (h *AdminHandler) CreatePlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.CreatePlan(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) UpdatePlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpdatePlan(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *AdminHandler) ListCompanies(c *fiber.Ctx) error {
	out, err := h.svc.ListCompanies(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCompany godoc
// @Summary      Alta de empresa con su primera loja y company_admin
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "empresa, loja y admin"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/companies [post]
func (h *AdminHandler) CreateCompany(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.CreateCompany(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) SetCompanyStatus(c *fiber.Ctx) error {
	var in dto.SetCompanyStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SetCompanyStatus(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLicenses historial de licencias (?company_id=).
func (h *AdminHandler) ListLicenses(c *fiber.Ctx) error {
	out, err := h.svc.ListLicenses(c.UserContext(), GetActor(c), c.Query("company_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// IssueLicense emite una licencia; la activa anterior pasa a expirada.
func (h *AdminHandler) IssueLicense(c *fiber.Ctx) error {
	var in dto.IssueLicenseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.IssueLicense(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) BlockLicense(c *fiber.Ctx) error {
	var in blockRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.svc.BlockLicense(c.UserContext(), GetActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *AdminHandler) SetWhiteLabel(c *fiber.Ctx) error {
	var in dto.WhiteLabelRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SetWhiteLabel(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncStatus estado de la cola de persistencia.
func (h *AdminHandler) SyncStatus(c *fiber.Ctx) error {
	if h.sync == nil {
		return c.JSON(ports.SyncStatus{})
	}
	return c.JSON(h.sync.Status())
}

// RetrySync reencola los registros fallidos.
func (h *AdminHandler) RetrySync(c *fiber.Ctx) error {
	n := 0
	if h.sync != nil {
		n = h.sync.RetryFailed()
	}
	return c.JSON(fiber.Map{"requeued": n})
}
