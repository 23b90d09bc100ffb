package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/usecase"
)

// CompanyHandler empresa de la sesión, sus lojas, módulos visibles y marca.
type CompanyHandler struct {
	company  *usecase.CompanyUseCase
	modules  *usecase.ModuleService
	branding *usecase.BrandingUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(company *usecase.CompanyUseCase, modules *usecase.ModuleService, branding *usecase.BrandingUseCase) *CompanyHandler {
	return &CompanyHandler{company: company, modules: modules, branding: branding}
}

// Entitlements godoc
// @Summary      Módulos y permisos efectivos del usuario
// @Tags         me
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.EntitlementResponse
// @Router       /api/me/entitlements [get]
func (h *CompanyHandler) Entitlements(c *fiber.Ctx) error {
	out, err := h.modules.Entitlements(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get empresa de la sesión con sus lojas.
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.company.Get(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateStore godoc
// @Summary      Nueva loja
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "name, address"
// @Success      201   {object}  dto.StoreResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/company/stores [post]
func (h *CompanyHandler) CreateStore(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.company.CreateStore(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Branding marca efectiva según la licencia.
func (h *CompanyHandler) Branding(c *fiber.Ctx) error {
	out, err := h.branding.Get(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateBranding godoc
// @Summary      Editar marca white-label
// @Tags         branding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BrandingRequest  true  "display_name, logo_url, colores"
// @Success      200   {object}  dto.BrandingResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/branding [put]
func (h *CompanyHandler) UpdateBranding(c *fiber.Ctx) error {
	var in dto.BrandingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.branding.Update(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AuditLog godoc
// @Summary      Log de auditoría de la empresa
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de entradas (por defecto 20)"
// @Success      200  {array}   dto.AuditEventResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/company/audit [get]
func (h *CompanyHandler) AuditLog(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.company.AuditLog(c.UserContext(), GetActor(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
