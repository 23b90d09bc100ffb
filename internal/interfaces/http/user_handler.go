package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/usecase"
)

// UserHandler usuarios de la empresa y sus concesiones de módulos y permisos.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, password, name, role, store_id"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateUser(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List usuarios de la empresa.
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStatus suspende, reactiva o da de baja.
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetUserStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c)(h.uc.SetStatus(c.UserContext(), GetActor(c), c.Params("id"), in))
}

// SetModules reemplaza los módulos concedidos; los permisos huérfanos se eliminan.
func (h *UserHandler) SetModules(c *fiber.Ctx) error {
	var in dto.SetModulesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c)(h.uc.SetModules(c.UserContext(), GetActor(c), c.Params("id"), in))
}

func (h *UserHandler) GrantModule(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.GrantModule(c.UserContext(), GetActor(c), c.Params("id"), c.Params("module")))
}

func (h *UserHandler) RevokeModule(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.RevokeModule(c.UserContext(), GetActor(c), c.Params("id"), c.Params("module")))
}

// GrantPermission godoc
// @Summary      Conceder permiso
// @Description  El módulo dueño del permiso debe estar concedido antes.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "user id"
// @Param        body  body  dto.GrantPermissionRequest  true  "permission"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/permissions [post]
func (h *UserHandler) GrantPermission(c *fiber.Ctx) error {
	var in dto.GrantPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c)(h.uc.GrantPermission(c.UserContext(), GetActor(c), c.Params("id"), in))
}

func (h *UserHandler) RevokePermission(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.RevokePermission(c.UserContext(), GetActor(c), c.Params("id"), c.Params("perm")))
}

func (h *UserHandler) reply(c *fiber.Ctx) func(*dto.UserResponse, error) error {
	return func(out *dto.UserResponse, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}
