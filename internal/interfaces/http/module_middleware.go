package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
)

// capabilityChecker es el contrato mínimo que necesita el middleware.
// Lo implementa *authz.Authorizer, que además audita cada negación.
type capabilityChecker interface {
	Check(ctx context.Context, actor entity.Actor, c permission.Capability) error
}

// RequireModule verifica licencia, estado de la empresa y concesión del módulo al usuario.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si no hay company_id en el contexto.
//   - 403 si el módulo no está licenciado, no fue concedido o la cuenta está bloqueada.
//   - 503 ante fallo de infraestructura al consultar el estado.
func RequireModule(m entity.ModuleID, checker capabilityChecker) fiber.Handler {
	return require(permission.ForModule(m), checker)
}

// RequirePermission como RequireModule, para una acción puntual.
func RequirePermission(p entity.PermissionID, checker capabilityChecker) fiber.Handler {
	return require(permission.ForPermission(p), checker)
}

func require(capability permission.Capability, checker capabilityChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.CompanyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el token",
			})
		}
		if err := checker.Check(c.UserContext(), actor, capability); err != nil {
			status, _ := statusFor(err)
			if status == fiber.StatusInternalServerError {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code:    "MODULE_CHECK_FAILED",
					Message: "no se pudo verificar el acceso, intente más tarde",
				})
			}
			return writeError(c, err)
		}
		return c.Next()
	}
}
