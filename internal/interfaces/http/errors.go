package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/domain"
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrAccessDenied, fiber.StatusForbidden, "ACCESS_DENIED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrModuleNotLicensed, fiber.StatusForbidden, "MODULE_NOT_LICENSED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrPermissionNeedsModule, fiber.StatusBadRequest, "PERMISSION_NEEDS_MODULE"},
	{domain.ErrUnpricedLine, fiber.StatusBadRequest, "UNPRICED_LINE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrPlanLimitReached, fiber.StatusConflict, "PLAN_LIMIT_REACHED"},
	{domain.ErrCashSessionAlreadyOpen, fiber.StatusConflict, "CASH_SESSION_OPEN"},
	{domain.ErrCashSessionClosed, fiber.StatusConflict, "CASH_SESSION_CLOSED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// statusFor traduce un error de dominio a status HTTP y código.
func statusFor(err error) (int, string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError responde con dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
