package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrAccessDenied           = errors.New("acceso negado por permisos o licencia")
	ErrModuleNotLicensed      = errors.New("módulo no incluido en la licencia")
	ErrPermissionNeedsModule  = errors.New("el permiso exige el módulo concedido")
	ErrPlanLimitReached       = errors.New("límite del plan alcanzado")
	ErrUnpricedLine           = errors.New("línea sin precio de cartão")
	ErrCashSessionAlreadyOpen = errors.New("ya existe una sesión de caja abierta en la loja")
	ErrCashSessionClosed      = errors.New("la sesión de caja está cerrada")
)
