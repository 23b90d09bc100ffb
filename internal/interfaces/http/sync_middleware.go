package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/ports"
)

// HeaderSyncStatus avisa al cliente que el cambio quedó guardado localmente
// y la sincronización con el almacenamiento durable está pendiente.
const HeaderSyncStatus = "X-Sync-Status"

// SyncStatusMiddleware marca la respuesta con "pending" mientras la cola tenga registros fallidos.
func SyncStatusMiddleware(reporter ports.SyncReporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if reporter != nil && reporter.Status().Failed > 0 {
			c.Set(HeaderSyncStatus, "pending")
		}
		return err
	}
}
