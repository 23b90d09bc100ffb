// Package inventory traduce una operación de stock en los cambios de saldo que produce.
// No recorta el disponible en cero: el llamador señala el saldo negativo.
package inventory

import (
	"fmt"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// Operation operación solicitada sobre el stock.
type Operation string

const (
	OpEntry           Operation = "entry"
	OpExit            Operation = "exit"
	OpAdjustment      Operation = "adjustment"
	OpTransfer        Operation = "transfer"
	OpReceiveTransfer Operation = "receive_transfer"
)

// Request solicitud de movimiento. Quantity es firmada solo en ajustes.
type Request struct {
	Operation Operation
	StoreID   string
	ToStoreID string // solo traslados
	SKU       string
	Quantity  int
	Reason    string
	Reference string
}

// Step cambio unitario sobre un saldo.
type Step struct {
	StoreID string
	Type    entity.MovementType
	Bucket  entity.StockBucket
	Delta   int
}

// Validate verifica la solicitud antes de tocar cualquier saldo.
func Validate(r Request) error {
	if r.StoreID == "" || r.SKU == "" {
		return fmt.Errorf("%w: loja y sku requeridos", domain.ErrInvalidInput)
	}
	switch r.Operation {
	case OpAdjustment:
		if r.Quantity == 0 {
			return fmt.Errorf("%w: ajuste sin cantidad", domain.ErrInvalidInput)
		}
		if r.Reason == "" {
			return fmt.Errorf("%w: ajuste requiere motivo", domain.ErrInvalidInput)
		}
	case OpEntry, OpExit, OpReceiveTransfer:
		if r.Quantity <= 0 {
			return fmt.Errorf("%w: cantidad debe ser > 0", domain.ErrInvalidInput)
		}
	case OpTransfer:
		if r.Quantity <= 0 {
			return fmt.Errorf("%w: cantidad debe ser > 0", domain.ErrInvalidInput)
		}
		if r.ToStoreID == "" || r.ToStoreID == r.StoreID {
			return fmt.Errorf("%w: loja destino inválida", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: operación desconocida %q", domain.ErrInvalidInput, r.Operation)
	}
	return nil
}

// Plan devuelve los pasos de la operación en el orden en que se aplican.
// En la recepción de un traslado StoreID es la loja que recibe.
func Plan(r Request) ([]Step, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	switch r.Operation {
	case OpEntry:
		return []Step{{r.StoreID, entity.MovementEntry, entity.BucketAvailable, r.Quantity}}, nil
	case OpExit:
		return []Step{{r.StoreID, entity.MovementExit, entity.BucketAvailable, -r.Quantity}}, nil
	case OpAdjustment:
		return []Step{{r.StoreID, entity.MovementAdjustment, entity.BucketAvailable, r.Quantity}}, nil
	case OpTransfer:
		return []Step{
			{r.StoreID, entity.MovementTransfer, entity.BucketAvailable, -r.Quantity},
			{r.ToStoreID, entity.MovementTransfer, entity.BucketInTransit, r.Quantity},
		}, nil
	default: // OpReceiveTransfer
		return []Step{
			{r.StoreID, entity.MovementTransfer, entity.BucketInTransit, -r.Quantity},
			{r.StoreID, entity.MovementTransfer, entity.BucketAvailable, r.Quantity},
		}, nil
	}
}

// Apply aplica el paso al saldo y devuelve el valor anterior y el nuevo de la columna.
// Recibir más de lo que está en tránsito es un conflicto; el disponible sí puede quedar negativo.
func Apply(b *entity.StockBalance, s Step) (before, after int, err error) {
	switch s.Bucket {
	case entity.BucketInTransit:
		before = b.InTransit
		after = before + s.Delta
		if after < 0 {
			return before, before, fmt.Errorf("%w: en tránsito insuficiente (%d)", domain.ErrConflict, before)
		}
		b.InTransit = after
	default:
		before = b.Available
		after = before + s.Delta
		b.Available = after
	}
	return before, after, nil
}

// WentNegative informa si el paso dejó el disponible bajo cero.
func WentNegative(s Step, after int) bool {
	return s.Bucket == entity.BucketAvailable && after < 0
}
