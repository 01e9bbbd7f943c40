package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas (cabecera + líneas).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// Update modifica solo la cabecera (cliente y medio de pago); las líneas son inmutables.
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context) ([]*entity.Sale, error)
	Delete(ctx context.Context, id string) error
}

// StockRepository ajuste atómico de stock y traza de movimientos.
type StockRepository interface {
	// Decrement resta qty del stock del artículo; ErrInsufficientStock si no alcanza.
	Decrement(ctx context.Context, articleID string, qty decimal.Decimal) error
	RecordMovement(ctx context.Context, movement *entity.StockMovement) error
}

// SaleRecorder registra una venta completa en una sola unidad de trabajo:
// cabecera y líneas, salida de stock con su movimiento y puntos del cliente.
type SaleRecorder interface {
	RecordSale(ctx context.Context, sale *entity.Sale) error
}
