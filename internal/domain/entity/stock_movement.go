package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementSale       = "SALE"       // salida por venta
	MovementRestock    = "RESTOCK"    // reposición
	MovementAdjustment = "ADJUSTMENT" // ajuste manual de inventario
)

// StockMovement traza cada cambio de stock de un artículo.
type StockMovement struct {
	ID        string
	ArticleID string
	StoreID   string
	Type      string
	Quantity  decimal.Decimal // negativo en salidas
	Reference string          // id de la venta o nota del ajuste
	CreatedBy string
	CreatedAt time.Time
}
