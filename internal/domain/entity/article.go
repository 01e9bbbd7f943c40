package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article representa un artículo de inventario vendible en caja o en la tienda en línea.
// StoreID vacío = artículo de catálogo compartido entre tiendas.
type Article struct {
	ID          string
	StoreID     string
	SKU         string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje: 0, 5.5, 10, 20
	Stock       decimal.Decimal
	MinStock    decimal.Decimal // umbral de alerta de stock bajo
	ImageURL    string
	IsPublished bool // visible en la tienda en línea
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock informa si el stock está en o por debajo del mínimo configurado.
// Un mínimo en cero desactiva la alerta.
func (a *Article) IsLowStock() bool {
	if a == nil || !a.MinStock.IsPositive() {
		return false
	}
	return a.Stock.LessThanOrEqual(a.MinStock)
}
