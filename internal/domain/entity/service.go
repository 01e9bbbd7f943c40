package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa una prestación facturable (instalación, reparación, asesoría...).
type Service struct {
	ID              string
	StoreID         string
	Name            string
	Description     string
	Price           decimal.Decimal
	TaxRate         decimal.Decimal
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
