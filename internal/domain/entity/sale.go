package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago aceptados en caja.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentCheck    = "check"
)

// pointsPerUnit moneda por punto de fidelidad.
var pointsPerUnit = decimal.NewFromInt(10)

// Sale representa la cabecera de una venta (ticket de caja o pedido).
type Sale struct {
	ID            string
	StoreID       string
	ClientID      string // vacío = cliente de paso
	SellerID      string
	Number        string
	Date          time.Time
	PaymentMethod string
	Lines         []SaleLine
	NetTotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleLine una línea de la venta: artículo o servicio.
type SaleLine struct {
	ID        string
	SaleID    string
	ArticleID string // vacío si la línea es un servicio
	ServiceID string
	Label     string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje
	Subtotal  decimal.Decimal
}

// ComputeTotals calcula subtotales por línea y los totales de la venta.
// subtotal = cantidad × precio unitario; impuesto = subtotal × tasa / 100.
func ComputeTotals(lines []SaleLine) (net, tax, grand decimal.Decimal) {
	hundred := decimal.NewFromInt(100)
	for i := range lines {
		sub := lines[i].Quantity.Mul(lines[i].UnitPrice).Round(2)
		lines[i].Subtotal = sub
		net = net.Add(sub)
		tax = tax.Add(sub.Mul(lines[i].TaxRate).Div(hundred))
	}
	net = net.Round(2)
	tax = tax.Round(2)
	return net, tax, net.Add(tax)
}

// LoyaltyPoints puntos ganados por la venta: un punto por cada 10 unidades, redondeo hacia abajo.
func (s *Sale) LoyaltyPoints() int {
	if s == nil || !s.GrandTotal.IsPositive() {
		return 0
	}
	return int(s.GrandTotal.Div(pointsPerUnit).Floor().IntPart())
}
