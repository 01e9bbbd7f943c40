package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// CreateSaleRequest body para POST /api/sales. Precio y tasa salen del catálogo.
type CreateSaleRequest struct {
	StoreID       string            `json:"store_id,omitempty"`
	ClientID      string            `json:"client_id,omitempty"` // vacío = cliente de paso
	PaymentMethod string            `json:"payment_method"`
	Lines         []SaleLineRequest `json:"lines"`
}

// SaleLineRequest artículo o servicio vendido.
type SaleLineRequest struct {
	ArticleID string          `json:"article_id,omitempty"`
	ServiceID string          `json:"service_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ToEntity construye la venta sin totales.
func (r CreateSaleRequest) ToEntity() *entity.Sale {
	s := &entity.Sale{StoreID: r.StoreID, ClientID: r.ClientID, PaymentMethod: r.PaymentMethod}
	for _, l := range r.Lines {
		s.Lines = append(s.Lines, entity.SaleLine{ArticleID: l.ArticleID, ServiceID: l.ServiceID, Quantity: l.Quantity})
	}
	return s
}

// UpdateSaleRequest body para PUT /api/sales/:id (solo cabecera).
type UpdateSaleRequest struct {
	ClientID      string `json:"client_id"`
	PaymentMethod string `json:"payment_method"`
}

// SaleResponse venta con detalle.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	StoreID       string             `json:"store_id,omitempty"`
	ClientID      string             `json:"client_id,omitempty"`
	ClientName    string             `json:"client_name,omitempty"`
	SellerID      string             `json:"seller_id"`
	Date          time.Time          `json:"date"`
	PaymentMethod string             `json:"payment_method"`
	NetTotal      decimal.Decimal    `json:"net_total"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	LoyaltyPoints int                `json:"loyalty_points"`
	Pending       bool               `json:"pending"`
	Lines         []SaleLineResponse `json:"lines"`
}

// SaleLineResponse línea en la respuesta.
type SaleLineResponse struct {
	ArticleID string          `json:"article_id,omitempty"`
	ServiceID string          `json:"service_id,omitempty"`
	Label     string          `json:"label"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewSaleResponse mapea la venta; clientName puede ir vacío.
func NewSaleResponse(s *entity.Sale, clientName string, isPending bool) SaleResponse {
	out := SaleResponse{
		ID: s.ID, Number: s.Number, StoreID: s.StoreID, ClientID: s.ClientID, ClientName: clientName,
		SellerID: s.SellerID, Date: s.Date, PaymentMethod: s.PaymentMethod, NetTotal: s.NetTotal,
		TaxTotal: s.TaxTotal, GrandTotal: s.GrandTotal, LoyaltyPoints: s.LoyaltyPoints(),
		Pending: isPending, Lines: make([]SaleLineResponse, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, SaleLineResponse{
			ArticleID: l.ArticleID, ServiceID: l.ServiceID, Label: l.Label, Quantity: l.Quantity,
			UnitPrice: l.UnitPrice, TaxRate: l.TaxRate, Subtotal: l.Subtotal,
		})
	}
	return out
}
