package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/pdf"
)

func TestReceiptGenerator_Generate(t *testing.T) {
	lines := []entity.SaleLine{
		{ArticleID: "a1", Label: "Shampoo", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(15), TaxRate: decimal.NewFromInt(20)},
		{ServiceID: "s1", Label: "Coupe", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(30), TaxRate: decimal.NewFromInt(10)},
	}
	net, tax, grand := entity.ComputeTotals(lines)
	sale := &entity.Sale{
		ID: "sale-1", Number: "V20260101-120000-ABCD", ClientID: "c1", PaymentMethod: entity.PaymentCard,
		Date: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), Lines: lines,
		NetTotal: net, TaxTotal: tax, GrandTotal: grand,
	}

	out, err := pdf.NewReceiptGenerator().Generate(context.Background(), pdf.Receipt{
		Sale:       sale,
		Company:    entity.CompanyInfo{Name: "Ma Boutique", Currency: "eur", Address: "1 rue de Paris"},
		ClientName: "Bob",
		Language:   language.French,
		Labels:     pdf.Labels{Title: "Ticket de caisse", Total: "Total TTC", Points: "Points : 12"},
	})
	require.NoError(t, err)
	require.Greater(t, len(out), 100)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestReceiptGenerator_SinVenta(t *testing.T) {
	_, err := pdf.NewReceiptGenerator().Generate(context.Background(), pdf.Receipt{})
	assert.Error(t, err)
}
