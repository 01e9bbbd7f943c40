// Package pdf genera el ticket de venta en PDF con Maroto v2.
//
// Layout de la página A5:
//
//	┌──────────────────────────────────────────────┐
//	│  HEADER: Empresa + contacto │ N° + fecha     │
//	│  CLIENTE / medio de pago                     │
//	│  TABLA: Cant | Descripción | P.U. | IVA | ST │
//	│  TOTALES: neto / impuestos / total           │
//	│  FOOTER: QR con el número + agradecimiento   │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Labels textos ya traducidos del ticket.
type Labels struct {
	Title, Client, WalkIn, Item, Qty, Price, Tax, Net, Total, Payment, Thanks string
	// Points línea de puntos ganados ya formateada; vacía = no se muestra.
	Points string
}

// Receipt datos de un ticket.
type Receipt struct {
	Sale       *entity.Sale
	Company    entity.CompanyInfo
	ClientName string // vacío = cliente de paso
	Language   language.Tag
	Labels     Labels
}

// ReceiptGenerator genera tickets de venta.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(_ context.Context, r Receipt) ([]byte, error) {
	if r.Sale == nil {
		return nil, fmt.Errorf("pdf: venta vacía")
	}
	unit, err := currency.ParseISO(strings.ToUpper(r.Company.Currency))
	if err != nil {
		unit = currency.EUR
	}
	f := formatter{p: message.NewPrinter(r.Language), unit: unit}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Labels.Title+" "+r.Sale.Number, true).
		WithAuthor(r.Company.Name, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(r.Labels))
	m.AddRows(tableLineRows(r.Sale.Lines, f)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r, f))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// formatter montos con el símbolo de la moneda de la empresa.
type formatter struct {
	p    *message.Printer
	unit currency.Unit
}

func (f formatter) money(d decimal.Decimal) string {
	return f.p.Sprint(currency.Symbol(f.unit.Amount(d.Round(2).InexactFloat64())))
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y número + fecha (der).
func headerRow(r Receipt) core.Row {
	contact := strings.Join(nonEmptyParts(r.Company.Address, r.Company.Phone, r.Company.Email), "  |  ")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Company.Name, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1}),
			text.New(contact, props.Text{Size: 7, Top: 8, Color: colorGray}),
			text.New(r.Company.TaxID, props.Text{Size: 7, Top: 12, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(r.Labels.Title), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Sale.Number, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7}),
			text.New(r.Sale.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func clientRow(r Receipt) core.Row {
	name := r.ClientName
	if name == "" {
		name = r.Labels.WalkIn
	}
	return row.New(10).Add(
		col.New(8).Add(
			text.New(r.Labels.Client, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Size: 9, Top: 5}),
		),
		col.New(4).Add(
			text.New(r.Labels.Payment, props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(r.Sale.PaymentMethod, props.Text{Size: 9, Align: align.Right, Top: 5}),
		),
	)
}

func tableHeaderRow(l Labels) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(
		h(l.Qty, 1, align.Center),
		h(l.Item, 5, align.Left),
		h(l.Price, 2, align.Right),
		h(l.Tax, 1, align.Center),
		h("", 3, align.Right),
	)
}

// tableLineRows: una fila por línea de la venta.
func tableLineRows(lines []entity.SaleLine, f formatter) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(6).Add(
			col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.Label, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(f.money(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(l.TaxRate.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(f.money(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

func totalsRow(r Receipt, f formatter) core.Row {
	label := func(s string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Top: top}
		if bold {
			p.Style, p.Color = fontstyle.Bold, colorPrimary
		}
		return text.New(s, p)
	}
	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label(r.Labels.Net+":", 0, false),
			label(r.Labels.Tax+":", 5, false),
			label(r.Labels.Total+":", 10, true),
		),
		col.New(4).Add(
			label(f.money(r.Sale.NetTotal), 0, false),
			label(f.money(r.Sale.TaxTotal), 5, false),
			label(f.money(r.Sale.GrandTotal), 10, true),
		),
	)
}

// footerRows: QR con el número de venta, puntos ganados y agradecimiento.
func footerRows(r Receipt) []core.Row {
	info := []core.Component{
		text.New(r.Labels.Thanks, props.Text{Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary}),
	}
	if pts := r.Sale.LoyaltyPoints(); pts > 0 && r.Sale.ClientID != "" && r.Labels.Points != "" {
		info = append(info, text.New(r.Labels.Points, props.Text{Size: 8, Top: 12, Left: 3, Color: colorGray}))
	}
	return []core.Row{
		row.New(30).Add(
			col.New(4).Add(code.NewQr(r.Sale.Number, props.Rect{Percent: 90, Center: true})),
			col.New(8).Add(info...),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmptyParts(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
