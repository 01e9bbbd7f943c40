package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository: cabecera en sales, líneas en sale_lines.
// Con pool, Create no es atómico; la venta completa se registra con SaleRecorder.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, COALESCE(store_id::text, ''), COALESCE(client_id::text, ''), seller_id, number, date,
	payment_method, net_total, tax_total, grand_total, created_at, updated_at`

func scanSale(row rowScanner) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.StoreID, &s.ClientID, &s.SellerID, &s.Number, &s.Date, &s.PaymentMethod,
		&s.NetTotal, &s.TaxTotal, &s.GrandTotal, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if s.Date.IsZero() {
		s.Date = now
	}
	s.CreatedAt, s.UpdatedAt = now, now
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, store_id, client_id, seller_id, number, date, payment_method, net_total, tax_total, grand_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, nullIfEmpty(s.StoreID), nullIfEmpty(s.ClientID), s.SellerID, s.Number, s.Date, s.PaymentMethod,
		s.NetTotal, s.TaxTotal, s.GrandTotal, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrap("insert sale", err)
	}
	for i := range s.Lines {
		l := &s.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, position, article_id, service_id, label, quantity, unit_price, tax_rate, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, l.SaleID, i, nullIfEmpty(l.ArticleID), nullIfEmpty(l.ServiceID), l.Label,
			l.Quantity, l.UnitPrice, l.TaxRate, l.Subtotal,
		)
		if err != nil {
			return wrap("insert sale line", err)
		}
	}
	return nil
}

// GetByID obtiene la venta completa; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get sale", err)
	}
	lines, err := r.lines(ctx, `WHERE sale_id = $1`, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines[s.ID]
	return s, nil
}

// Update modifica cliente y medio de pago.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	s.UpdatedAt = time.Now().UTC()
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET client_id = $2, payment_method = $3, updated_at = $4 WHERE id = $1`,
		s.ID, nullIfEmpty(s.ClientID), s.PaymentMethod, s.UpdatedAt)
	if err != nil {
		return wrap("update sale", err)
	}
	return mustAffect(tag)
}

// List devuelve todas las ventas con sus líneas, las más recientes primero.
func (r *SaleRepo) List(ctx context.Context) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY date DESC`)
	if err != nil {
		return nil, wrap("list sales", err)
	}
	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, wrap("scan sale", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list sales", err)
	}
	lines, err := r.lines(ctx, ``)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Lines = lines[s.ID]
	}
	return list, nil
}

// Delete elimina la venta; las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	return wrap("delete sale", err)
}

func (r *SaleRepo) lines(ctx context.Context, where string, args ...any) (map[string][]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, COALESCE(article_id::text, ''), COALESCE(service_id::text, ''), label,
		       quantity, unit_price, tax_rate, subtotal
		FROM sale_lines `+where+` ORDER BY sale_id, position`, args...)
	if err != nil {
		return nil, wrap("list sale lines", err)
	}
	defer rows.Close()
	out := map[string][]entity.SaleLine{}
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ArticleID, &l.ServiceID, &l.Label,
			&l.Quantity, &l.UnitPrice, &l.TaxRate, &l.Subtotal); err != nil {
			return nil, wrap("scan sale line", err)
		}
		out[l.SaleID] = append(out[l.SaleID], l)
	}
	return out, wrap("list sale lines", rows.Err())
}
