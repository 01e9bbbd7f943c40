package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Decrement resta qty con un UPDATE condicional: si no alcanza no toca la fila.
func (r *StockRepo) Decrement(ctx context.Context, articleID string, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE articles SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`, articleID, qty)
	if err != nil {
		return wrap("decrement stock", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)`, articleID).Scan(&exists); err != nil {
		return wrap("check article", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInsufficientStock
}

// RecordMovement inserta el movimiento en el kardex.
func (r *StockRepo) RecordMovement(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, article_id, store_id, type, quantity, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ArticleID, nullIfEmpty(m.StoreID), m.Type, m.Quantity, nullIfEmpty(m.Reference),
		nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	return wrap("insert stock movement", err)
}
