package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.SaleRecorder = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// SaleRepos repositorios atados a una misma transacción.
type SaleRepos struct {
	Sales   *SaleRepo
	Stock   *StockRepo
	Clients *ClientRepo
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos SaleRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := SaleRepos{
		Sales:   NewSaleRepository(tx),
		Stock:   NewStockRepository(tx),
		Clients: NewClientRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// RecordSale registra cabecera y líneas, descuenta el stock con su movimiento y
// acredita los puntos del cliente, todo o nada.
func (r *TxRunner) RecordSale(ctx context.Context, sale *entity.Sale) error {
	return r.Run(ctx, func(repos SaleRepos) error {
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, l := range sale.Lines {
			if l.ArticleID == "" {
				continue
			}
			if err := repos.Stock.Decrement(ctx, l.ArticleID, l.Quantity); err != nil {
				return fmt.Errorf("artículo %s: %w", l.ArticleID, err)
			}
			if err := repos.Stock.RecordMovement(ctx, &entity.StockMovement{
				ArticleID: l.ArticleID,
				StoreID:   sale.StoreID,
				Type:      entity.MovementSale,
				Quantity:  l.Quantity.Neg(),
				Reference: sale.ID,
				CreatedBy: sale.SellerID,
			}); err != nil {
				return err
			}
		}
		if sale.ClientID != "" {
			if pts := sale.LoyaltyPoints(); pts > 0 {
				if err := repos.Clients.AddLoyaltyPoints(ctx, sale.ClientID, pts); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
