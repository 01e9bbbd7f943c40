package postgres

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var (
	_ repository.StoreRepository           = (*StoreRepo)(nil)
	_ repository.StoreAssignmentRepository = (*StoreRepo)(nil)
)

// StoreRepo lectura de tiendas y de la tabla store_assignments. Ambas tablas se
// administran fuera de esta API.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// List devuelve todas las tiendas por nombre.
func (r *StoreRepo) List(ctx context.Context) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, COALESCE(address, ''), COALESCE(city, ''), COALESCE(phone, ''), is_active, created_at, updated_at
		FROM stores ORDER BY name`)
	if err != nil {
		return nil, wrap("list stores", err)
	}
	defer rows.Close()
	list := []*entity.Store{}
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, wrap("scan store", err)
		}
		list = append(list, &s)
	}
	return list, wrap("list stores", rows.Err())
}

// GetByID obtiene una tienda; (nil, nil) si no existe.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	var s entity.Store
	err := r.q.QueryRow(ctx, `
		SELECT id, name, COALESCE(address, ''), COALESCE(city, ''), COALESCE(phone, ''), is_active, created_at, updated_at
		FROM stores WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get store", err)
	}
	return &s, nil
}

// ListByUser asignaciones del usuario.
func (r *StoreRepo) ListByUser(ctx context.Context, userID string) ([]*entity.StoreAssignment, error) {
	rows, err := r.q.Query(ctx,
		`SELECT user_id, store_id, created_at FROM store_assignments WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, wrap("list store assignments", err)
	}
	defer rows.Close()
	list := []*entity.StoreAssignment{}
	for rows.Next() {
		var a entity.StoreAssignment
		if err := rows.Scan(&a.UserID, &a.StoreID, &a.CreatedAt); err != nil {
			return nil, wrap("scan store assignment", err)
		}
		list = append(list, &a)
	}
	return list, wrap("list store assignments", rows.Err())
}
