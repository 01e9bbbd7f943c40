package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación de ServiceRepository (usable con pool o tx).
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador.
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, COALESCE(store_id::text, ''), name, description, price, tax_rate, duration_minutes,
	is_active, created_at, updated_at`

func scanService(row rowScanner) (*entity.Service, error) {
	var s entity.Service
	if err := row.Scan(&s.ID, &s.StoreID, &s.Name, &s.Description, &s.Price, &s.TaxRate,
		&s.DurationMinutes, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	_, err := r.q.Exec(ctx, `
		INSERT INTO services (id, store_id, name, description, price, tax_rate, duration_minutes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, nullIfEmpty(s.StoreID), s.Name, s.Description, s.Price, s.TaxRate, s.DurationMinutes,
		s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	return wrap("insert service", err)
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get service", err)
	}
	return s, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	s.UpdatedAt = time.Now().UTC()
	tag, err := r.q.Exec(ctx, `
		UPDATE services SET store_id = $2, name = $3, description = $4, price = $5, tax_rate = $6,
			duration_minutes = $7, is_active = $8, updated_at = $9
		WHERE id = $1`,
		s.ID, nullIfEmpty(s.StoreID), s.Name, s.Description, s.Price, s.TaxRate, s.DurationMinutes,
		s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		return wrap("update service", err)
	}
	return mustAffect(tag)
}

func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	return wrap("delete service", err)
}

func (r *ServiceRepo) List(ctx context.Context) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY name`)
	if err != nil {
		return nil, wrap("list services", err)
	}
	defer rows.Close()
	list := []*entity.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, wrap("scan service", err)
		}
		list = append(list, s)
	}
	return list, wrap("list services", rows.Err())
}
