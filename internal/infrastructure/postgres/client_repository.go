package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, COALESCE(store_id::text, ''), COALESCE(user_id::text, ''), name, COALESCE(email, ''),
	COALESCE(phone, ''), COALESCE(address, ''), loyalty_points, COALESCE(notes, ''), created_at, updated_at`

func scanClient(row rowScanner) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.StoreID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.LoyaltyPoints, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente con los puntos iniciales que traiga.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (id, store_id, user_id, name, email, phone, address, loyalty_points, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, nullIfEmpty(c.StoreID), nullIfEmpty(c.UserID), c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		nullIfEmpty(c.Address), c.LoyaltyPoints, nullIfEmpty(c.Notes), c.CreatedAt, c.UpdatedAt,
	)
	return wrap("insert client", err)
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get client", err)
	}
	return c, nil
}

// Update actualiza los datos de contacto. loyalty_points solo cambia con AddLoyaltyPoints.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := r.q.Exec(ctx, `
		UPDATE clients SET store_id = $2, user_id = $3, name = $4, email = $5, phone = $6, address = $7,
			notes = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, nullIfEmpty(c.StoreID), nullIfEmpty(c.UserID), c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		nullIfEmpty(c.Address), nullIfEmpty(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		return wrap("update client", err)
	}
	return mustAffect(tag)
}

// Delete elimina un cliente por ID.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return wrap("delete client", err)
}

// List lista todos los clientes por nombre.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, wrap("list clients", err)
	}
	defer rows.Close()
	list := []*entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrap("scan client", err)
		}
		list = append(list, c)
	}
	return list, wrap("list clients", rows.Err())
}

// AddLoyaltyPoints suma puntos de forma atómica.
func (r *ClientRepo) AddLoyaltyPoints(ctx context.Context, id string, points int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE clients SET loyalty_points = loyalty_points + $2, updated_at = now() WHERE id = $1`, id, points)
	if err != nil {
		return wrap("add loyalty points", err)
	}
	return mustAffect(tag)
}
