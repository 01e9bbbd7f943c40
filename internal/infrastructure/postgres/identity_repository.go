package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.IdentityRepository = (*IdentityRepo)(nil)

// IdentityRepo implementación de IdentityRepository sobre la tabla profiles.
type IdentityRepo struct {
	q Querier
}

// NewIdentityRepository construye el adaptador de persistencia para perfiles.
func NewIdentityRepository(q Querier) *IdentityRepo {
	return &IdentityRepo{q: q}
}

const identityColumns = `id, name, email, password_hash, role, is_active, store_id, phone,
	last_login_at, last_location, created_at, updated_at`

// Create persiste un nuevo perfil. El email se guarda en minúsculas.
func (r *IdentityRepo) Create(ctx context.Context, identity *entity.Identity) error {
	if identity.ID == "" {
		identity.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now
	identity.Email = strings.ToLower(identity.Email)
	query := `
		INSERT INTO profiles (id, name, email, password_hash, role, is_active, store_id, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		identity.ID, identity.Name, identity.Email, identity.PasswordHash, identity.Role, identity.IsActive,
		nullIfEmpty(identity.StoreID), nullIfEmpty(identity.Phone), identity.CreatedAt, identity.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrap("insert profile", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *IdentityRepo) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	return r.findOne(ctx, "get profile by id", `SELECT `+identityColumns+` FROM profiles WHERE id = $1`, id)
}

// GetByEmail obtiene un perfil por email, sin distinguir mayúsculas.
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return r.findOne(ctx, "get profile by email",
		`SELECT `+identityColumns+` FROM profiles WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *IdentityRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.Identity, error) {
	i, err := scanIdentity(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return i, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*entity.Identity, error) {
	var (
		i                       entity.Identity
		storeID, phone, lastLoc *string
	)
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.Role, &i.IsActive, &storeID, &phone,
		&i.LastLoginAt, &lastLoc, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	i.StoreID, i.Phone, i.LastLocation = fromNull(storeID), fromNull(phone), fromNull(lastLoc)
	return &i, nil
}

// Update actualiza nombre, teléfono, rol, estado y tienda principal.
func (r *IdentityRepo) Update(ctx context.Context, identity *entity.Identity) error {
	identity.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE profiles SET name = $2, phone = $3, role = $4, is_active = $5, store_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		identity.ID, identity.Name, nullIfEmpty(identity.Phone), identity.Role, identity.IsActive,
		nullIfEmpty(identity.StoreID), identity.UpdatedAt,
	)
	if err != nil {
		return wrap("update profile", err)
	}
	return mustAffect(tag)
}

// TouchLogin registra fecha y ubicación del último inicio de sesión.
func (r *IdentityRepo) TouchLogin(ctx context.Context, id string, at time.Time, location string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE profiles SET last_login_at = $2, last_location = $3 WHERE id = $1`,
		id, at, nullIfEmpty(location))
	if err != nil {
		return wrap("touch login", err)
	}
	return mustAffect(tag)
}

// List lista perfiles con paginación, los más recientes primero.
func (r *IdentityRepo) List(ctx context.Context, limit, offset int) ([]*entity.Identity, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+identityColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrap("list profiles", err)
	}
	defer rows.Close()
	list := []*entity.Identity{}
	for rows.Next() {
		i, err := scanIdentity(rows)
		if err != nil {
			return nil, wrap("scan profile", err)
		}
		list = append(list, i)
	}
	return list, wrap("list profiles", rows.Err())
}
