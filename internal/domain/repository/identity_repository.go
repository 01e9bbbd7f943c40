package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// IdentityRepository define el puerto de persistencia para perfiles (DIP).
// Las búsquedas devuelven (nil, nil) si no existe el registro.
type IdentityRepository interface {
	Create(ctx context.Context, identity *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	Update(ctx context.Context, identity *entity.Identity) error
	// TouchLogin registra fecha y ubicación del último inicio de sesión.
	TouchLogin(ctx context.Context, id string, at time.Time, location string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Identity, error)
}
