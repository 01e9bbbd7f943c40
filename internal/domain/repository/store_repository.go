package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para tiendas.
type StoreRepository interface {
	List(ctx context.Context) ([]*entity.Store, error)
	GetByID(ctx context.Context, id string) (*entity.Store, error)
}

// StoreAssignmentRepository lectura de la tabla externa de asignaciones usuario ↔ tienda.
type StoreAssignmentRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*entity.StoreAssignment, error)
}
