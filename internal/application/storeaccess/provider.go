package storeaccess

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// Provider recalcula el acceso cuando cambia la identidad y persiste la tienda
// activa elegida por usuarios multi-tienda durante la sesión.
type Provider struct {
	stores      repository.StoreRepository
	assignments repository.StoreAssignmentRepository
	kv          ports.KVStore
	policy      Policy
	log         zerolog.Logger
}

// NewProvider construye el proveedor.
func NewProvider(
	stores repository.StoreRepository,
	assignments repository.StoreAssignmentRepository,
	kv ports.KVStore,
	policy Policy,
	log zerolog.Logger,
) *Provider {
	return &Provider{stores: stores, assignments: assignments, kv: kv, policy: policy, log: log}
}

// Policy devuelve la política efectiva.
func (p *Provider) Policy() Policy {
	return p.policy
}

func activeKey(userID string) string {
	return "store:active:" + userID
}

// For calcula el acceso de la identidad y restaura la tienda activa persistida si sigue siendo válida.
// Un fallo de lectura del backend degrada a un cálculo sin asignaciones, nunca a un error.
func (p *Provider) For(ctx context.Context, identity *entity.Identity) StoreAccess {
	access := p.compute(ctx, identity)
	if identity == nil || access.AccessType == Single {
		return access
	}
	saved, ok, err := p.kv.Get(ctx, activeKey(identity.ID))
	if err != nil {
		p.log.Warn().Err(err).Str("user_id", identity.ID).Msg("leer tienda activa")
		return access
	}
	if ok {
		if err := access.SetActiveStore(saved); err != nil {
			p.log.Debug().Str("store_id", saved).Msg("tienda activa persistida ya no es accesible")
		}
	}
	return access
}

// SetActiveStore cambia y persiste la tienda activa.
func (p *Provider) SetActiveStore(ctx context.Context, identity *entity.Identity, storeID string) (StoreAccess, error) {
	access := p.For(ctx, identity)
	if err := access.SetActiveStore(storeID); err != nil {
		return access, err
	}
	if identity != nil && access.AccessType != Single {
		if err := p.kv.Set(ctx, activeKey(identity.ID), storeID, 0); err != nil {
			return access, fmt.Errorf("persistir tienda activa: %w", err)
		}
	}
	return access, nil
}

// Reset borra la elección persistida (al cerrar sesión).
func (p *Provider) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return p.kv.Delete(ctx, activeKey(userID))
}

// Stores lista las tiendas conocidas (listado público de puntos de venta).
func (p *Provider) Stores(ctx context.Context) ([]*entity.Store, error) {
	return p.stores.List(ctx)
}

func (p *Provider) compute(ctx context.Context, identity *entity.Identity) StoreAccess {
	if identity == nil {
		return Compute(nil, nil, nil, p.policy)
	}
	if IsGlobalRole(identity.Role, p.policy) {
		all, err := p.stores.List(ctx)
		if err != nil {
			p.log.Warn().Err(err).Msg("listar tiendas; acceso global sin catálogo")
		}
		return Compute(identity, nil, all, p.policy)
	}
	assigned, err := p.assignments.ListByUser(ctx, identity.ID)
	if err != nil {
		p.log.Warn().Err(err).Str("user_id", identity.ID).Msg("listar asignaciones de tienda")
	}
	return Compute(identity, assigned, nil, p.policy)
}
