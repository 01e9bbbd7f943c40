package storeaccess_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/kv"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
)

func newProvider(t *testing.T) (*storeaccess.Provider, *memory.Backend) {
	t.Helper()
	b := memory.NewBackend()
	b.Stores.Put(&entity.Store{ID: "s1", Name: "Dakar"})
	b.Stores.Put(&entity.Store{ID: "s2", Name: "Thiès"})
	b.Stores.Put(&entity.Store{ID: "s3", Name: "Saint-Louis"})
	p := storeaccess.NewProvider(b.Stores, b.Assignments, kv.NewMemoryStore(), storeaccess.DefaultPolicy(), zerolog.Nop())
	return p, b
}

func TestProvider_PersisteLaTiendaActiva(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	u := &entity.Identity{ID: "u1", Role: entity.RoleManager, StoreID: "s1"}
	b.Assignments.Assign("u1", "s2")

	assert.Equal(t, "s1", p.For(ctx, u).ActiveStoreID)

	a, err := p.SetActiveStore(ctx, u, "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", a.ActiveStoreID)
	assert.Equal(t, "s2", p.For(ctx, u).ActiveStoreID)

	require.NoError(t, p.Reset(ctx, "u1"))
	assert.Equal(t, "s1", p.For(ctx, u).ActiveStoreID)
}

func TestProvider_TiendaUnicaNoCambia(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)
	u := &entity.Identity{ID: "u2", Role: entity.RoleCommercial, StoreID: "s1"}

	_, err := p.SetActiveStore(ctx, u, "s2")
	assert.ErrorIs(t, err, domain.ErrStoreLocked)
	assert.Equal(t, "s1", p.For(ctx, u).ActiveStoreID)
}

func TestProvider_GlobalVeElCatalogo(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)
	u := &entity.Identity{ID: "root", Role: entity.RoleSuperAdmin}

	a := p.For(ctx, u)
	assert.Equal(t, storeaccess.Global, a.AccessType)
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, a.AccessibleStoreIDs)
	assert.False(t, a.IsFiltered())

	a, err := p.SetActiveStore(ctx, u, "s3")
	require.NoError(t, err)
	assert.True(t, a.IsFiltered())
}

func TestProvider_BackendCaidoDegrada(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	b.Faults.Offline()

	a := p.For(ctx, &entity.Identity{ID: "u3", Role: entity.RoleManager, StoreID: "s1"})
	assert.Equal(t, storeaccess.Single, a.AccessType)
	assert.Equal(t, "s1", a.ActiveStoreID)
}
