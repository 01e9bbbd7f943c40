package storeaccess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

func stores(ids ...string) []*entity.Store {
	out := make([]*entity.Store, len(ids))
	for i, id := range ids {
		out[i] = &entity.Store{ID: id}
	}
	return out
}

func assigned(userID string, ids ...string) []*entity.StoreAssignment {
	out := make([]*entity.StoreAssignment, len(ids))
	for i, id := range ids {
		out[i] = &entity.StoreAssignment{UserID: userID, StoreID: id}
	}
	return out
}

func TestCompute_SinIdentidad(t *testing.T) {
	a := storeaccess.Compute(nil, nil, stores("s1"), storeaccess.DefaultPolicy())
	assert.Equal(t, storeaccess.Single, a.AccessType)
	assert.Empty(t, a.AccessibleStoreIDs)
	assert.Empty(t, a.ActiveStoreID)
}

func TestCompute_SuperAdminEsGlobalSinFiltro(t *testing.T) {
	u := &entity.Identity{ID: "u", Role: entity.RoleSuperAdmin}
	a := storeaccess.Compute(u, nil, stores("s1", "s2", "s3"), storeaccess.DefaultPolicy())

	assert.Equal(t, storeaccess.Global, a.AccessType)
	assert.Equal(t, []string{"s1", "s2", "s3"}, a.AccessibleStoreIDs)
	assert.Equal(t, storeaccess.AllStores, a.ActiveStoreID)
	assert.False(t, a.IsFiltered())
}

func TestCompute_AdminGlobalSoloSiLaPoliticaLoDice(t *testing.T) {
	u := &entity.Identity{ID: "u", Role: entity.RoleAdmin, StoreID: "s1"}

	a := storeaccess.Compute(u, nil, stores("s1", "s2"), storeaccess.DefaultPolicy())
	assert.Equal(t, storeaccess.Single, a.AccessType)

	a = storeaccess.Compute(u, nil, stores("s1", "s2"), storeaccess.Policy{AdminIsGlobal: true})
	assert.Equal(t, storeaccess.Global, a.AccessType)
}

func TestCompute_UnicaYMultiple(t *testing.T) {
	p := storeaccess.DefaultPolicy()

	one := storeaccess.Compute(&entity.Identity{ID: "u", Role: entity.RoleCommercial}, assigned("u", "s2"), nil, p)
	assert.Equal(t, storeaccess.Single, one.AccessType)
	assert.Equal(t, "s2", one.ActiveStoreID)

	dup := storeaccess.Compute(&entity.Identity{ID: "u", Role: entity.RoleCommercial, StoreID: "s2"}, assigned("u", "s2"), nil, p)
	assert.Equal(t, storeaccess.Single, dup.AccessType)
	assert.Equal(t, []string{"s2"}, dup.AccessibleStoreIDs)

	many := storeaccess.Compute(&entity.Identity{ID: "u", Role: entity.RoleManager, StoreID: "s1"}, assigned("u", "s2", "s3"), nil, p)
	assert.Equal(t, storeaccess.Multiple, many.AccessType)
	assert.Equal(t, []string{"s1", "s2", "s3"}, many.AccessibleStoreIDs)
	assert.Equal(t, "s1", many.ActiveStoreID)

	none := storeaccess.Compute(&entity.Identity{ID: "u", Role: entity.RoleSecretaire}, nil, nil, p)
	assert.Equal(t, storeaccess.Single, none.AccessType)
	assert.Empty(t, none.AccessibleStoreIDs)
}

func TestCompute_IgnoraAsignacionesDeOtros(t *testing.T) {
	a := storeaccess.Compute(&entity.Identity{ID: "u"}, assigned("other", "s9"), nil, storeaccess.DefaultPolicy())
	assert.Empty(t, a.AccessibleStoreIDs)
}

func TestSetActiveStore_UnicaBloqueada(t *testing.T) {
	a := storeaccess.Compute(&entity.Identity{ID: "u", StoreID: "s1"}, nil, nil, storeaccess.DefaultPolicy())

	assert.ErrorIs(t, a.SetActiveStore("s2"), domain.ErrStoreLocked)
	assert.ErrorIs(t, a.SetActiveStore(storeaccess.AllStores), domain.ErrStoreLocked)
	assert.NoError(t, a.SetActiveStore("s1"))
	assert.Equal(t, "s1", a.ActiveStoreID)
}

func TestSetActiveStore_MultipleCambiaYPersiste(t *testing.T) {
	a := storeaccess.Compute(&entity.Identity{ID: "u", StoreID: "s1"}, assigned("u", "s2"), nil, storeaccess.DefaultPolicy())

	require.NoError(t, a.SetActiveStore("s2"))
	assert.Equal(t, "s2", a.ActiveStoreID)
	assert.ErrorIs(t, a.SetActiveStore("s9"), domain.ErrForbidden)
	assert.Equal(t, "s2", a.ActiveStoreID)

	require.NoError(t, a.SetActiveStore(storeaccess.AllStores))
	assert.Equal(t, storeaccess.AllStores, a.ActiveStoreID)
	assert.True(t, a.IsFiltered())
}

func TestVisibleYFilter(t *testing.T) {
	type row struct{ id, store string }
	rows := []row{{"a", "s1"}, {"b", "s2"}, {"c", ""}, {"d", "s3"}}
	storeOf := func(r row) string { return r.store }
	ids := func(rs []row) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.id)
		}
		return out
	}

	multi := storeaccess.Compute(&entity.Identity{ID: "u", StoreID: "s1"}, assigned("u", "s2"), nil, storeaccess.DefaultPolicy())
	open := storeaccess.Policy{UnscopedVisible: true}
	closed := storeaccess.Policy{}

	assert.Equal(t, []string{"a", "c"}, ids(storeaccess.Filter(rows, storeOf, multi, open)))
	assert.Equal(t, []string{"a"}, ids(storeaccess.Filter(rows, storeOf, multi, closed)))

	require.NoError(t, multi.SetActiveStore(storeaccess.AllStores))
	assert.Equal(t, []string{"a", "b", "c"}, ids(storeaccess.Filter(rows, storeOf, multi, open)))

	global := storeaccess.Compute(&entity.Identity{ID: "g", Role: entity.RoleSuperAdmin}, nil, stores("s1"), open)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(storeaccess.Filter(rows, storeOf, global, open)))
	assert.Equal(t, []string{"a", "b", "d"}, ids(storeaccess.Filter(rows, storeOf, global, closed)))
}
