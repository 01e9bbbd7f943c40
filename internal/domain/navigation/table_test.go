package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
)

func TestTabla_ClavesUnicasYRolesValidos(t *testing.T) {
	seen := map[string]bool{}
	for _, it := range navigation.Items() {
		require.False(t, seen[it.ID], "clave duplicada: %s", it.ID)
		seen[it.ID] = true
		require.NotEmpty(t, it.Roles, "la ruta %s debe declarar roles", it.ID)
		for _, r := range it.Roles {
			assert.True(t, entity.IsValidRole(r), "rol desconocido %q en %s", r, it.ID)
		}
	}
}

func TestTabla_SuperAdminVeTodoSalvoVistasCliente(t *testing.T) {
	for _, it := range navigation.Items() {
		if it.Allows(entity.RoleClient) && !it.Allows(entity.RoleAdmin) {
			continue
		}
		assert.True(t, it.Allows(entity.RoleSuperAdmin), "superadmin debe ver %s", it.ID)
	}
}

func TestUsers_SoloAdministradores(t *testing.T) {
	it, ok := navigation.Lookup(navigation.ViewUsers)
	require.True(t, ok)
	assert.False(t, it.Allows(entity.RoleClient))
	assert.False(t, it.Allows(entity.RoleCommercial))
	assert.True(t, it.Allows(entity.RoleAdmin))
}

func TestIsPublic(t *testing.T) {
	assert.True(t, navigation.IsPublic(navigation.ViewShop))
	assert.True(t, navigation.IsPublic(navigation.ViewHome))
	assert.True(t, navigation.IsPublic(navigation.ViewPointsOfSale))
	assert.False(t, navigation.IsPublic(navigation.ViewDashboard))
}

func TestVisibleFor_Cliente(t *testing.T) {
	ids := map[string]bool{}
	for _, it := range navigation.VisibleFor(entity.RoleClient) {
		ids[it.ID] = true
	}
	assert.True(t, ids[navigation.ViewCart])
	assert.True(t, ids[navigation.ViewDashboard])
	assert.False(t, ids[navigation.ViewAccounting])
	assert.False(t, ids[navigation.ViewUsers])
}

func TestItems_DevuelveCopia(t *testing.T) {
	a := navigation.Items()
	a[0].ID = "mutado"
	_, ok := navigation.Lookup("mutado")
	assert.False(t, ok)
}
