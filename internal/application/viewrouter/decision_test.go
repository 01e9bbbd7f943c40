package viewrouter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Gestion-api/internal/application/viewrouter"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
)

func as(role string) *entity.Identity {
	return &entity.Identity{ID: "u-" + role, Role: role, IsActive: true}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func TestDecide_TodosLosParesRolVista(t *testing.T) {
	for _, item := range navigation.Items() {
		for _, role := range entity.AllRoles {
			d := viewrouter.Decide(item.ID, as(role))
			if contains(item.Roles, role) {
				assert.Equal(t, viewrouter.Allowed, d.Outcome, "%s/%s", role, item.ID)
				assert.NotEqual(t, viewrouter.ScreenAccessDenied, d.Screen)
			} else {
				assert.Equal(t, viewrouter.Denied, d.Outcome, "%s/%s", role, item.ID)
				assert.Equal(t, viewrouter.ScreenAccessDenied, d.Screen)
				assert.Equal(t, navigation.DefaultView, d.Recovery)
			}
		}
	}
}

func TestDecide_AnonimoEnVistaPrivadaVeLanding(t *testing.T) {
	for _, item := range navigation.Items() {
		d := viewrouter.Decide(item.ID, nil)
		if navigation.IsPublic(item.ID) {
			assert.Equal(t, viewrouter.Allowed, d.Outcome, item.ID)
			continue
		}
		assert.Equal(t, viewrouter.PublicFallback, d.Outcome, item.ID)
		assert.Equal(t, viewrouter.ScreenLanding, d.Screen)
		assert.NotEqual(t, viewrouter.ScreenAccessDenied, d.Screen)
	}
	assert.Equal(t, viewrouter.PublicFallback, viewrouter.Decide("no-such-view", nil).Outcome)
}

func TestDecide_ClienteEnUsuariosEsDenegado(t *testing.T) {
	d := viewrouter.Decide(navigation.ViewUsers, as(entity.RoleClient))
	assert.Equal(t, viewrouter.Denied, d.Outcome)
	assert.Equal(t, viewrouter.ScreenAccessDenied, d.Screen)
	assert.False(t, d.Mounts())
}

func TestDecide_AnonimoAccedeATienda(t *testing.T) {
	d := viewrouter.Decide(navigation.ViewShop, nil)
	assert.Equal(t, viewrouter.Allowed, d.Outcome)
	assert.Equal(t, navigation.ViewShop, d.Screen)
}

func TestDecide_ClienteVeSuPropioDashboard(t *testing.T) {
	d := viewrouter.Decide(navigation.ViewDashboard, as(entity.RoleClient))
	assert.Equal(t, viewrouter.ScreenClientDashboard, d.Screen)

	d = viewrouter.Decide(navigation.ViewDashboard, as(entity.RoleManager))
	assert.Equal(t, navigation.ViewDashboard, d.Screen)
}

func TestDecide_ClaveDesconocidaVuelveAlDashboard(t *testing.T) {
	d := viewrouter.Decide("does-not-exist", as(entity.RoleComptable))
	assert.Equal(t, viewrouter.Allowed, d.Outcome)
	assert.Equal(t, navigation.DefaultView, d.View)

	d = viewrouter.Decide("", as(entity.RoleClient))
	assert.Equal(t, viewrouter.ScreenClientDashboard, d.Screen)
}
