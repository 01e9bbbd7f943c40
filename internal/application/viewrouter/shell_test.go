package viewrouter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/viewrouter"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/kv"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestShell_TemporizadorSplash(t *testing.T) {
	sh := viewrouter.NewShell(t0, 2*time.Second)
	assert.Equal(t, viewrouter.StateSplash, sh.Tick(t0.Add(time.Second)))
	assert.Equal(t, viewrouter.StatePublicUnauthenticated, sh.Tick(t0.Add(2*time.Second)))
}

func TestShell_LoginNavegarLogout(t *testing.T) {
	sh := viewrouter.NewShell(t0, 0)
	sh.Tick(t0)

	d := sh.Login(as(entity.RoleManager))
	assert.Equal(t, viewrouter.StateAuthenticated, sh.State())
	assert.Equal(t, navigation.ViewDashboard, d.View)

	d = sh.Navigate(navigation.ViewArticles, map[string]string{"q": "savon"})
	assert.True(t, d.Mounts())
	assert.Equal(t, navigation.ViewArticles, sh.View().CurrentView)
	assert.Equal(t, "savon", sh.View().Params["q"])

	sh.Navigate(navigation.ViewShop, nil)
	assert.Equal(t, viewrouter.StatePublicBrowsing, sh.State())

	sh.Logout()
	assert.Equal(t, viewrouter.StatePublicUnauthenticated, sh.State())
	assert.Equal(t, viewrouter.DefaultViewState(), sh.View())
	assert.Nil(t, sh.Identity())
}

func TestShell_NavegacionDenegadaConservaVista(t *testing.T) {
	sh := viewrouter.NewShell(t0, 0)
	sh.Login(as(entity.RoleClient))
	sh.Navigate(navigation.ViewCart, nil)
	sh.SetDrawer(true)

	d := sh.Navigate(navigation.ViewUsers, nil)
	assert.Equal(t, viewrouter.Denied, d.Outcome)
	assert.Equal(t, navigation.ViewCart, sh.View().CurrentView)
	assert.True(t, sh.View().DrawerOpen)
	assert.Equal(t, viewrouter.ScreenAccessDenied, sh.Screen().Screen)
}

func TestShell_NavegarCierraElMenu(t *testing.T) {
	sh := viewrouter.NewShell(t0, 0)
	sh.Login(as(entity.RoleAdmin))
	sh.SetDrawer(true)

	sh.Navigate(navigation.ViewStores, nil)
	assert.False(t, sh.View().DrawerOpen)
}

func TestShell_LogoutSinIdentidadNoHaceNada(t *testing.T) {
	sh := viewrouter.NewShell(t0, 0)
	sh.Tick(t0)
	sh.Navigate(navigation.ViewShop, nil)

	assert.NotPanics(t, sh.Logout)
	assert.NotPanics(t, sh.Logout)
	assert.Equal(t, viewrouter.StatePublicUnauthenticated, sh.State())
	assert.Equal(t, viewrouter.DefaultViewState(), sh.View())
}

func TestShell_NavegacionAnonima(t *testing.T) {
	sh := viewrouter.NewShell(t0, time.Minute)

	d := sh.Navigate(navigation.ViewSales, nil)
	assert.Equal(t, viewrouter.PublicFallback, d.Outcome)
	assert.Equal(t, viewrouter.StatePublicUnauthenticated, sh.State())

	d = sh.Navigate(navigation.ViewPointsOfSale, nil)
	assert.True(t, d.Mounts())
	assert.Equal(t, navigation.ViewPointsOfSale, sh.View().CurrentView)
}

func TestShellStore_GuardarYCargar(t *testing.T) {
	ctx := context.Background()
	st := viewrouter.NewShellStore(kv.NewMemoryStore(), 0, time.Hour)

	id, sh, err := st.Start(ctx, nil)
	require.NoError(t, err)
	sh.Login(&entity.Identity{ID: "u1", Name: "Fatou", Role: entity.RoleCommercial})
	sh.Navigate(navigation.ViewPOS, map[string]string{"store": "s1"})
	require.NoError(t, st.Save(ctx, id, sh))

	got, err := st.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID())
	assert.Equal(t, entity.RoleCommercial, got.Identity().Role)
	assert.Equal(t, navigation.ViewPOS, got.View().CurrentView)
	assert.Equal(t, "s1", got.View().Params["store"])

	require.NoError(t, st.Delete(ctx, id))
	got, err = st.Load(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
