package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestion-api/internal/application/composition"
	"github.com/jhoicas/Gestion-api/internal/application/domaindata"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/session"
	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/kv"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Gestion-api/internal/interfaces/http"
)

const testPassword = "secreto-123"

// apiFixture aplicación completa sobre el backend en memoria.
type apiFixture struct {
	app     *fiber.App
	backend *memory.Backend
	storeA  string
	storeB  string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := kv.NewMemoryStore()
	b := memory.NewBackend()

	a := &entity.Store{Name: "Centre", IsActive: true}
	bb := &entity.Store{Name: "Gare", IsActive: true}
	b.Stores.Put(a)
	b.Stores.Put(bb)

	pending, err := domaindata.OpenPendingLog(ctx, store)
	require.NoError(t, err)

	p := composition.Compose(composition.Deps{
		KV:          store,
		Identities:  b.Identities,
		Stores:      b.Stores,
		Assignments: b.Assignments,
		Backend: &domaindata.Backend{
			Articles: b.Articles, Services: b.Services, Clients: b.Clients, Sales: b.Sales, Recorder: b,
		},
		Pending:         pending,
		Session:         session.Config{JWT: session.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}, ProfileTimeout: time.Second, TTL: time.Hour},
		DefaultLanguage: "fr",
		Policy:          storeaccess.DefaultPolicy(),
		SplashDelay:     time.Hour,
		ChatInterval:    10 * time.Millisecond,
		Log:             zerolog.Nop(),
	})
	t.Cleanup(p.Close)
	require.NoError(t, p.DomainData().Load(ctx))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Providers:        p,
		Receipts:         pdf.NewReceiptGenerator(),
		JWTSecret:        testJWTSecret,
		TeamConversation: "team",
	})
	return &apiFixture{app: app, backend: b, storeA: a.ID, storeB: bb.ID}
}

// seed crea una identidad activa con la contraseña de test.
func (f *apiFixture) seed(t *testing.T, email, role, storeID string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.backend.Identities.Create(context.Background(), &entity.Identity{
		Name: email, Email: email, PasswordHash: string(hash), Role: role, IsActive: true, StoreID: storeID,
	}))
}

func (f *apiFixture) call(t *testing.T, method, path, token string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *apiFixture) login(t *testing.T, email string, headers ...string) string {
	t.Helper()
	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: testPassword, Location: "Lyon"}, headers...)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestViews_AnonimoVistaPublicaYLanding(t *testing.T) {
	f := newAPI(t)

	_, body := f.call(t, http.MethodGet, "/api/views/shop", "", nil)
	v := decode[dto.ViewResponse](t, body)
	assert.Equal(t, "allowed", v.Outcome)
	assert.True(t, v.Mounts)

	_, body = f.call(t, http.MethodGet, "/api/views/accounting", "", nil)
	v = decode[dto.ViewResponse](t, body)
	assert.Equal(t, "public_fallback", v.Outcome)
	assert.Equal(t, "landing", v.Screen)
}

func TestViews_RolDenegadoNoEsErrorHTTP(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "client@test.fr", entity.RoleClient, "")
	tok := f.login(t, "client@test.fr")

	resp, body := f.call(t, http.MethodGet, "/api/views/accounting", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[dto.ViewResponse](t, body)
	assert.Equal(t, "denied", v.Outcome)
	assert.Equal(t, "access-denied", v.Screen)
	assert.Equal(t, "dashboard", v.Recovery)

	_, body = f.call(t, http.MethodGet, "/api/views/dashboard", tok, nil)
	v = decode[dto.ViewResponse](t, body)
	assert.Equal(t, "client-dashboard", v.Screen)
}

func TestLogin_CredencialesInvalidasYPerfilInactivo(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "admin@test.fr", entity.RoleAdmin, "")

	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@test.fr", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_CREDENTIALS")

	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, f.backend.Identities.Create(context.Background(), &entity.Identity{
		Email: "baja@test.fr", PasswordHash: string(hash), Role: entity.RoleCommercial, IsActive: false,
	}))
	resp, body = f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "baja@test.fr", Password: testPassword})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "INACTIVE_PROFILE")
}

func TestRegister_RolClienteYEmailRepetido(t *testing.T) {
	f := newAPI(t)
	in := dto.RegisterRequest{Email: "Nuevo@Test.fr", Password: "largo-123", Name: "Nuevo"}

	resp, body := f.call(t, http.MethodPost, "/api/auth/register", "", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	res := decode[dto.RegisterResult](t, body)
	assert.True(t, res.Success)
	assert.Equal(t, entity.RoleClient, res.User.Role)

	resp, _ = f.call(t, http.MethodPost, "/api/auth/register", "", in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestShell_LoginYNavegacion(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "compta@test.fr", entity.RoleComptable, f.storeA)

	resp, body := f.call(t, http.MethodPost, "/api/shell", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sh := decode[dto.ShellResponse](t, body)
	assert.Equal(t, "splash", sh.State)

	tok := f.login(t, "compta@test.fr", apphttp.HeaderShellID, sh.ID)

	_, body = f.call(t, http.MethodPost, "/api/shell/navigate", tok, dto.NavigateRequest{View: "sales"}, apphttp.HeaderShellID, sh.ID)
	sh = decode[dto.ShellResponse](t, body)
	assert.Equal(t, "authenticated", sh.State)
	assert.Equal(t, "sales", sh.View)
	assert.Nil(t, sh.Denied)

	// Denegada: la vista actual no cambia
	_, body = f.call(t, http.MethodPost, "/api/shell/navigate", tok, dto.NavigateRequest{View: "users"}, apphttp.HeaderShellID, sh.ID)
	sh = decode[dto.ShellResponse](t, body)
	assert.Equal(t, "sales", sh.View)
	require.NotNil(t, sh.Denied)
	assert.Equal(t, "access-denied", sh.Denied.Screen)
}

func TestShell_Inexistente(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodGet, "/api/shell", "", nil, apphttp.HeaderShellID, "nada")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "SHELL_NOT_FOUND")
}

func TestLogout_RevocaElToken(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "admin@test.fr", entity.RoleAdmin, "")
	tok := f.login(t, "admin@test.fr")

	resp, _ := f.call(t, http.MethodGet, "/api/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.call(t, http.MethodPost, "/api/auth/logout", tok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := f.call(t, http.MethodGet, "/api/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "SESSION_EXPIRED")

	// Un segundo logout con el mismo token ya no tiene sesión que cerrar
	resp, _ = f.call(t, http.MethodPost, "/api/auth/logout", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNavigation_MenuSegunRol(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "client@test.fr", entity.RoleClient, "")
	tok := f.login(t, "client@test.fr")

	_, body := f.call(t, http.MethodGet, "/api/navigation", tok, nil)
	items := decode[[]dto.NavigationItemResponse](t, body)
	ids := map[string]bool{}
	for _, it := range items {
		ids[it.ID] = true
	}
	assert.True(t, ids["cart"])
	assert.False(t, ids["users"])
}

func TestStoreAccess_TiendaUnicaBloqueada(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "vendeur@test.fr", entity.RoleCommercial, f.storeA)
	tok := f.login(t, "vendeur@test.fr")

	_, body := f.call(t, http.MethodGet, "/api/stores/access", tok, nil)
	access := decode[storeaccess.StoreAccess](t, body)
	assert.Equal(t, storeaccess.Single, access.AccessType)
	assert.Equal(t, f.storeA, access.ActiveStoreID)

	resp, body := f.call(t, http.MethodPut, "/api/stores/access", tok, dto.SetActiveStoreRequest{StoreID: f.storeB})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "STORE_LOCKED")
}

func TestStoreAccess_SuperadminTodasLasTiendas(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "root@test.fr", entity.RoleSuperAdmin, "")
	tok := f.login(t, "root@test.fr")

	resp, body := f.call(t, http.MethodPut, "/api/stores/access", tok, dto.SetActiveStoreRequest{StoreID: f.storeB})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	access := decode[storeaccess.StoreAccess](t, body)
	assert.Equal(t, storeaccess.Global, access.AccessType)
	assert.Equal(t, f.storeB, access.ActiveStoreID)
	assert.ElementsMatch(t, []string{f.storeA, f.storeB}, access.AccessibleStoreIDs)
}

func TestArticles_CreaEnLaTiendaActivaYFiltra(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "a@test.fr", entity.RoleCommercial, f.storeA)
	f.seed(t, "b@test.fr", entity.RoleCommercial, f.storeB)
	tokA := f.login(t, "a@test.fr")
	tokB := f.login(t, "b@test.fr")

	resp, body := f.call(t, http.MethodPost, "/api/articles", tokA, map[string]any{
		"name": "Shampoo", "price": "12.5", "stock": "10", "min_stock": "2", "is_published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[dto.ArticleResponse](t, body)
	assert.Equal(t, f.storeA, created.StoreID)
	assert.False(t, created.Pending)

	_, body = f.call(t, http.MethodGet, "/api/articles", tokA, nil)
	assert.Len(t, decode[[]dto.ArticleResponse](t, body), 1)

	_, body = f.call(t, http.MethodGet, "/api/articles", tokB, nil)
	assert.Empty(t, decode[[]dto.ArticleResponse](t, body))

	// Publicado: visible en la tienda en línea sin sesión
	_, body = f.call(t, http.MethodGet, "/api/shop/articles", "", nil)
	assert.Len(t, decode[[]dto.ShopArticleResponse](t, body), 1)
}

func TestArticles_ClienteSinAcceso(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "client@test.fr", entity.RoleClient, "")
	tok := f.login(t, "client@test.fr")

	resp, _ := f.call(t, http.MethodGet, "/api/articles", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSync_EstadoYSalud(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "admin@test.fr", entity.RoleAdmin, "")
	tok := f.login(t, "admin@test.fr")

	resp, body := f.call(t, http.MethodGet, "/api/sync/status", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[dto.SyncStatusResponse](t, body)
	assert.True(t, st.Loaded)
	assert.False(t, st.Degraded)
	assert.Zero(t, st.Pending)

	_, body = f.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, body).Status)
}

func TestSync_EscrituraOfflineQuedaPendienteYSeReconcilia(t *testing.T) {
	f := newAPI(t)
	f.seed(t, "admin@test.fr", entity.RoleAdmin, "")
	tok := f.login(t, "admin@test.fr")

	f.backend.Faults.Offline()
	resp, body := f.call(t, http.MethodPost, "/api/services", tok, map[string]any{"name": "Coupe", "price": "20"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.True(t, decode[dto.ServiceResponse](t, body).Pending)

	_, body = f.call(t, http.MethodGet, "/api/sync/status", tok, nil)
	st := decode[dto.SyncStatusResponse](t, body)
	assert.Equal(t, 1, st.Pending)
	assert.NotEmpty(t, st.Message)

	f.backend.Faults.Online()
	resp, body = f.call(t, http.MethodPost, "/api/sync", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	rep := decode[dto.SyncReportResponse](t, body)
	assert.Equal(t, 1, rep.Applied)
	assert.Zero(t, rep.Remaining)
}
