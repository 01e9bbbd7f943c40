package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/application/session"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/kv"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

const secret = "test-secret"

func newProvider(t *testing.T) (*session.Provider, *memory.Backend) {
	t.Helper()
	b := memory.NewBackend()
	p := session.NewProvider(b.Identities, kv.NewMemoryStore(), session.Config{
		JWT:            session.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"},
		ProfileTimeout: time.Second,
		TTL:            time.Hour,
	}, zerolog.Nop())
	return p, b
}

func seedStaff(t *testing.T, b *memory.Backend, email, password, role string, active bool) *entity.Identity {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.Identity{Email: email, Name: "Staff", PasswordHash: string(hash), Role: role, IsActive: active, StoreID: "s1"}
	require.NoError(t, b.Identities.Create(context.Background(), u))
	return u
}

func TestLogin_Exitoso(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	u := seedStaff(t, b, "gerant@boutique.fr", "motdepasse", entity.RoleManager, true)

	res, err := p.Login(ctx, dto.LoginRequest{Email: " Gerant@Boutique.fr ", Password: "motdepasse", Location: "Dakar"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	userID, storeID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "s1", storeID)
	assert.Equal(t, entity.RoleManager, role)

	stored, _ := b.Identities.GetByID(ctx, u.ID)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, "Dakar", stored.LastLocation)

	active, err := p.Active(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLogin_Fallos(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	seedStaff(t, b, "a@b.fr", "motdepasse", entity.RoleCommercial, true)
	seedStaff(t, b, "off@b.fr", "motdepasse", entity.RoleCommercial, false)

	_, err := p.Login(ctx, dto.LoginRequest{Email: "a@b.fr", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = p.Login(ctx, dto.LoginRequest{Email: "nobody@b.fr", Password: "motdepasse"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = p.Login(ctx, dto.LoginRequest{Email: "off@b.fr", Password: "motdepasse"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	b.Faults.Offline()
	_, err = p.Login(ctx, dto.LoginRequest{Email: "a@b.fr", Password: "motdepasse"})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

type slowIdentities struct {
	*memory.IdentityRepo
	delay time.Duration
}

func (s slowIdentities) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	time.Sleep(s.delay)
	return s.IdentityRepo.GetByEmail(ctx, email)
}

func TestLogin_PerfilLentoEsNoEncontrado(t *testing.T) {
	b := memory.NewBackend()
	seedStaff(t, b, "slow@b.fr", "motdepasse", entity.RoleAdmin, true)
	p := session.NewProvider(slowIdentities{b.Identities, 200 * time.Millisecond}, kv.NewMemoryStore(), session.Config{
		JWT:            session.JWTConfig{Secret: secret, ExpMinutes: 5},
		ProfileTimeout: 20 * time.Millisecond,
	}, zerolog.Nop())

	_, err := p.Login(context.Background(), dto.LoginRequest{Email: "slow@b.fr", Password: "motdepasse"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_SiempreCliente(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)

	res := p.Register(ctx, dto.RegisterRequest{Email: "client@mail.fr", Password: "12345678", Name: "Aminata"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, entity.RoleClient, res.User.Role)
	assert.True(t, res.User.IsActive)

	again := p.Register(ctx, dto.RegisterRequest{Email: "CLIENT@mail.fr", Password: "12345678"})
	assert.False(t, again.Success)
	assert.Equal(t, preferences.MsgEmailTaken, again.Error)

	bad := p.Register(ctx, dto.RegisterRequest{Email: "nope", Password: "short"})
	assert.False(t, bad.Success)
	assert.Equal(t, preferences.MsgInvalidInput, bad.Error)

	_, err := p.Login(ctx, dto.LoginRequest{Email: "client@mail.fr", Password: "12345678"})
	assert.NoError(t, err)
}

func TestLogout_IdempotenteYRevoca(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	u := seedStaff(t, b, "x@b.fr", "motdepasse", entity.RoleSecretaire, true)

	assert.NoError(t, p.Logout(ctx, ""))

	_, err := p.Login(ctx, dto.LoginRequest{Email: "x@b.fr", Password: "motdepasse"})
	require.NoError(t, err)
	require.NoError(t, p.Logout(ctx, u.ID))
	require.NoError(t, p.Logout(ctx, u.ID))

	active, err := p.Active(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestCurrent_CacheLuegoBackend(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	u := seedStaff(t, b, "c@b.fr", "motdepasse", entity.RoleComptable, true)

	none, err := p.Current(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, none)

	got, err := p.Current(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleComptable, got.Role)

	_, err = p.Login(ctx, dto.LoginRequest{Email: "c@b.fr", Password: "motdepasse"})
	require.NoError(t, err)
	b.Faults.Offline()
	got, err = p.Current(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUpdateProfile_NombreYTelefono(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	u := seedStaff(t, b, "p@b.fr", "motdepasse", entity.RoleManager, true)
	name, phone := "Moussa Diop", "+221 77 000 00 00"

	res, err := p.UpdateProfile(ctx, u.ID, dto.UpdateProfileRequest{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, name, res.Name)
	assert.Equal(t, phone, res.Phone)

	empty := " "
	_, err = p.UpdateProfile(ctx, u.ID, dto.UpdateProfileRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.UpdateProfile(ctx, "missing", dto.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestList_Paginado(t *testing.T) {
	ctx := context.Background()
	p, b := newProvider(t)
	for _, email := range []string{"a@b.fr", "b@b.fr", "c@b.fr"} {
		seedStaff(t, b, email, "motdepasse", entity.RoleSecretaire, true)
	}

	first, err := p.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, 2, first.Limit)

	last, err := p.List(ctx, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.False(t, last.HasMore)
	assert.Equal(t, "c@b.fr", last.Items[0].Email)
}
