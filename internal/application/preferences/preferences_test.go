package preferences_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/kv"
)

func TestThemeProvider(t *testing.T) {
	ctx := context.Background()
	p := preferences.NewThemeProvider(kv.NewMemoryStore(), zerolog.Nop())

	assert.Equal(t, preferences.ThemeSystem, p.Get(ctx, "u1"))

	got, err := p.Set(ctx, "u1", "dark")
	require.NoError(t, err)
	assert.Equal(t, preferences.ThemeDark, got)
	assert.Equal(t, preferences.ThemeDark, p.Get(ctx, "u1"))
	assert.Equal(t, preferences.ThemeSystem, p.Get(ctx, "u2"))

	_, err = p.Set(ctx, "u1", "neon")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.Set(ctx, "", "light")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLanguageProvider_Negociacion(t *testing.T) {
	p := preferences.NewLanguageProvider(kv.NewMemoryStore(), "fr", zerolog.Nop())

	assert.Equal(t, language.French, p.Negotiate(""))
	assert.Equal(t, language.English, p.Negotiate("en-US,en;q=0.9"))
	assert.Equal(t, language.Spanish, p.Negotiate("es-MX"))
	assert.Equal(t, language.French, p.Negotiate("ja"))
	assert.Equal(t, language.French, p.Negotiate("fr-SN;q=0.8, de;q=0.5"))
}

func TestLanguageProvider_PorDefectoDesdeConfig(t *testing.T) {
	p := preferences.NewLanguageProvider(kv.NewMemoryStore(), "es", zerolog.Nop())
	assert.Equal(t, language.Spanish, p.Default())

	p = preferences.NewLanguageProvider(kv.NewMemoryStore(), "xx-invalid-", zerolog.Nop())
	assert.Equal(t, language.French, p.Default())
}

func TestLanguageProvider_GuardadoGanaALaCabecera(t *testing.T) {
	ctx := context.Background()
	p := preferences.NewLanguageProvider(kv.NewMemoryStore(), "fr", zerolog.Nop())

	tag, err := p.Set(ctx, "u1", "en-GB")
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)
	assert.Equal(t, language.English, p.Get(ctx, "u1", "es"))
	assert.Equal(t, language.Spanish, p.Get(ctx, "u2", "es"))

	_, err = p.Set(ctx, "u1", "de")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLanguageProvider_MensajesTraducidos(t *testing.T) {
	p := preferences.NewLanguageProvider(kv.NewMemoryStore(), "fr", zerolog.Nop())

	assert.Equal(t, "Email ou mot de passe incorrect", p.T(language.French, preferences.MsgInvalidCredentials))
	assert.Equal(t, "Invalid email or password", p.T(language.English, preferences.MsgInvalidCredentials))
	assert.Equal(t, "Acceso denegado", p.T(language.Spanish, preferences.MsgAccessDenied))
	assert.Equal(t, "3 change(s) waiting to sync", p.T(language.English, preferences.MsgPendingWrites, 3))
}

func TestCompanyProvider(t *testing.T) {
	ctx := context.Background()
	p := preferences.NewCompanyProvider(kv.NewMemoryStore(), zerolog.Nop())

	assert.Equal(t, entity.DefaultCompanyInfo(), p.Get(ctx))

	saved, err := p.Set(ctx, entity.CompanyInfo{Name: " Atelier Ndiaye ", Currency: "xof", Email: "contact@ndiaye.sn"})
	require.NoError(t, err)
	assert.Equal(t, "Atelier Ndiaye", saved.Name)
	assert.Equal(t, "XOF", saved.Currency)
	assert.Equal(t, saved, p.Get(ctx))

	_, err = p.Set(ctx, entity.CompanyInfo{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.Set(ctx, entity.CompanyInfo{Name: "X", Currency: "ZZZ1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.Set(ctx, entity.CompanyInfo{Name: "X", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
