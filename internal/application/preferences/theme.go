// Package preferences contiene los proveedores de preferencias: tema, idioma y
// datos de la empresa. Se persisten en el KV local como valores JSON.
package preferences

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
)

// Theme tema visual.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme valida el nombre del tema.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("tema %q: %w", s, domain.ErrInvalidInput)
}

// ThemeProvider tema por usuario.
type ThemeProvider struct {
	kv  ports.KVStore
	log zerolog.Logger
}

// NewThemeProvider construye el proveedor.
func NewThemeProvider(kv ports.KVStore, log zerolog.Logger) *ThemeProvider {
	return &ThemeProvider{kv: kv, log: log}
}

func themeKey(userID string) string { return "pref:theme:" + userID }

// Get devuelve el tema guardado o ThemeSystem. Nunca falla: un error del KV se registra.
func (p *ThemeProvider) Get(ctx context.Context, userID string) Theme {
	if userID == "" {
		return ThemeSystem
	}
	raw, ok, err := p.kv.Get(ctx, themeKey(userID))
	if err != nil {
		p.log.Warn().Err(err).Str("user_id", userID).Msg("leer tema")
		return ThemeSystem
	}
	if !ok {
		return ThemeSystem
	}
	t, err := ParseTheme(raw)
	if err != nil {
		return ThemeSystem
	}
	return t
}

// Set guarda el tema del usuario.
func (p *ThemeProvider) Set(ctx context.Context, userID string, theme string) (Theme, error) {
	if userID == "" {
		return "", domain.ErrUnauthorized
	}
	t, err := ParseTheme(theme)
	if err != nil {
		return "", err
	}
	if err := p.kv.Set(ctx, themeKey(userID), string(t), 0); err != nil {
		return "", fmt.Errorf("guardar tema: %w", err)
	}
	return t, nil
}
