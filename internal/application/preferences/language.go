package preferences

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
)

// Supported idiomas de la interfaz.
var Supported = []language.Tag{language.French, language.English, language.Spanish}

// LanguageProvider idioma por usuario, negociado contra Accept-Language si no hay preferencia.
type LanguageProvider struct {
	kv      ports.KVStore
	tags    []language.Tag // el primero es el idioma por defecto
	matcher language.Matcher
	log     zerolog.Logger
}

// NewLanguageProvider construye el proveedor; defaultLang debe ser uno de Supported (si no, francés).
func NewLanguageProvider(kv ports.KVStore, defaultLang string, log zerolog.Logger) *LanguageProvider {
	def := language.French
	if t, err := language.Parse(defaultLang); err == nil {
		for _, s := range Supported {
			if base(s) == base(t) {
				def = s
			}
		}
	}
	tags := []language.Tag{def}
	for _, s := range Supported {
		if s != def {
			tags = append(tags, s)
		}
	}
	return &LanguageProvider{kv: kv, tags: tags, matcher: language.NewMatcher(tags), log: log}
}

func base(t language.Tag) string {
	b, _ := t.Base()
	return b.String()
}

func languageKey(userID string) string { return "pref:language:" + userID }

// Default idioma por defecto.
func (p *LanguageProvider) Default() language.Tag {
	return p.tags[0]
}

// Negotiate elige el idioma soportado más cercano a la cabecera Accept-Language.
func (p *LanguageProvider) Negotiate(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return p.Default()
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return p.Default()
	}
	_, idx, conf := p.matcher.Match(prefs...)
	if conf == language.No {
		return p.Default()
	}
	return p.tags[idx]
}

// Get idioma guardado del usuario o el negociado.
func (p *LanguageProvider) Get(ctx context.Context, userID, acceptLanguage string) language.Tag {
	if userID != "" {
		raw, ok, err := p.kv.Get(ctx, languageKey(userID))
		if err != nil {
			p.log.Warn().Err(err).Str("user_id", userID).Msg("leer idioma")
		} else if ok {
			if t, err := p.resolve(raw); err == nil {
				return t
			}
		}
	}
	return p.Negotiate(acceptLanguage)
}

// Set guarda el idioma del usuario; solo se aceptan idiomas soportados.
func (p *LanguageProvider) Set(ctx context.Context, userID, lang string) (language.Tag, error) {
	if userID == "" {
		return language.Und, domain.ErrUnauthorized
	}
	t, err := p.resolve(lang)
	if err != nil {
		return language.Und, err
	}
	if err := p.kv.Set(ctx, languageKey(userID), t.String(), 0); err != nil {
		return language.Und, fmt.Errorf("guardar idioma: %w", err)
	}
	return t, nil
}

func (p *LanguageProvider) resolve(lang string) (language.Tag, error) {
	t, err := language.Parse(lang)
	if err != nil {
		return language.Und, fmt.Errorf("idioma %q: %w", lang, domain.ErrInvalidInput)
	}
	for _, s := range p.tags {
		if base(s) == base(t) {
			return s, nil
		}
	}
	return language.Und, fmt.Errorf("idioma %q no soportado: %w", lang, domain.ErrInvalidInput)
}

// Printer impresora localizada sobre el catálogo de mensajes.
func (p *LanguageProvider) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// T traduce la clave de mensaje al idioma dado.
func (p *LanguageProvider) T(tag language.Tag, key string, args ...any) string {
	return p.Printer(tag).Sprintf(key, args...)
}
