// Package composition arma los proveedores de la aplicación en un orden fijo
// y expone accesores tipados para los handlers.
package composition

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/domaindata"
	"github.com/jhoicas/Gestion-api/internal/application/messaging"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/application/session"
	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/application/viewrouter"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// Nombres de proveedor, en orden de composición.
const (
	ProviderTheme       = "theme"
	ProviderIdentity    = "identity"
	ProviderLanguage    = "language"
	ProviderCompany     = "company"
	ProviderDomainData  = "domain-data"
	ProviderStoreAccess = "store-access"
	ProviderChat        = "chat"
	ProviderVisitors    = "visitors"
	ProviderAlerts      = "alerts"
)

// MissingProviderError se usa como valor de panic cuando se pide un proveedor no compuesto.
type MissingProviderError struct {
	Provider string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("composition: proveedor %q no disponible; se usó fuera de la composición", e.Provider)
}

// Deps dependencias externas. Un proveedor cuyas dependencias faltan no se compone.
type Deps struct {
	KV          ports.KVStore
	Identities  repository.IdentityRepository
	Stores      repository.StoreRepository
	Assignments repository.StoreAssignmentRepository
	// Backend nil deja sin proveedor de datos de dominio.
	Backend *domaindata.Backend
	Pending *domaindata.PendingLog

	Session         session.Config
	DefaultLanguage string
	Policy          storeaccess.Policy
	SplashDelay     time.Duration
	ChatInterval    time.Duration
	Log             zerolog.Logger
}

// Providers resultado de Compose.
type Providers struct {
	order []string

	theme       *preferences.ThemeProvider
	session     *session.Provider
	language    *preferences.LanguageProvider
	company     *preferences.CompanyProvider
	domainData  *domaindata.Provider
	storeAccess *storeaccess.Provider
	chat        *messaging.Chat
	poller      *messaging.Poller
	visitors    *messaging.Visitors
	alerts      *messaging.Alerts
	basket      *messaging.Basket
	shells      *viewrouter.ShellStore
}

// relay entrega avisos al proveedor de alertas, que se compone después de sus productores.
type relay struct {
	mu     sync.RWMutex
	target *messaging.Alerts
}

func (r *relay) Notify(ctx context.Context, n entity.Notification) {
	r.mu.RLock()
	t := r.target
	r.mu.RUnlock()
	if t != nil {
		t.Notify(ctx, n)
	}
}

func (r *relay) bind(a *messaging.Alerts) {
	r.mu.Lock()
	r.target = a
	r.mu.Unlock()
}

// Compose construye los proveedores en el orden Theme, Identity, Language,
// Company, DomainData, StoreAccess, Chat, Visitors, Alerts.
func Compose(d Deps) *Providers {
	p := &Providers{}
	log := d.Log
	notify := &relay{}
	add := func(name string) { p.order = append(p.order, name) }

	if d.KV == nil {
		log.Warn().Msg("composition: sin almacén clave-valor; no se compone ningún proveedor")
		return p
	}

	p.theme = preferences.NewThemeProvider(d.KV, log.With().Str("provider", ProviderTheme).Logger())
	add(ProviderTheme)

	if d.Identities != nil {
		p.session = session.NewProvider(d.Identities, d.KV, d.Session, log.With().Str("provider", ProviderIdentity).Logger())
		add(ProviderIdentity)
	}

	p.language = preferences.NewLanguageProvider(d.KV, d.DefaultLanguage, log.With().Str("provider", ProviderLanguage).Logger())
	add(ProviderLanguage)

	p.company = preferences.NewCompanyProvider(d.KV, log.With().Str("provider", ProviderCompany).Logger())
	add(ProviderCompany)

	if d.Backend != nil && d.Pending != nil {
		p.domainData = domaindata.NewProvider(*d.Backend, d.Pending, notify, d.Policy, log.With().Str("provider", ProviderDomainData).Logger())
		add(ProviderDomainData)
	}

	if d.Stores != nil && d.Assignments != nil {
		p.storeAccess = storeaccess.NewProvider(d.Stores, d.Assignments, d.KV, d.Policy, log.With().Str("provider", ProviderStoreAccess).Logger())
		add(ProviderStoreAccess)
	}

	chatLog := log.With().Str("provider", ProviderChat).Logger()
	p.chat = messaging.NewChat(d.KV, notify, chatLog)
	p.poller = messaging.NewPoller(p.chat, d.ChatInterval, chatLog)
	add(ProviderChat)

	p.visitors = messaging.NewVisitors(d.KV, log.With().Str("provider", ProviderVisitors).Logger())
	add(ProviderVisitors)

	p.alerts = messaging.NewAlerts(d.KV, log.With().Str("provider", ProviderAlerts).Logger())
	notify.bind(p.alerts)
	add(ProviderAlerts)

	p.basket = messaging.NewBasket(d.KV)
	ttl := d.Session.TTL
	p.shells = viewrouter.NewShellStore(d.KV, d.SplashDelay, ttl)

	log.Debug().Strs("order", p.order).Msg("proveedores compuestos")
	return p
}

// Order nombres de los proveedores compuestos, en orden.
func (p *Providers) Order() []string {
	return append([]string(nil), p.order...)
}

// Close detiene los sondeos activos.
func (p *Providers) Close() {
	if p.poller != nil {
		p.poller.Close()
	}
}

func must[T any](v *T, name string) *T {
	if v == nil {
		panic(&MissingProviderError{Provider: name})
	}
	return v
}

// Theme preferencia de tema.
func (p *Providers) Theme() *preferences.ThemeProvider {
	return must(p.theme, ProviderTheme)
}

// Session proveedor de identidad.
func (p *Providers) Session() *session.Provider {
	return must(p.session, ProviderIdentity)
}

func (p *Providers) Language() *preferences.LanguageProvider {
	return must(p.language, ProviderLanguage)
}

func (p *Providers) Company() *preferences.CompanyProvider {
	return must(p.company, ProviderCompany)
}

// DomainData caché de datos de dominio.
func (p *Providers) DomainData() *domaindata.Provider {
	return must(p.domainData, ProviderDomainData)
}

func (p *Providers) StoreAccess() *storeaccess.Provider {
	return must(p.storeAccess, ProviderStoreAccess)
}

func (p *Providers) Chat() *messaging.Chat {
	return must(p.chat, ProviderChat)
}

// Poller sondeo de mensajes nuevos; se compone junto al chat.
func (p *Providers) Poller() *messaging.Poller {
	return must(p.poller, ProviderChat)
}

func (p *Providers) Visitors() *messaging.Visitors {
	return must(p.visitors, ProviderVisitors)
}

func (p *Providers) Alerts() *messaging.Alerts {
	return must(p.alerts, ProviderAlerts)
}

// Basket favoritos y carrito.
func (p *Providers) Basket() *messaging.Basket {
	return must(p.basket, "basket")
}

// Shells estado del shell de vistas por visitante.
func (p *Providers) Shells() *viewrouter.ShellStore {
	return must(p.shells, "shell")
}
