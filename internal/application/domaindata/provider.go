// Package domaindata es el proveedor de datos de dominio: mantiene en caché
// artículos, servicios, clientes y ventas del backend remoto, acepta escrituras
// optimistas y las confirma contra el backend a través de un registro de
// mutaciones pendientes que se reconcilia en segundo plano.
package domaindata

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// Backend puertos del backend remoto de datos.
type Backend struct {
	Articles repository.ArticleRepository
	Services repository.ServiceRepository
	Clients  repository.ClientRepository
	Sales    repository.SaleRepository
	Recorder repository.SaleRecorder
}

// Notifier recibe los efectos secundarios de las escrituras (stock bajo, venta nueva).
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, entity.Notification) {}

// Status estado de la caché y de la sincronización.
type Status struct {
	Loaded        bool      `json:"loaded"`
	Degraded      bool      `json:"degraded"`
	LastError     string    `json:"last_error,omitempty"`
	LoadedAt      time.Time `json:"loaded_at,omitempty"`
	Pending       int       `json:"pending"`
	LastSyncAt    time.Time `json:"last_sync_at,omitempty"`
	LastSyncError string    `json:"last_sync_error,omitempty"`
	NeedsReload   bool      `json:"needs_reload"`
}

// Provider caché de datos de dominio.
type Provider struct {
	backend  Backend
	pending  *PendingLog
	notifier Notifier
	policy   storeaccess.Policy
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	articles collection[entity.Article]
	services collection[entity.Service]
	clients  collection[entity.Client]
	sales    collection[entity.Sale]
	status   Status
	created  map[string]string // id provisional -> id persistido, para quien escribió

	syncMu sync.Mutex
}

// NewProvider construye el proveedor. notifier puede ser nil.
func NewProvider(backend Backend, pending *PendingLog, notifier Notifier, policy storeaccess.Policy, log zerolog.Logger) *Provider {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Provider{
		backend:  backend,
		pending:  pending,
		notifier: notifier,
		policy:   policy,
		log:      log,
		now:      time.Now,
		articles: newArticles(),
		services: newServices(),
		clients:  newClients(),
		sales:    newSales(),
		created:  map[string]string{},
	}
}

// Load trae las cuatro colecciones en paralelo. Si alguna lectura falla la caché
// queda vacía (salvo las escrituras pendientes) y el estado pasa a degradado;
// el error se devuelve solo para registrarlo. Excluye a Reconcile mientras
// dura: una creación confirmada entre la lectura y el reemplazo de la caché
// se perdería.
func (p *Provider) Load(ctx context.Context) error {
	p.syncMu.Lock()
	defer p.syncMu.Unlock()

	var (
		articles []*entity.Article
		services []*entity.Service
		clients  []*entity.Client
		sales    []*entity.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { articles, err = p.backend.Articles.List(gctx); return })
	g.Go(func() (err error) { services, err = p.backend.Services.List(gctx); return })
	g.Go(func() (err error) { clients, err = p.backend.Clients.List(gctx); return })
	g.Go(func() (err error) { sales, err = p.backend.Sales.List(gctx); return })
	err := g.Wait()

	p.mu.Lock()
	if err != nil {
		articles, services, clients, sales = nil, nil, nil, nil
		p.status.Degraded = true
		p.status.LastError = err.Error()
		p.log.Error().Err(err).Msg("cargar datos de dominio; caché vacía")
	} else {
		p.status.Degraded = false
		p.status.LastError = ""
		p.status.NeedsReload = false
		p.created = map[string]string{}
	}
	p.articles.reset(articles)
	p.services.reset(services)
	p.clients.reset(clients)
	p.sales.reset(sales)
	p.overlayPending()
	p.status.Loaded = true
	p.status.LoadedAt = p.now().UTC()
	p.status.Pending = p.pending.Len()
	p.mu.Unlock()

	if err == nil && p.pending.Len() > 0 {
		if _, rerr := p.reconcileLocked(ctx); rerr != nil {
			p.log.Warn().Err(rerr).Int("pending", p.pending.Len()).Msg("reconciliación tras la carga")
		}
	}
	return err
}

// overlayPending reaplica sobre la caché recién cargada las escrituras aún no confirmadas.
func (p *Provider) overlayPending() {
	for _, m := range p.pending.Entries() {
		id := p.pending.Resolve(m.EntityID)
		switch m.Op {
		case OpDelete:
			p.removeCached(m.Kind, id)
			continue
		}
		switch m.Kind {
		case KindArticle:
			var a entity.Article
			if json.Unmarshal(m.Payload, &a) == nil {
				a.ID = id
				p.articles.upsert(&a)
			}
		case KindService:
			var s entity.Service
			if json.Unmarshal(m.Payload, &s) == nil {
				s.ID = id
				p.services.upsert(&s)
			}
		case KindClient:
			var c entity.Client
			if json.Unmarshal(m.Payload, &c) == nil {
				c.ID = id
				p.clients.upsert(&c)
			}
		case KindSale:
			var s entity.Sale
			if json.Unmarshal(m.Payload, &s) != nil {
				continue
			}
			s.ID = id
			if m.Op == OpCreate {
				p.applySaleEffects(&s)
			}
			p.sales.upsert(&s)
		}
	}
}

func (p *Provider) removeCached(kind Kind, id string) {
	switch kind {
	case KindArticle:
		p.articles.remove(id)
	case KindService:
		p.services.remove(id)
	case KindClient:
		p.clients.remove(id)
	case KindSale:
		p.sales.remove(id)
	}
}

// Status estado actual.
func (p *Provider) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st := p.status
	st.Pending = p.pending.Len()
	return st
}

// Policy política de visibilidad por tienda.
func (p *Provider) Policy() storeaccess.Policy {
	return p.policy
}

func articleStore(a *entity.Article) string { return a.StoreID }
func serviceStore(s *entity.Service) string { return s.StoreID }
func clientStore(c *entity.Client) string   { return c.StoreID }
func saleStore(s *entity.Sale) string       { return s.StoreID }

// Articles artículos visibles para el acceso dado.
func (p *Provider) Articles(access storeaccess.StoreAccess) []*entity.Article {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return storeaccess.Filter(p.articles.snapshot(), articleStore, access, p.policy)
}

// Article un artículo visible; ErrNotFound si no existe o está fuera del alcance.
func (p *Provider) Article(access storeaccess.StoreAccess, id string) (*entity.Article, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a := p.articles.find(p.resolve(id))
	if a == nil || !access.Visible(a.StoreID, p.policy) {
		return nil, domain.ErrNotFound
	}
	return p.articles.clone(a), nil
}

// ShopArticles artículos publicados en la tienda en línea, de todas las tiendas.
func (p *Provider) ShopArticles() []*entity.Article {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := []*entity.Article{}
	for _, a := range p.articles.snapshot() {
		if a.IsPublished {
			out = append(out, a)
		}
	}
	return out
}

// Services servicios visibles.
func (p *Provider) Services(access storeaccess.StoreAccess) []*entity.Service {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return storeaccess.Filter(p.services.snapshot(), serviceStore, access, p.policy)
}

// Service un servicio visible.
func (p *Provider) Service(access storeaccess.StoreAccess, id string) (*entity.Service, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.services.find(p.resolve(id))
	if s == nil || !access.Visible(s.StoreID, p.policy) {
		return nil, domain.ErrNotFound
	}
	return p.services.clone(s), nil
}

// Clients clientes visibles.
func (p *Provider) Clients(access storeaccess.StoreAccess) []*entity.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return storeaccess.Filter(p.clients.snapshot(), clientStore, access, p.policy)
}

// Client un cliente visible.
func (p *Provider) Client(access storeaccess.StoreAccess, id string) (*entity.Client, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c := p.clients.find(p.resolve(id))
	if c == nil || !access.Visible(c.StoreID, p.policy) {
		return nil, domain.ErrNotFound
	}
	return p.clients.clone(c), nil
}

// Sales ventas visibles.
func (p *Provider) Sales(access storeaccess.StoreAccess) []*entity.Sale {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return storeaccess.Filter(p.sales.snapshot(), saleStore, access, p.policy)
}

// Sale una venta visible.
func (p *Provider) Sale(access storeaccess.StoreAccess, id string) (*entity.Sale, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.sales.find(p.resolve(id))
	if s == nil || !access.Visible(s.StoreID, p.policy) {
		return nil, domain.ErrNotFound
	}
	return cloneSale(s), nil
}

// ClientName nombre del cliente para tickets y listados; "" si no está en caché.
func (p *Provider) ClientName(id string) string {
	if id == "" {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c := p.clients.find(p.resolve(id)); c != nil {
		return c.Name
	}
	return ""
}

// ClientForUser ficha de cliente vinculada a una identidad (rol client).
func (p *Provider) ClientForUser(userID string) (*entity.Client, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, c := range p.clients.items {
		if userID != "" && c.UserID == userID {
			return p.clients.clone(c), nil
		}
	}
	return nil, domain.ErrNotFound
}

// OrdersForUser ventas del cliente vinculado a la identidad.
func (p *Provider) OrdersForUser(userID string) []*entity.Sale {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var clientID string
	for _, c := range p.clients.items {
		if userID != "" && c.UserID == userID {
			clientID = c.ID
			break
		}
	}
	out := []*entity.Sale{}
	if clientID == "" {
		return out
	}
	for _, s := range p.sales.items {
		if s.ClientID == clientID {
			out = append(out, cloneSale(s))
		}
	}
	return out
}

// resolve traduce un id provisional ya confirmado; se llama bajo p.mu.
func (p *Provider) resolve(id string) string {
	if to, ok := p.created[id]; ok {
		return to
	}
	return p.pending.Resolve(id)
}
