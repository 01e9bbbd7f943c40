package domaindata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// scopeStore tienda de una entidad nueva: la indicada si es accesible, si no la activa.
func scopeStore(access storeaccess.StoreAccess, storeID string) (string, error) {
	if storeID == "" {
		return access.ActiveStoreID, nil
	}
	if access.AccessType == storeaccess.Global || access.CanAccess(storeID) {
		return storeID, nil
	}
	return "", domain.ErrForbidden
}

// moveStore valida el cambio de tienda en una actualización; "" conserva la actual.
func moveStore(access storeaccess.StoreAccess, current, requested string) (string, error) {
	if requested == "" || requested == current {
		return current, nil
	}
	return scopeStore(access, requested)
}

// commit registra la mutación en el log y lanza una reconciliación inmediata.
// Un fallo remoto no se propaga: queda registrado y la mutación sigue pendiente.
// Devuelve el id vigente de la entidad (persistido si el backend ya la aceptó).
func (p *Provider) commit(ctx context.Context, kind Kind, op Op, id string, payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("kind", string(kind)).Msg("serializar mutación")
		return id
	}
	if _, err := p.pending.Append(ctx, Mutation{Kind: kind, Op: op, EntityID: id, Payload: raw}); err != nil {
		p.log.Warn().Err(err).Msg("persistir mutación pendiente")
	}
	p.syncNow(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resolve(id)
}

func (p *Provider) syncNow(ctx context.Context) {
	if _, err := p.Reconcile(ctx); err != nil {
		p.log.Warn().Err(err).Int("pending", p.pending.Len()).Msg("escritura remota fallida; queda pendiente")
	}
}

func (p *Provider) notifyLowStock(ctx context.Context, before, after *entity.Article) {
	if after == nil || !after.IsLowStock() {
		return
	}
	if before != nil && before.IsLowStock() {
		return
	}
	p.notifier.Notify(ctx, entity.Notification{
		Kind:    entity.NotificationLowStock,
		Title:   after.Name,
		Body:    fmt.Sprintf("%s / %s", after.Stock.String(), after.MinStock.String()),
		RefID:   after.ID,
		StoreID: after.StoreID,
	})
}

func (p *Provider) cachedArticle(id string) *entity.Article {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if a := p.articles.find(p.resolve(id)); a != nil {
		return p.articles.clone(a)
	}
	return nil
}

func validateArticle(a *entity.Article) error {
	if a == nil || strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("artículo sin nombre: %w", domain.ErrInvalidInput)
	}
	if a.Price.IsNegative() || a.Cost.IsNegative() || a.TaxRate.IsNegative() || a.MinStock.IsNegative() {
		return fmt.Errorf("artículo con importes negativos: %w", domain.ErrInvalidInput)
	}
	return nil
}

// CreateArticle crea el artículo en la caché con id provisional y lo confirma en el backend.
func (p *Provider) CreateArticle(ctx context.Context, access storeaccess.StoreAccess, in *entity.Article) (*entity.Article, error) {
	if err := validateArticle(in); err != nil {
		return nil, err
	}
	store, err := scopeStore(access, in.StoreID)
	if err != nil {
		return nil, err
	}
	a := *in
	now := p.now().UTC()
	a.ID, a.StoreID, a.CreatedAt, a.UpdatedAt = NewPlaceholderID(), store, now, now

	p.mu.Lock()
	p.articles.upsert(p.articles.clone(&a))
	p.mu.Unlock()

	p.notifyLowStock(ctx, nil, &a)
	return p.cachedArticle(p.commit(ctx, KindArticle, OpCreate, a.ID, a)), nil
}

// UpdateArticle reemplaza el artículo visible con id in.ID.
func (p *Provider) UpdateArticle(ctx context.Context, access storeaccess.StoreAccess, in *entity.Article) (*entity.Article, error) {
	if err := validateArticle(in); err != nil {
		return nil, err
	}
	p.mu.Lock()
	cur := p.articles.find(p.resolve(in.ID))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	store, err := moveStore(access, cur.StoreID, in.StoreID)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	before := p.articles.clone(cur)
	a := *in
	a.ID, a.StoreID, a.CreatedAt, a.UpdatedAt = cur.ID, store, cur.CreatedAt, p.now().UTC()
	p.articles.upsert(p.articles.clone(&a))
	p.mu.Unlock()

	p.notifyLowStock(ctx, before, &a)
	return p.cachedArticle(p.commit(ctx, KindArticle, OpUpdate, a.ID, a)), nil
}

// DeleteArticle elimina el artículo visible.
func (p *Provider) DeleteArticle(ctx context.Context, access storeaccess.StoreAccess, id string) error {
	p.mu.Lock()
	cur := p.articles.find(p.resolve(id))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return domain.ErrNotFound
	}
	id = cur.ID
	p.articles.remove(id)
	p.mu.Unlock()

	p.commit(ctx, KindArticle, OpDelete, id, nil)
	return nil
}

func (p *Provider) cachedService(id string) *entity.Service {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s := p.services.find(p.resolve(id)); s != nil {
		return p.services.clone(s)
	}
	return nil
}

func validateService(s *entity.Service) error {
	if s == nil || strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("servicio sin nombre: %w", domain.ErrInvalidInput)
	}
	if s.Price.IsNegative() || s.TaxRate.IsNegative() || s.DurationMinutes < 0 {
		return fmt.Errorf("servicio con valores negativos: %w", domain.ErrInvalidInput)
	}
	return nil
}

// CreateService crea un servicio.
func (p *Provider) CreateService(ctx context.Context, access storeaccess.StoreAccess, in *entity.Service) (*entity.Service, error) {
	if err := validateService(in); err != nil {
		return nil, err
	}
	store, err := scopeStore(access, in.StoreID)
	if err != nil {
		return nil, err
	}
	s := *in
	now := p.now().UTC()
	s.ID, s.StoreID, s.CreatedAt, s.UpdatedAt = NewPlaceholderID(), store, now, now

	p.mu.Lock()
	p.services.upsert(p.services.clone(&s))
	p.mu.Unlock()

	return p.cachedService(p.commit(ctx, KindService, OpCreate, s.ID, s)), nil
}

// UpdateService reemplaza el servicio visible con id in.ID.
func (p *Provider) UpdateService(ctx context.Context, access storeaccess.StoreAccess, in *entity.Service) (*entity.Service, error) {
	if err := validateService(in); err != nil {
		return nil, err
	}
	p.mu.Lock()
	cur := p.services.find(p.resolve(in.ID))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	store, err := moveStore(access, cur.StoreID, in.StoreID)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	s := *in
	s.ID, s.StoreID, s.CreatedAt, s.UpdatedAt = cur.ID, store, cur.CreatedAt, p.now().UTC()
	p.services.upsert(p.services.clone(&s))
	p.mu.Unlock()

	return p.cachedService(p.commit(ctx, KindService, OpUpdate, s.ID, s)), nil
}

// DeleteService elimina el servicio visible.
func (p *Provider) DeleteService(ctx context.Context, access storeaccess.StoreAccess, id string) error {
	p.mu.Lock()
	cur := p.services.find(p.resolve(id))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return domain.ErrNotFound
	}
	id = cur.ID
	p.services.remove(id)
	p.mu.Unlock()

	p.commit(ctx, KindService, OpDelete, id, nil)
	return nil
}

func (p *Provider) cachedClient(id string) *entity.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c := p.clients.find(p.resolve(id)); c != nil {
		return p.clients.clone(c)
	}
	return nil
}

func validateClient(c *entity.Client) error {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("cliente sin nombre: %w", domain.ErrInvalidInput)
	}
	if c.LoyaltyPoints < 0 {
		return fmt.Errorf("puntos negativos: %w", domain.ErrInvalidInput)
	}
	return nil
}

// CreateClient crea un cliente. Si el backend rechaza la escritura el cliente
// sigue en la caché con su id provisional hasta la reconciliación.
func (p *Provider) CreateClient(ctx context.Context, access storeaccess.StoreAccess, in *entity.Client) (*entity.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	store, err := scopeStore(access, in.StoreID)
	if err != nil {
		return nil, err
	}
	c := *in
	now := p.now().UTC()
	c.ID, c.StoreID, c.CreatedAt, c.UpdatedAt = NewPlaceholderID(), store, now, now

	p.mu.Lock()
	p.clients.upsert(p.clients.clone(&c))
	p.mu.Unlock()

	return p.cachedClient(p.commit(ctx, KindClient, OpCreate, c.ID, c)), nil
}

// UpdateClient reemplaza los datos del cliente visible. Los puntos de fidelidad
// solo cambian con las ventas: se conservan los de la caché.
func (p *Provider) UpdateClient(ctx context.Context, access storeaccess.StoreAccess, in *entity.Client) (*entity.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	p.mu.Lock()
	cur := p.clients.find(p.resolve(in.ID))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	store, err := moveStore(access, cur.StoreID, in.StoreID)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	c := *in
	c.ID, c.StoreID, c.CreatedAt, c.UpdatedAt = cur.ID, store, cur.CreatedAt, p.now().UTC()
	c.LoyaltyPoints = cur.LoyaltyPoints
	p.clients.upsert(p.clients.clone(&c))
	p.mu.Unlock()

	return p.cachedClient(p.commit(ctx, KindClient, OpUpdate, c.ID, c)), nil
}

// DeleteClient elimina el cliente visible.
func (p *Provider) DeleteClient(ctx context.Context, access storeaccess.StoreAccess, id string) error {
	p.mu.Lock()
	cur := p.clients.find(p.resolve(id))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return domain.ErrNotFound
	}
	id = cur.ID
	p.clients.remove(id)
	p.mu.Unlock()

	p.commit(ctx, KindClient, OpDelete, id, nil)
	return nil
}
