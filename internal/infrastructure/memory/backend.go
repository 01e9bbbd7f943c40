package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// Backend agrupa todos los repositorios en memoria sobre un mismo juego de fallos.
type Backend struct {
	Faults *Faults
	rec    sync.Mutex

	Identities  *IdentityRepo
	Stores      *StoreRepo
	Assignments *AssignmentRepo
	Articles    *ArticleRepo
	Services    *ServiceRepo
	Clients     *ClientRepo
	Sales       *SaleRepo
	Stock       *StockRepo
}

var _ repository.SaleRecorder = (*Backend)(nil)

// NewBackend crea un backend vacío.
func NewBackend() *Backend {
	f := &Faults{}
	articles := &ArticleRepo{faults: f, t: newTable(cloneArticle)}
	return &Backend{
		Faults:      f,
		Identities:  &IdentityRepo{faults: f, t: newTable(cloneIdentity)},
		Stores:      &StoreRepo{faults: f, t: newTable(cloneStore)},
		Assignments: &AssignmentRepo{faults: f},
		Articles:    articles,
		Services:    &ServiceRepo{faults: f, t: newTable(cloneService)},
		Clients:     &ClientRepo{faults: f, t: newTable(cloneClient)},
		Sales:       &SaleRepo{faults: f, t: newTable(cloneSale)},
		Stock:       &StockRepo{faults: f, articles: articles},
	}
}

// RecordSale equivalente en memoria de la transacción de venta. Valida stock y
// cliente antes de tocar nada y aplica todo bajo b.rec: o queda la venta con sus
// descuentos, movimientos y puntos, o no queda nada.
func (b *Backend) RecordSale(_ context.Context, sale *entity.Sale) error {
	b.rec.Lock()
	defer b.rec.Unlock()
	if err := b.Faults.writeErr(); err != nil {
		return err
	}
	need := map[string]decimal.Decimal{}
	for _, l := range sale.Lines {
		if l.ArticleID != "" {
			need[l.ArticleID] = need[l.ArticleID].Add(l.Quantity)
		}
	}
	for id, qty := range need {
		a, ok := b.Articles.t.get(id)
		if !ok {
			return domain.ErrNotFound
		}
		if a.Stock.LessThan(qty) {
			return domain.ErrInsufficientStock
		}
	}
	if sale.ClientID != "" && !b.Clients.t.has(sale.ClientID) {
		return domain.ErrNotFound
	}

	stamp(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	for i := range sale.Lines {
		if sale.Lines[i].ID == "" {
			sale.Lines[i].ID = uuid.New().String()
		}
		sale.Lines[i].SaleID = sale.ID
	}
	b.Sales.t.put(sale.ID, *sale)

	now := time.Now().UTC()
	for id, qty := range need {
		_, _ = b.Articles.t.update(id, func(a entity.Article) (entity.Article, error) {
			a.Stock = a.Stock.Sub(qty)
			a.UpdatedAt = now
			return a, nil
		})
		b.Stock.append(entity.StockMovement{
			ID:        uuid.New().String(),
			ArticleID: id,
			StoreID:   sale.StoreID,
			Type:      entity.MovementSale,
			Quantity:  qty.Neg(),
			Reference: sale.ID,
			CreatedBy: sale.SellerID,
			CreatedAt: now,
		})
	}
	if pts := sale.LoyaltyPoints(); sale.ClientID != "" && pts > 0 {
		_, _ = b.Clients.t.update(sale.ClientID, func(c entity.Client) (entity.Client, error) {
			c.LoyaltyPoints += pts
			c.UpdatedAt = now
			return c, nil
		})
	}
	return nil
}

func stamp(id *string, created, updated *time.Time) {
	now := time.Now().UTC()
	if *id == "" {
		*id = uuid.New().String()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// IdentityRepo implementa repository.IdentityRepository.
type IdentityRepo struct {
	faults *Faults
	t      *table[entity.Identity]
}

var _ repository.IdentityRepository = (*IdentityRepo)(nil)

func cloneIdentity(i entity.Identity) entity.Identity {
	if i.LastLoginAt != nil {
		t := *i.LastLoginAt
		i.LastLoginAt = &t
	}
	return i
}

func (r *IdentityRepo) Create(_ context.Context, identity *entity.Identity) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	if existing, _ := r.GetByEmail(context.Background(), identity.Email); existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	stamp(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
	r.t.put(identity.ID, *identity)
	return nil
}

func (r *IdentityRepo) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	v, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *IdentityRepo) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	for _, v := range r.t.list() {
		if strings.EqualFold(v.Email, email) {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (r *IdentityRepo) Update(_ context.Context, identity *entity.Identity) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	if !r.t.has(identity.ID) {
		return domain.ErrNotFound
	}
	identity.UpdatedAt = time.Now().UTC()
	r.t.put(identity.ID, *identity)
	return nil
}

func (r *IdentityRepo) TouchLogin(_ context.Context, id string, at time.Time, location string) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	found, _ := r.t.update(id, func(v entity.Identity) (entity.Identity, error) {
		v.LastLoginAt = &at
		v.LastLocation = location
		return v, nil
	})
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IdentityRepo) List(_ context.Context, limit, offset int) ([]*entity.Identity, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	return page(ptrs(r.t.list()), limit, offset), nil
}

// StoreRepo implementa repository.StoreRepository. Put siembra tiendas.
type StoreRepo struct {
	faults *Faults
	t      *table[entity.Store]
}

var _ repository.StoreRepository = (*StoreRepo)(nil)

func cloneStore(s entity.Store) entity.Store { return s }

// Put inserta o reemplaza una tienda.
func (r *StoreRepo) Put(s *entity.Store) {
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	r.t.put(s.ID, *s)
}

func (r *StoreRepo) List(_ context.Context) ([]*entity.Store, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	return ptrs(r.t.list()), nil
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	v, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// AssignmentRepo implementa repository.StoreAssignmentRepository.
type AssignmentRepo struct {
	faults *Faults
	mu     sync.RWMutex
	rows   []entity.StoreAssignment
}

var _ repository.StoreAssignmentRepository = (*AssignmentRepo)(nil)

// Assign vincula un usuario con una tienda.
func (r *AssignmentRepo) Assign(userID, storeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, entity.StoreAssignment{UserID: userID, StoreID: storeID, CreatedAt: time.Now().UTC()})
}

func (r *AssignmentRepo) ListByUser(_ context.Context, userID string) ([]*entity.StoreAssignment, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.StoreAssignment
	for _, a := range r.rows {
		if a.UserID == userID {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

// ArticleRepo implementa repository.ArticleRepository.
type ArticleRepo struct {
	faults *Faults
	t      *table[entity.Article]
}

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

func cloneArticle(a entity.Article) entity.Article { return a }

func (r *ArticleRepo) Create(_ context.Context, a *entity.Article) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	r.t.put(a.ID, *a)
	return nil
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	v, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *ArticleRepo) Update(_ context.Context, a *entity.Article) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	if !r.t.has(a.ID) {
		return domain.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	r.t.put(a.ID, *a)
	return nil
}

func (r *ArticleRepo) Delete(_ context.Context, id string) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	r.t.delete(id)
	return nil
}

func (r *ArticleRepo) List(_ context.Context) ([]*entity.Article, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	return ptrs(r.t.list()), nil
}

// ServiceRepo implementa repository.ServiceRepository.
type ServiceRepo struct {
	faults *Faults
	t      *table[entity.Service]
}

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

func cloneService(s entity.Service) entity.Service { return s }

func (r *ServiceRepo) Create(_ context.Context, s *entity.Service) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	r.t.put(s.ID, *s)
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	v, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *ServiceRepo) Update(_ context.Context, s *entity.Service) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	if !r.t.has(s.ID) {
		return domain.ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.t.put(s.ID, *s)
	return nil
}

func (r *ServiceRepo) Delete(_ context.Context, id string) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	r.t.delete(id)
	return nil
}

func (r *ServiceRepo) List(_ context.Context) ([]*entity.Service, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	return ptrs(r.t.list()), nil
}

// ClientRepo implementa repository.ClientRepository.
type ClientRepo struct {
	faults *Faults
	t      *table[entity.Client]
}

var _ repository.ClientRepository = (*ClientRepo)(nil)

func cloneClient(c entity.Client) entity.Client { return c }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	r.t.put(c.ID, *c)
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	v, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// Update no toca los puntos de fidelidad: solo cambian con AddLoyaltyPoints.
func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	found, _ := r.t.update(c.ID, func(cur entity.Client) (entity.Client, error) {
		next := *c
		next.LoyaltyPoints = cur.LoyaltyPoints
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		return next, nil
	})
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, id string) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	r.t.delete(id)
	return nil
}

func (r *ClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	return ptrs(r.t.list()), nil
}

func (r *ClientRepo) AddLoyaltyPoints(_ context.Context, id string, points int) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	found, _ := r.t.update(id, func(c entity.Client) (entity.Client, error) {
		c.LoyaltyPoints += points
		c.UpdatedAt = time.Now().UTC()
		return c, nil
	})
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct {
	faults *Faults
	t      *table[entity.Sale]
}

var _ repository.SaleRepository = (*SaleRepo)(nil)

func cloneSale(s entity.Sale) entity.Sale {
	s.Lines = append([]entity.SaleLine(nil), s.Lines...)
	return s
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	for i := range s.Lines {
		if s.Lines[i].ID == "" {
			s.Lines[i].ID = uuid.New().String()
		}
		s.Lines[i].SaleID = s.ID
	}
	r.t.put(s.ID, *s)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	v, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *SaleRepo) Update(_ context.Context, s *entity.Sale) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	found, _ := r.t.update(s.ID, func(cur entity.Sale) (entity.Sale, error) {
		cur.ClientID = s.ClientID
		cur.PaymentMethod = s.PaymentMethod
		cur.UpdatedAt = time.Now().UTC()
		return cur, nil
	})
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) List(_ context.Context) ([]*entity.Sale, error) {
	if err := r.faults.readErr(); err != nil {
		return nil, err
	}
	return ptrs(r.t.list()), nil
}

func (r *SaleRepo) Delete(_ context.Context, id string) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	r.t.delete(id)
	return nil
}

// StockRepo implementa repository.StockRepository sobre la tabla de artículos.
type StockRepo struct {
	faults    *Faults
	articles  *ArticleRepo
	mu        sync.Mutex
	movements []entity.StockMovement
}

var _ repository.StockRepository = (*StockRepo)(nil)

func (r *StockRepo) Decrement(_ context.Context, articleID string, qty decimal.Decimal) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	found, err := r.articles.t.update(articleID, func(a entity.Article) (entity.Article, error) {
		if a.Stock.LessThan(qty) {
			return a, domain.ErrInsufficientStock
		}
		a.Stock = a.Stock.Sub(qty)
		a.UpdatedAt = time.Now().UTC()
		return a, nil
	})
	if !found {
		return domain.ErrNotFound
	}
	return err
}

func (r *StockRepo) RecordMovement(_ context.Context, m *entity.StockMovement) error {
	if err := r.faults.writeErr(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.append(*m)
	return nil
}

func (r *StockRepo) append(m entity.StockMovement) {
	r.mu.Lock()
	r.movements = append(r.movements, m)
	r.mu.Unlock()
}

// Movements copia de la traza registrada.
func (r *StockRepo) Movements() []entity.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.StockMovement(nil), r.movements...)
}

func ptrs[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
