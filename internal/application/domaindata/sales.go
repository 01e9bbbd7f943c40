package domaindata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

func validPayment(m string) bool {
	switch m {
	case entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer, entity.PaymentCheck:
		return true
	}
	return false
}

func (p *Provider) cachedSale(id string) *entity.Sale {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s := p.sales.find(p.resolve(id)); s != nil {
		return cloneSale(s)
	}
	return nil
}

// CreateSale registra una venta: completa las líneas con precio e impuesto del
// artículo o servicio, verifica el stock en caché, calcula totales, descuenta
// stock, acredita puntos al cliente y emite los avisos de venta nueva y stock bajo.
// El backend recibe la venta completa en una sola transacción.
func (p *Provider) CreateSale(ctx context.Context, access storeaccess.StoreAccess, sellerID string, in *entity.Sale) (*entity.Sale, error) {
	if in == nil || len(in.Lines) == 0 {
		return nil, fmt.Errorf("venta sin líneas: %w", domain.ErrInvalidInput)
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.PaymentCash
	}
	if !validPayment(payment) {
		return nil, fmt.Errorf("medio de pago %q: %w", payment, domain.ErrInvalidInput)
	}
	store, err := scopeStore(access, in.StoreID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	s := *in
	s.Lines = append([]entity.SaleLine(nil), in.Lines...)
	need := map[string]decimal.Decimal{}
	for i := range s.Lines {
		if err := p.fillLine(access, &s.Lines[i]); err != nil {
			p.mu.Unlock()
			return nil, err
		}
		if id := s.Lines[i].ArticleID; id != "" {
			need[id] = need[id].Add(s.Lines[i].Quantity)
		}
	}
	for id, qty := range need {
		if a := p.articles.find(id); a.Stock.LessThan(qty) {
			p.mu.Unlock()
			return nil, fmt.Errorf("%s: %w", a.Name, domain.ErrInsufficientStock)
		}
	}
	if s.ClientID != "" {
		c := p.clients.find(p.resolve(s.ClientID))
		if c == nil {
			p.mu.Unlock()
			return nil, fmt.Errorf("cliente %s: %w", s.ClientID, domain.ErrNotFound)
		}
		s.ClientID = c.ID
	}

	now := p.now().UTC()
	s.NetTotal, s.TaxTotal, s.GrandTotal = entity.ComputeTotals(s.Lines)
	s.ID = NewPlaceholderID()
	s.StoreID = store
	s.SellerID = sellerID
	s.PaymentMethod = payment
	s.Number = saleNumber(now)
	s.Date, s.CreatedAt, s.UpdatedAt = now, now, now
	lows := p.applySaleEffects(&s)
	p.sales.upsert(cloneSale(&s))
	p.mu.Unlock()

	for _, n := range lows {
		p.notifier.Notify(ctx, n)
	}
	p.notifier.Notify(ctx, entity.Notification{
		Kind:    entity.NotificationNewSale,
		Title:   s.Number,
		Body:    s.GrandTotal.StringFixed(2),
		RefID:   s.ID,
		StoreID: s.StoreID,
	})
	return p.cachedSale(p.commit(ctx, KindSale, OpCreate, s.ID, s)), nil
}

// fillLine completa una línea desde la caché con lo visible para access; se llama bajo p.mu.
func (p *Provider) fillLine(access storeaccess.StoreAccess, l *entity.SaleLine) error {
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("cantidad %s: %w", l.Quantity, domain.ErrInvalidInput)
	}
	switch {
	case l.ArticleID != "":
		a := p.articles.find(p.resolve(l.ArticleID))
		if a == nil || !access.Visible(a.StoreID, p.policy) {
			return fmt.Errorf("artículo %s: %w", l.ArticleID, domain.ErrNotFound)
		}
		l.ArticleID = a.ID
		if l.Label == "" {
			l.Label = a.Name
		}
		if l.UnitPrice.IsZero() {
			l.UnitPrice, l.TaxRate = a.Price, a.TaxRate
		}
	case l.ServiceID != "":
		s := p.services.find(p.resolve(l.ServiceID))
		if s == nil || !access.Visible(s.StoreID, p.policy) {
			return fmt.Errorf("servicio %s: %w", l.ServiceID, domain.ErrNotFound)
		}
		l.ServiceID = s.ID
		if l.Label == "" {
			l.Label = s.Name
		}
		if l.UnitPrice.IsZero() {
			l.UnitPrice, l.TaxRate = s.Price, s.TaxRate
		}
	default:
		if strings.TrimSpace(l.Label) == "" {
			return fmt.Errorf("línea libre sin descripción: %w", domain.ErrInvalidInput)
		}
	}
	if l.UnitPrice.IsNegative() || l.TaxRate.IsNegative() {
		return fmt.Errorf("línea %q con importes negativos: %w", l.Label, domain.ErrInvalidInput)
	}
	return nil
}

// applySaleEffects descuenta stock y acredita puntos en la caché; devuelve los
// avisos de stock bajo. Se llama bajo p.mu.
func (p *Provider) applySaleEffects(s *entity.Sale) []entity.Notification {
	var lows []entity.Notification
	for _, l := range s.Lines {
		if l.ArticleID == "" {
			continue
		}
		a := p.articles.find(p.resolve(l.ArticleID))
		if a == nil || !access.Visible(a.StoreID, p.policy) {
			continue
		}
		wasLow := a.IsLowStock()
		a.Stock = a.Stock.Sub(l.Quantity)
		if !wasLow && a.IsLowStock() {
			lows = append(lows, entity.Notification{
				Kind:    entity.NotificationLowStock,
				Title:   a.Name,
				Body:    fmt.Sprintf("%s / %s", a.Stock.String(), a.MinStock.String()),
				RefID:   a.ID,
				StoreID: a.StoreID,
			})
		}
	}
	if s.ClientID != "" {
		if c := p.clients.find(p.resolve(s.ClientID)); c != nil {
			c.LoyaltyPoints += s.LoyaltyPoints()
		}
	}
	return lows
}

func saleNumber(now time.Time) string {
	return "V" + now.Format("20060102-150405") + "-" + strings.ToUpper(uuid.New().String()[:4])
}

// UpdateSale cambia cliente y medio de pago; las líneas y totales no se editan.
func (p *Provider) UpdateSale(ctx context.Context, access storeaccess.StoreAccess, id, clientID, payment string) (*entity.Sale, error) {
	if payment != "" && !validPayment(payment) {
		return nil, fmt.Errorf("medio de pago %q: %w", payment, domain.ErrInvalidInput)
	}
	p.mu.Lock()
	cur := p.sales.find(p.resolve(id))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if clientID != "" {
		c := p.clients.find(p.resolve(clientID))
		if c == nil {
			p.mu.Unlock()
			return nil, fmt.Errorf("cliente %s: %w", clientID, domain.ErrNotFound)
		}
		cur.ClientID = c.ID
	}
	if payment != "" {
		cur.PaymentMethod = payment
	}
	cur.UpdatedAt = p.now().UTC()
	s := cloneSale(cur)
	p.mu.Unlock()

	return p.cachedSale(p.commit(ctx, KindSale, OpUpdate, s.ID, s)), nil
}

// DeleteSale elimina la venta visible. No repone stock ni retira puntos.
func (p *Provider) DeleteSale(ctx context.Context, access storeaccess.StoreAccess, id string) error {
	p.mu.Lock()
	cur := p.sales.find(p.resolve(id))
	if cur == nil || !access.Visible(cur.StoreID, p.policy) {
		p.mu.Unlock()
		return domain.ErrNotFound
	}
	id = cur.ID
	p.sales.remove(id)
	p.mu.Unlock()

	p.commit(ctx, KindSale, OpDelete, id, nil)
	return nil
}
