package domaindata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// Report resultado de una pasada de reconciliación.
type Report struct {
	Applied   int `json:"applied"`
	Dropped   int `json:"dropped"`
	Remaining int `json:"remaining"`
}

// permanent errores que no se arreglan reintentando.
func permanent(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrDuplicate, domain.ErrConflict,
		domain.ErrInsufficientStock, domain.ErrEmailAlreadyExists, domain.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Reconcile reproduce en orden las mutaciones pendientes contra el backend. Cada
// creación confirmada sustituye su id provisional en la caché y en las mutaciones
// posteriores. Se detiene en el primer error transitorio para no alterar el orden;
// la mutación sigue en cola sin límite de intentos hasta que el backend vuelva.
// Solo las rechazadas de forma definitiva se descartan y la caché queda marcada
// para recargarse.
func (p *Provider) Reconcile(ctx context.Context) (Report, error) {
	p.syncMu.Lock()
	defer p.syncMu.Unlock()
	return p.reconcileLocked(ctx)
}

// reconcileLocked se llama con p.syncMu tomado.
func (p *Provider) reconcileLocked(ctx context.Context) (Report, error) {
	var (
		rep      Report
		firstErr error
	)
	for _, m := range p.pending.Entries() {
		if ctx.Err() != nil {
			break
		}
		newID, err := p.apply(ctx, m)
		if err == nil {
			if m.Op == OpCreate && newID != "" && newID != m.EntityID {
				if aerr := p.pending.Alias(ctx, m.EntityID, newID); aerr != nil {
					p.log.Warn().Err(aerr).Msg("persistir alias de id")
				}
				if !p.rebind(m.Kind, m.EntityID, newID) {
					p.restore(m, newID)
				}
			}
			p.removeEntry(ctx, m)
			rep.Applied++
			continue
		}

		if permanent(err) {
			p.log.Error().Err(err).
				Str("kind", string(m.Kind)).Str("op", string(m.Op)).Str("entity_id", m.EntityID).
				Int("attempts", m.Attempts+1).Msg("mutación pendiente descartada")
			p.removeEntry(ctx, m)
			p.mu.Lock()
			p.status.NeedsReload = true
			p.mu.Unlock()
			rep.Dropped++
			continue
		}

		m.Attempts++
		m.LastError = err.Error()
		if uerr := p.pending.Update(ctx, m); uerr != nil {
			p.log.Warn().Err(uerr).Msg("persistir intento de mutación")
		}
		firstErr = fmt.Errorf("%s %s %s: %w", m.Op, m.Kind, m.EntityID, err)
		break
	}

	rep.Remaining = p.pending.Len()
	if rep.Remaining == 0 {
		if err := p.pending.PruneAliases(ctx); err != nil {
			p.log.Warn().Err(err).Msg("limpiar alias de ids")
		}
	}
	p.mu.Lock()
	p.status.LastSyncAt = p.now().UTC()
	p.status.LastSyncError = ""
	if firstErr != nil {
		p.status.LastSyncError = firstErr.Error()
	}
	p.mu.Unlock()
	return rep, firstErr
}

func (p *Provider) removeEntry(ctx context.Context, m Mutation) {
	if err := p.pending.Remove(ctx, m.Seq); err != nil {
		p.log.Warn().Err(err).Int64("seq", m.Seq).Msg("persistir log pendiente")
	}
}

// apply ejecuta una mutación contra el backend; devuelve el id persistido en las creaciones.
func (p *Provider) apply(ctx context.Context, m Mutation) (string, error) {
	id := p.pending.Resolve(m.EntityID)
	switch m.Op {
	case OpCreate:
		return p.createRemote(ctx, m.Kind, m.Payload)
	case OpUpdate:
		if IsPlaceholder(id) {
			return "", fmt.Errorf("%s sin crear en el backend: %w", id, domain.ErrNotFound)
		}
		return "", p.updateRemote(ctx, m.Kind, id, m.Payload)
	case OpDelete:
		if IsPlaceholder(id) {
			return "", nil
		}
		return "", p.deleteRemote(ctx, m.Kind, id)
	}
	return "", fmt.Errorf("operación %q: %w", m.Op, domain.ErrInvalidInput)
}

func decode(payload json.RawMessage, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("payload: %v: %w", err, domain.ErrInvalidInput)
	}
	return nil
}

func (p *Provider) createRemote(ctx context.Context, kind Kind, payload json.RawMessage) (string, error) {
	switch kind {
	case KindArticle:
		var a entity.Article
		if err := decode(payload, &a); err != nil {
			return "", err
		}
		a.ID = ""
		if err := p.backend.Articles.Create(ctx, &a); err != nil {
			return "", err
		}
		return a.ID, nil
	case KindService:
		var s entity.Service
		if err := decode(payload, &s); err != nil {
			return "", err
		}
		s.ID = ""
		if err := p.backend.Services.Create(ctx, &s); err != nil {
			return "", err
		}
		return s.ID, nil
	case KindClient:
		var c entity.Client
		if err := decode(payload, &c); err != nil {
			return "", err
		}
		c.ID = ""
		points := c.LoyaltyPoints
		c.LoyaltyPoints = 0
		if err := p.backend.Clients.Create(ctx, &c); err != nil {
			return "", err
		}
		if points > 0 {
			if err := p.backend.Clients.AddLoyaltyPoints(ctx, c.ID, points); err != nil {
				p.log.Warn().Err(err).Str("client_id", c.ID).Msg("acreditar puntos iniciales")
			}
		}
		return c.ID, nil
	case KindSale:
		var s entity.Sale
		if err := decode(payload, &s); err != nil {
			return "", err
		}
		s.ID = ""
		s.ClientID = p.pending.Resolve(s.ClientID)
		if IsPlaceholder(s.ClientID) {
			s.ClientID = "" // el cliente nunca llegó al backend: venta de paso
		}
		for i := range s.Lines {
			s.Lines[i].ID, s.Lines[i].SaleID = "", ""
			s.Lines[i].ArticleID = p.pending.Resolve(s.Lines[i].ArticleID)
			s.Lines[i].ServiceID = p.pending.Resolve(s.Lines[i].ServiceID)
		}
		if err := p.backend.Recorder.RecordSale(ctx, &s); err != nil {
			return "", err
		}
		return s.ID, nil
	}
	return "", fmt.Errorf("entidad %q: %w", kind, domain.ErrInvalidInput)
}

func (p *Provider) updateRemote(ctx context.Context, kind Kind, id string, payload json.RawMessage) error {
	switch kind {
	case KindArticle:
		var a entity.Article
		if err := decode(payload, &a); err != nil {
			return err
		}
		a.ID = id
		return p.backend.Articles.Update(ctx, &a)
	case KindService:
		var s entity.Service
		if err := decode(payload, &s); err != nil {
			return err
		}
		s.ID = id
		return p.backend.Services.Update(ctx, &s)
	case KindClient:
		var c entity.Client
		if err := decode(payload, &c); err != nil {
			return err
		}
		c.ID = id
		return p.backend.Clients.Update(ctx, &c)
	case KindSale:
		var s entity.Sale
		if err := decode(payload, &s); err != nil {
			return err
		}
		s.ID = id
		s.ClientID = p.pending.Resolve(s.ClientID)
		if IsPlaceholder(s.ClientID) {
			s.ClientID = ""
		}
		return p.backend.Sales.Update(ctx, &s)
	}
	return fmt.Errorf("entidad %q: %w", kind, domain.ErrInvalidInput)
}

func (p *Provider) deleteRemote(ctx context.Context, kind Kind, id string) error {
	switch kind {
	case KindArticle:
		return p.backend.Articles.Delete(ctx, id)
	case KindService:
		return p.backend.Services.Delete(ctx, id)
	case KindClient:
		return p.backend.Clients.Delete(ctx, id)
	case KindSale:
		return p.backend.Sales.Delete(ctx, id)
	}
	return fmt.Errorf("entidad %q: %w", kind, domain.ErrInvalidInput)
}

// rebind sustituye un id provisional por el persistido en la caché y en las
// referencias. Devuelve false si la entidad ya no estaba en caché.
func (p *Provider) rebind(kind Kind, from, to string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created[from] = to
	found := false
	switch kind {
	case KindArticle:
		if a := p.articles.find(from); a != nil {
			a.ID, found = to, true
		}
		for _, s := range p.sales.items {
			for i := range s.Lines {
				if s.Lines[i].ArticleID == from {
					s.Lines[i].ArticleID = to
				}
			}
		}
	case KindService:
		if sv := p.services.find(from); sv != nil {
			sv.ID, found = to, true
		}
		for _, s := range p.sales.items {
			for i := range s.Lines {
				if s.Lines[i].ServiceID == from {
					s.Lines[i].ServiceID = to
				}
			}
		}
	case KindClient:
		if c := p.clients.find(from); c != nil {
			c.ID, found = to, true
		}
		for _, s := range p.sales.items {
			if s.ClientID == from {
				s.ClientID = to
			}
		}
	case KindSale:
		if s := p.sales.find(from); s != nil {
			s.ID, found = to, true
		}
	}
	if !found {
		found = p.cached(kind, to)
	}
	return found
}

func (p *Provider) cached(kind Kind, id string) bool {
	switch kind {
	case KindArticle:
		return p.articles.find(id) != nil
	case KindService:
		return p.services.find(id) != nil
	case KindClient:
		return p.clients.find(id) != nil
	case KindSale:
		return p.sales.find(id) != nil
	}
	return false
}

// restore devuelve a la caché una creación confirmada que una recarga dejó fuera.
// Los efectos derivados (stock, puntos) llegan con la siguiente recarga.
func (p *Provider) restore(m Mutation, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
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
		if json.Unmarshal(m.Payload, &s) == nil {
			s.ID = id
			s.ClientID = p.resolve(s.ClientID)
			for i := range s.Lines {
				s.Lines[i].ArticleID = p.resolve(s.Lines[i].ArticleID)
				s.Lines[i].ServiceID = p.resolve(s.Lines[i].ServiceID)
			}
			p.sales.upsert(&s)
		}
	}
	p.status.NeedsReload = true
}

// Run recarga y reconcilia en segundo plano hasta que ctx termine. Tras una carga
// degradada o un rechazo definitivo vuelve a cargar la caché.
func (p *Provider) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := p.Status()
			if st.Degraded || st.NeedsReload {
				if err := p.Load(ctx); err != nil {
					continue
				}
			}
			if p.pending.Len() > 0 {
				rep, err := p.Reconcile(ctx)
				if err != nil {
					p.log.Warn().Err(err).Int("remaining", rep.Remaining).Msg("reconciliación incompleta")
					continue
				}
				p.log.Info().Int("applied", rep.Applied).Int("dropped", rep.Dropped).Msg("reconciliación completa")
			}
		}
	}
}
