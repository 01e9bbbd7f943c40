package domaindata

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// collection caché ordenada de una entidad; se usa siempre bajo Provider.mu.
type collection[T any] struct {
	items []*T
	id    func(*T) string
	clone func(*T) *T
}

func (c *collection[T]) find(id string) *T {
	for _, it := range c.items {
		if c.id(it) == id {
			return it
		}
	}
	return nil
}

func (c *collection[T]) upsert(v *T) {
	for i, it := range c.items {
		if c.id(it) == c.id(v) {
			c.items[i] = v
			return
		}
	}
	c.items = append(c.items, v)
}

func (c *collection[T]) remove(id string) bool {
	for i, it := range c.items {
		if c.id(it) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *collection[T]) reset(items []*T) {
	c.items = make([]*T, 0, len(items))
	for _, it := range items {
		if it != nil {
			c.items = append(c.items, c.clone(it))
		}
	}
}

func (c *collection[T]) snapshot() []*T {
	out := make([]*T, len(c.items))
	for i, it := range c.items {
		out[i] = c.clone(it)
	}
	return out
}

func newArticles() collection[entity.Article] {
	return collection[entity.Article]{
		id:    func(a *entity.Article) string { return a.ID },
		clone: func(a *entity.Article) *entity.Article { c := *a; return &c },
	}
}

func newServices() collection[entity.Service] {
	return collection[entity.Service]{
		id:    func(s *entity.Service) string { return s.ID },
		clone: func(s *entity.Service) *entity.Service { c := *s; return &c },
	}
}

func newClients() collection[entity.Client] {
	return collection[entity.Client]{
		id:    func(c *entity.Client) string { return c.ID },
		clone: func(c *entity.Client) *entity.Client { cp := *c; return &cp },
	}
}

func newSales() collection[entity.Sale] {
	return collection[entity.Sale]{
		id:    func(s *entity.Sale) string { return s.ID },
		clone: cloneSale,
	}
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Lines = append([]entity.SaleLine(nil), s.Lines...)
	return &c
}
