package messaging

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
)

// CartItem línea del carrito de un cliente.
type CartItem struct {
	ArticleID string `json:"article_id"`
	Quantity  int    `json:"quantity"`
}

// Basket favoritos y carrito por usuario (favorites:<id>, cart:<id>).
type Basket struct {
	kv ports.KVStore
}

// NewBasket construye el proveedor.
func NewBasket(kv ports.KVStore) *Basket {
	return &Basket{kv: kv}
}

// Favorites ids de artículos favoritos.
func (b *Basket) Favorites(ctx context.Context, userID string) ([]string, error) {
	out := []string{}
	if _, err := ports.GetJSON(ctx, b.kv, "favorites:"+userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFavorites reemplaza los favoritos (sin duplicados, en orden).
func (b *Basket) SetFavorites(ctx context.Context, userID string, ids []string) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, ports.SetJSON(ctx, b.kv, "favorites:"+userID, out, 0)
}

// ToggleFavorite agrega o quita un artículo; devuelve si quedó como favorito.
func (b *Basket) ToggleFavorite(ctx context.Context, userID, articleID string) (bool, error) {
	favs, err := b.Favorites(ctx, userID)
	if err != nil {
		return false, err
	}
	next := make([]string, 0, len(favs)+1)
	found := false
	for _, id := range favs {
		if id == articleID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, articleID)
	}
	_, err = b.SetFavorites(ctx, userID, next)
	return !found, err
}

// Cart contenido del carrito.
func (b *Basket) Cart(ctx context.Context, userID string) ([]CartItem, error) {
	out := []CartItem{}
	if _, err := ports.GetJSON(ctx, b.kv, "cart:"+userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetCart reemplaza el carrito; las líneas del mismo artículo se suman.
func (b *Basket) SetCart(ctx context.Context, userID string, items []CartItem) ([]CartItem, error) {
	idx := map[string]int{}
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if it.ArticleID == "" || it.Quantity <= 0 {
			return nil, fmt.Errorf("línea de carrito %+v: %w", it, domain.ErrInvalidInput)
		}
		if i, ok := idx[it.ArticleID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ArticleID] = len(out)
		out = append(out, it)
	}
	return out, ports.SetJSON(ctx, b.kv, "cart:"+userID, out, 0)
}

// ClearCart vacía el carrito (tras convertirlo en pedido).
func (b *Basket) ClearCart(ctx context.Context, userID string) error {
	return b.kv.Delete(ctx, "cart:"+userID)
}
