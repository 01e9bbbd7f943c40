package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo implementación del puerto ArticleRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

const articleColumns = `id, COALESCE(store_id::text, ''), sku, name, description, category, price, cost, tax_rate,
	stock, min_stock, COALESCE(image_url, ''), is_published, created_at, updated_at`

func scanArticle(row rowScanner) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(&a.ID, &a.StoreID, &a.SKU, &a.Name, &a.Description, &a.Category, &a.Price, &a.Cost,
		&a.TaxRate, &a.Stock, &a.MinStock, &a.ImageURL, &a.IsPublished, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un artículo; genera el id si viene vacío.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	query := `
		INSERT INTO articles (id, store_id, sku, name, description, category, price, cost, tax_rate, stock, min_stock, image_url, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		a.ID, nullIfEmpty(a.StoreID), a.SKU, a.Name, a.Description, a.Category, a.Price, a.Cost, a.TaxRate,
		a.Stock, a.MinStock, nullIfEmpty(a.ImageURL), a.IsPublished, a.CreatedAt, a.UpdatedAt,
	)
	return wrap("insert article", err)
}

// GetByID obtiene un artículo; (nil, nil) si no existe.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get article", err)
	}
	return a, nil
}

// Update reemplaza los datos editables, stock incluido.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	a.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE articles SET store_id = $2, sku = $3, name = $4, description = $5, category = $6, price = $7,
			cost = $8, tax_rate = $9, stock = $10, min_stock = $11, image_url = $12, is_published = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, nullIfEmpty(a.StoreID), a.SKU, a.Name, a.Description, a.Category, a.Price, a.Cost, a.TaxRate,
		a.Stock, a.MinStock, nullIfEmpty(a.ImageURL), a.IsPublished, a.UpdatedAt,
	)
	if err != nil {
		return wrap("update article", err)
	}
	return mustAffect(tag)
}

// Delete elimina el artículo; borrar uno inexistente no es error.
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return wrap("delete article", err)
}

// List devuelve todos los artículos por nombre.
func (r *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	rows, err := r.q.Query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY name`)
	if err != nil {
		return nil, wrap("list articles", err)
	}
	defer rows.Close()
	list := []*entity.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, wrap("scan article", err)
		}
		list = append(list, a)
	}
	return list, wrap("list articles", rows.Err())
}
