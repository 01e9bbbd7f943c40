package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ArticleRequest body para crear o reemplazar un artículo.
type ArticleRequest struct {
	StoreID     string          `json:"store_id,omitempty"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	ImageURL    string          `json:"image_url"`
	IsPublished bool            `json:"is_published"`
}

// ToEntity construye la entidad; el id lo decide el proveedor.
func (r ArticleRequest) ToEntity(id string) *entity.Article {
	return &entity.Article{
		ID: id, StoreID: r.StoreID, SKU: r.SKU, Name: r.Name, Description: r.Description,
		Category: r.Category, Price: r.Price, Cost: r.Cost, TaxRate: r.TaxRate,
		Stock: r.Stock, MinStock: r.MinStock, ImageURL: r.ImageURL, IsPublished: r.IsPublished,
	}
}

// ArticleResponse salida de un artículo. Pending = aún no confirmado por el backend.
type ArticleResponse struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id,omitempty"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsPublished bool            `json:"is_published"`
	Pending     bool            `json:"pending"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ShopArticleResponse artículo publicado en la tienda en línea (sin costo).
type ShopArticleResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	InStock     bool            `json:"in_stock"`
}

// ServiceRequest body para crear o reemplazar un servicio.
type ServiceRequest struct {
	StoreID         string          `json:"store_id,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        *bool           `json:"is_active"`
}

// ToEntity construye la entidad; un servicio nuevo está activo salvo indicación contraria.
func (r ServiceRequest) ToEntity(id string) *entity.Service {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &entity.Service{
		ID: id, StoreID: r.StoreID, Name: r.Name, Description: r.Description,
		Price: r.Price, TaxRate: r.TaxRate, DurationMinutes: r.DurationMinutes, IsActive: active,
	}
}

// ServiceResponse salida de un servicio.
type ServiceResponse struct {
	ID              string          `json:"id"`
	StoreID         string          `json:"store_id,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
	Pending         bool            `json:"pending"`
}

// NewArticleResponse mapea la entidad. isPending indica si el id es provisional.
func NewArticleResponse(a *entity.Article, isPending bool) ArticleResponse {
	return ArticleResponse{
		ID: a.ID, StoreID: a.StoreID, SKU: a.SKU, Name: a.Name, Description: a.Description,
		Category: a.Category, Price: a.Price, Cost: a.Cost, TaxRate: a.TaxRate,
		Stock: a.Stock, MinStock: a.MinStock, LowStock: a.IsLowStock(), ImageURL: a.ImageURL,
		IsPublished: a.IsPublished, Pending: isPending, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

// NewShopArticleResponse vista pública del artículo.
func NewShopArticleResponse(a *entity.Article) ShopArticleResponse {
	return ShopArticleResponse{
		ID: a.ID, Name: a.Name, Description: a.Description, Category: a.Category,
		Price: a.Price, ImageURL: a.ImageURL, InStock: a.Stock.IsPositive(),
	}
}

// NewServiceResponse mapea la entidad.
func NewServiceResponse(s *entity.Service, isPending bool) ServiceResponse {
	return ServiceResponse{
		ID: s.ID, StoreID: s.StoreID, Name: s.Name, Description: s.Description, Price: s.Price,
		TaxRate: s.TaxRate, DurationMinutes: s.DurationMinutes, IsActive: s.IsActive, Pending: isPending,
	}
}
