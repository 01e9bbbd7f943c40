package dto

import (
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ClientRequest body para POST/PUT /api/clients. Los puntos de fidelidad no se editan.
type ClientRequest struct {
	StoreID string `json:"store_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ToEntity construye la entidad.
func (r ClientRequest) ToEntity(id string) *entity.Client {
	return &entity.Client{
		ID: id, StoreID: r.StoreID, UserID: r.UserID, Name: r.Name,
		Email: r.Email, Phone: r.Phone, Address: r.Address, Notes: r.Notes,
	}
}

// ClientResponse cliente en respuestas, con su nivel de fidelidad.
type ClientResponse struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"store_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	LoyaltyPoints int       `json:"loyalty_points"`
	LoyaltyTier   string    `json:"loyalty_tier"`
	Pending       bool      `json:"pending"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoyaltyResponse resumen de fidelidad del cliente autenticado.
type LoyaltyResponse struct {
	Points       int    `json:"points"`
	Tier         string `json:"tier"`
	NextTier     string `json:"next_tier,omitempty"`
	PointsToNext int    `json:"points_to_next,omitempty"`
}

// NewClientResponse mapea la entidad.
func NewClientResponse(c *entity.Client, isPending bool) ClientResponse {
	return ClientResponse{
		ID: c.ID, StoreID: c.StoreID, UserID: c.UserID, Name: c.Name, Email: c.Email,
		Phone: c.Phone, Address: c.Address, Notes: c.Notes, LoyaltyPoints: c.LoyaltyPoints,
		LoyaltyTier: c.Tier(), Pending: isPending, CreatedAt: c.CreatedAt,
	}
}

// NewLoyaltyResponse calcula el siguiente nivel.
func NewLoyaltyResponse(c *entity.Client) LoyaltyResponse {
	out := LoyaltyResponse{Tier: c.Tier()}
	if c != nil {
		out.Points = c.LoyaltyPoints
	}
	switch out.Tier {
	case entity.TierBronze:
		out.NextTier, out.PointsToNext = entity.TierSilver, entity.SilverThreshold-out.Points
	case entity.TierSilver:
		out.NextTier, out.PointsToNext = entity.TierGold, entity.GoldThreshold-out.Points
	}
	return out
}
