package entity

import "time"

// Niveles del programa de fidelidad.
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// Umbrales de puntos para cada nivel.
const (
	SilverThreshold = 500
	GoldThreshold   = 2000
)

// Client representa un cliente del CRM (comprador en caja o en línea).
type Client struct {
	ID            string
	StoreID       string
	UserID        string // identidad vinculada si el cliente tiene cuenta
	Name          string
	Email         string
	Phone         string
	Address       string
	LoyaltyPoints int
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Tier devuelve el nivel de fidelidad actual del cliente.
func (c *Client) Tier() string {
	if c == nil {
		return TierBronze
	}
	return LoyaltyTierFor(c.LoyaltyPoints)
}

// LoyaltyTierFor mapea puntos a nivel.
func LoyaltyTierFor(points int) string {
	switch {
	case points >= GoldThreshold:
		return TierGold
	case points >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}
