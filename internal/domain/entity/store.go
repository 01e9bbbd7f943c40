package entity

import "time"

// Store representa una tienda o punto de venta del negocio.
type Store struct {
	ID        string
	Name      string
	Address   string
	City      string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreAssignment vincula una identidad del personal con una tienda.
// La tabla se administra fuera de esta API.
type StoreAssignment struct {
	UserID    string
	StoreID   string
	CreatedAt time.Time
}
