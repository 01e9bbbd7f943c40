package dto

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// ViewResponse decisión de la puerta de acceso para una clave de ruta.
// Una denegación no es un error HTTP: se responde 200 con la pantalla access-denied.
type ViewResponse struct {
	Outcome  string `json:"outcome"` // allowed | denied | public_fallback
	View     string `json:"view"`
	Screen   string `json:"screen"`
	Recovery string `json:"recovery,omitempty"`
	Mounts   bool   `json:"mounts"`
}

// ShellResponse estado del shell de vistas.
type ShellResponse struct {
	ID         string            `json:"id"`
	State      string            `json:"state"`
	View       string            `json:"view"`
	Screen     string            `json:"screen"`
	Params     map[string]string `json:"params,omitempty"`
	DrawerOpen bool              `json:"drawer_open"`
	Denied     *ViewResponse     `json:"denied,omitempty"`
}

// NavigateRequest body para POST /api/shell/navigate.
type NavigateRequest struct {
	View   string            `json:"view"`
	Params map[string]string `json:"params,omitempty"`
}

// DrawerRequest body para POST /api/shell/drawer.
type DrawerRequest struct {
	Open bool `json:"open"`
}

// NavigationItemResponse entrada del menú lateral.
type NavigationItemResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// NewNavigationResponse mapea la lista ya filtrada para el rol.
func NewNavigationResponse(items []entity.NavigationItem) []NavigationItemResponse {
	out := make([]NavigationItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NavigationItemResponse{ID: it.ID, Label: it.Label, Icon: it.Icon})
	}
	return out
}

// StoreResponse tienda o punto de venta.
type StoreResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

// NewStoreResponse mapea la entidad.
func NewStoreResponse(s *entity.Store) StoreResponse {
	return StoreResponse{ID: s.ID, Name: s.Name, Address: s.Address, City: s.City, Phone: s.Phone, IsActive: s.IsActive}
}

// SetActiveStoreRequest body para PUT /api/stores/access. "" = todas las tiendas.
type SetActiveStoreRequest struct {
	StoreID string `json:"store_id"`
}
