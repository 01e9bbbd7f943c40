// Package viewrouter decide qué pantalla se monta para una clave de navegación
// y un rol, y mantiene el estado del shell de la aplicación (splash, navegación
// pública, sesión autenticada) por cliente.
package viewrouter

import (
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
)

// Outcome resultado de la puerta de acceso.
type Outcome string

const (
	Allowed        Outcome = "allowed"
	Denied         Outcome = "denied"
	PublicFallback Outcome = "public_fallback"
)

// Pantallas especiales; el resto de pantallas coincide con su clave de navegación.
const (
	ScreenLanding         = "landing"
	ScreenAccessDenied    = "access-denied"
	ScreenClientDashboard = "client-dashboard"
)

// Decision descriptor de la pantalla a montar.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	// View clave resuelta (las desconocidas se resuelven a dashboard).
	View   string `json:"view"`
	Screen string `json:"screen"`
	// Recovery única acción ofrecida en la pantalla de acceso denegado.
	Recovery string `json:"recovery,omitempty"`
}

// Mounts informa si la vista solicitada se monta tal cual.
func (d Decision) Mounts() bool {
	return d.Outcome == Allowed
}

// Decide aplica la puerta de acceso. Sin identidad solo se muestran las vistas
// públicas; el resto cae en la landing (no autenticado no es lo mismo que no autorizado).
// Un rol fuera de la lista de la vista recibe acceso denegado. Una clave
// desconocida no es un error: se resuelve a la vista por defecto.
func Decide(view string, identity *entity.Identity) Decision {
	if identity == nil {
		if navigation.IsPublic(view) {
			return Decision{Outcome: Allowed, View: view, Screen: view}
		}
		return Decision{Outcome: PublicFallback, View: view, Screen: ScreenLanding}
	}

	item, ok := navigation.Lookup(view)
	if !ok {
		view = navigation.DefaultView
		item, _ = navigation.Lookup(view)
	}
	if !item.Allows(identity.Role) {
		return Decision{Outcome: Denied, View: view, Screen: ScreenAccessDenied, Recovery: navigation.DefaultView}
	}

	screen := view
	if view == navigation.ViewDashboard && identity.Role == entity.RoleClient {
		screen = ScreenClientDashboard
	}
	return Decision{Outcome: Allowed, View: view, Screen: screen}
}
