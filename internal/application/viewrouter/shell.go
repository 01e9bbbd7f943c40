package viewrouter

import (
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
)

// State estado del shell.
type State string

const (
	StateSplash                State = "splash"
	StatePublicUnauthenticated State = "public_unauthenticated"
	// StatePublicBrowsing identidad autenticada recorriendo vistas públicas (tienda, puntos de venta).
	StatePublicBrowsing State = "public_authenticated_browsing"
	StateAuthenticated  State = "authenticated"
)

// ViewState estado de navegación propiedad exclusiva del shell.
type ViewState struct {
	CurrentView string            `json:"current_view"`
	Params      map[string]string `json:"params,omitempty"`
	DrawerOpen  bool              `json:"drawer_open"`
}

// DefaultViewState estado tras login y logout.
func DefaultViewState() ViewState {
	return ViewState{CurrentView: navigation.DefaultView}
}

// Shell máquina de estados del shell de la aplicación. No es segura para uso
// concurrente: cada petición trabaja sobre su propia copia restaurada del KV.
type Shell struct {
	state     State
	view      ViewState
	screen    Decision
	identity  *entity.Identity
	startedAt time.Time
	splash    time.Duration
}

// NewShell arranca un shell en Splash.
func NewShell(now time.Time, splash time.Duration) *Shell {
	s := &Shell{state: StateSplash, view: DefaultViewState(), startedAt: now, splash: splash}
	s.screen = Decide(s.view.CurrentView, nil)
	return s
}

// State estado actual.
func (s *Shell) State() State { return s.state }

// View estado de navegación actual (copia).
func (s *Shell) View() ViewState {
	v := s.view
	if v.Params != nil {
		v.Params = copyParams(v.Params)
	}
	return v
}

// Screen última decisión de la puerta de acceso.
func (s *Shell) Screen() Decision { return s.screen }

// Identity identidad del shell; nil si no hay sesión.
func (s *Shell) Identity() *entity.Identity { return s.identity }

// UserID id de la identidad del shell o "".
func (s *Shell) UserID() string {
	if s.identity == nil {
		return ""
	}
	return s.identity.ID
}

// Tick sale de Splash cuando vence el temporizador.
func (s *Shell) Tick(now time.Time) State {
	if s.state == StateSplash && now.Sub(s.startedAt) >= s.splash {
		s.settle()
	}
	return s.state
}

// Login pasa a Authenticated(dashboard) desde cualquier estado.
func (s *Shell) Login(identity *entity.Identity) Decision {
	if identity == nil {
		return s.screen
	}
	s.identity = identity
	s.view = DefaultViewState()
	s.state = StateAuthenticated
	s.screen = Decide(s.view.CurrentView, identity)
	return s.screen
}

// Navigate solicita la vista key. Si la puerta la deniega el estado de navegación
// no cambia y se devuelve la pantalla de acceso denegado. Una navegación que monta
// su vista cierra el drawer. Navegar durante el splash lo termina.
func (s *Shell) Navigate(key string, params map[string]string) Decision {
	d := Decide(key, s.identity)
	s.screen = d
	if s.state == StateSplash {
		s.settle()
	}
	if d.Outcome != Allowed {
		return d
	}

	s.view = ViewState{CurrentView: d.View, Params: copyParams(params)}
	switch {
	case s.identity == nil:
		s.state = StatePublicUnauthenticated
	case navigation.IsPublic(d.View):
		s.state = StatePublicBrowsing
	default:
		s.state = StateAuthenticated
	}
	return d
}

// SetDrawer abre o cierra el drawer de navegación móvil.
func (s *Shell) SetDrawer(open bool) {
	s.view.DrawerOpen = open
}

// Logout vuelve a PublicUnauthenticated con el estado de navegación por defecto.
// Es idempotente: sin identidad solo reinicia el estado.
func (s *Shell) Logout() {
	s.identity = nil
	s.view = DefaultViewState()
	if s.state != StateSplash {
		s.state = StatePublicUnauthenticated
	}
	s.screen = Decide(s.view.CurrentView, nil)
}

func (s *Shell) settle() {
	if s.identity != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StatePublicUnauthenticated
	}
	s.screen = Decide(s.view.CurrentView, s.identity)
}

func copyParams(p map[string]string) map[string]string {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
