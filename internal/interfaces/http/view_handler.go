package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/messaging"
	"github.com/jhoicas/Gestion-api/internal/application/viewrouter"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
)

// ViewHandler expone la puerta de acceso, el shell de vistas y el menú lateral.
type ViewHandler struct {
	scope
	shells   *viewrouter.ShellStore
	visitors *messaging.Visitors
}

// NewViewHandler construye el handler de vistas.
func NewViewHandler(sc scope, shells *viewrouter.ShellStore, visitors *messaging.Visitors) *ViewHandler {
	return &ViewHandler{scope: sc, shells: shells, visitors: visitors}
}

func toViewResponse(d viewrouter.Decision) dto.ViewResponse {
	return dto.ViewResponse{
		Outcome: string(d.Outcome), View: d.View, Screen: d.Screen, Recovery: d.Recovery, Mounts: d.Mounts(),
	}
}

func toShellResponse(id string, sh *viewrouter.Shell) dto.ShellResponse {
	v := sh.View()
	return dto.ShellResponse{
		ID:         id,
		State:      string(sh.State()),
		View:       v.CurrentView,
		Screen:     sh.Screen().Screen,
		Params:     v.Params,
		DrawerOpen: v.DrawerOpen,
	}
}

// Resolve godoc
// @Summary      Decidir la pantalla de una vista
// @Description  Una denegación no es un error: responde 200 con la pantalla access-denied. Registra la visita.
// @Tags         views
// @Produce      json
// @Param        key  path  string  true  "clave de ruta"
// @Success      200  {object}  dto.ViewResponse
// @Router       /api/views/{key} [get]
func (h *ViewHandler) Resolve(c *fiber.Ctx) error {
	identity, err := h.identity(c)
	if err != nil {
		return h.fail(c, err)
	}
	d := viewrouter.Decide(c.Params("key"), identity)
	h.visitors.Record(c.UserContext(), d.View)
	return c.JSON(toViewResponse(d))
}

// Navigation godoc
// @Summary      Menú lateral del rol
// @Tags         views
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.NavigationItemResponse
// @Router       /api/navigation [get]
func (h *ViewHandler) Navigation(c *fiber.Ctx) error {
	return c.JSON(dto.NewNavigationResponse(navigation.VisibleFor(GetRole(c))))
}

// StartShell godoc
// @Summary      Arrancar un shell
// @Description  El shell nace en splash; el id viaja después en la cabecera X-Shell-ID.
// @Tags         shell
// @Produce      json
// @Success      201  {object}  dto.ShellResponse
// @Router       /api/shell [post]
func (h *ViewHandler) StartShell(c *fiber.Ctx) error {
	identity, err := h.identity(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, sh, err := h.shells.Start(c.UserContext(), identity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toShellResponse(id, sh))
}

// loadShell restaura el shell de la cabecera y lo alinea con la identidad de la petición.
func (h *ViewHandler) loadShell(c *fiber.Ctx) (string, *viewrouter.Shell, error) {
	id := c.Get(HeaderShellID)
	sh, err := h.shells.Load(c.UserContext(), id)
	if err != nil || sh == nil {
		return id, nil, err
	}
	identity, err := h.identity(c)
	if err != nil {
		return id, nil, err
	}
	syncIdentity(sh, identity)
	return id, sh, nil
}

// syncIdentity un token nuevo equivale a un login; su ausencia, a un logout.
func syncIdentity(sh *viewrouter.Shell, identity *entity.Identity) {
	switch {
	case identity != nil && sh.UserID() != identity.ID:
		sh.Login(identity)
	case identity == nil && sh.UserID() != "":
		sh.Logout()
	}
}

func shellNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHELL_NOT_FOUND", Message: "shell inexistente o vencido"})
}

// GetShell godoc
// @Summary      Estado del shell
// @Tags         shell
// @Produce      json
// @Param        X-Shell-ID  header  string  true  "id del shell"
// @Success      200  {object}  dto.ShellResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shell [get]
func (h *ViewHandler) GetShell(c *fiber.Ctx) error {
	id, sh, err := h.loadShell(c)
	if err != nil {
		return h.fail(c, err)
	}
	if sh == nil {
		return shellNotFound(c)
	}
	if err := h.shells.Save(c.UserContext(), id, sh); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toShellResponse(id, sh))
}

// Navigate godoc
// @Summary      Navegar a una vista
// @Description  Si la puerta la deniega, el estado de navegación no cambia y denied describe la pantalla de acceso denegado.
// @Tags         shell
// @Accept       json
// @Produce      json
// @Param        X-Shell-ID  header  string               true  "id del shell"
// @Param        body        body    dto.NavigateRequest  true  "vista y parámetros"
// @Success      200  {object}  dto.ShellResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shell/navigate [post]
func (h *ViewHandler) Navigate(c *fiber.Ctx) error {
	var in dto.NavigateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, sh, err := h.loadShell(c)
	if err != nil {
		return h.fail(c, err)
	}
	if sh == nil {
		return shellNotFound(c)
	}
	d := sh.Navigate(in.View, in.Params)
	if err := h.shells.Save(c.UserContext(), id, sh); err != nil {
		return h.fail(c, err)
	}
	h.visitors.Record(c.UserContext(), d.View)

	out := toShellResponse(id, sh)
	if !d.Mounts() {
		denied := toViewResponse(d)
		out.Denied = &denied
	}
	return c.JSON(out)
}

// Drawer godoc
// @Summary      Abrir o cerrar el drawer
// @Tags         shell
// @Accept       json
// @Produce      json
// @Param        X-Shell-ID  header  string             true  "id del shell"
// @Param        body        body    dto.DrawerRequest  true  "open"
// @Success      200  {object}  dto.ShellResponse
// @Router       /api/shell/drawer [post]
func (h *ViewHandler) Drawer(c *fiber.Ctx) error {
	var in dto.DrawerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, sh, err := h.loadShell(c)
	if err != nil {
		return h.fail(c, err)
	}
	if sh == nil {
		return shellNotFound(c)
	}
	sh.SetDrawer(in.Open)
	if err := h.shells.Save(c.UserContext(), id, sh); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toShellResponse(id, sh))
}

// VisitStats godoc
// @Summary      Contadores de visitas
// @Tags         views
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  messaging.VisitStats
// @Router       /api/visitors [get]
func (h *ViewHandler) VisitStats(c *fiber.Ctx) error {
	st, err := h.visitors.Stats(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}
