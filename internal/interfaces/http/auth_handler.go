package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/application/session"
	"github.com/jhoicas/Gestion-api/internal/application/viewrouter"
	"github.com/jhoicas/Gestion-api/internal/domain"
)

// HeaderShellID identifica el shell de vistas del cliente.
const HeaderShellID = "X-Shell-ID"

// AuthHandler maneja registro, login, logout y el perfil propio.
type AuthHandler struct {
	scope
	shells *viewrouter.ShellStore
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sc scope, shells *viewrouter.ShellStore) *AuthHandler {
	return &AuthHandler{scope: sc, shells: shells}
}

// Register godoc
// @Summary      Registrar cliente
// @Description  El rol siempre es client. Los errores llegan como mensaje localizado.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name, phone"
// @Success      201   {object}  dto.RegisterResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res := h.sessions.Register(c.UserContext(), in)
	if res.Success {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	status := fiber.StatusInternalServerError
	switch res.Error {
	case preferences.MsgInvalidInput:
		status = fiber.StatusBadRequest
	case preferences.MsgEmailTaken:
		status = fiber.StatusConflict
	case preferences.MsgConnectionFailed:
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: res.Error, Message: h.t(c, res.Error)})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Abre la sesión y, si llega X-Shell-ID, lleva ese shell al dashboard.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password, location"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: h.t(c, preferences.MsgInvalidInput)})
	}
	out, err := h.sessions.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: h.t(c, preferences.MsgInvalidCredentials)})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INACTIVE_PROFILE", Message: h.t(c, preferences.MsgInactiveProfile)})
		}
		return h.fail(c, err)
	}

	if shellID := c.Get(HeaderShellID); shellID != "" {
		ctx := c.UserContext()
		sh, err := h.shells.Load(ctx, shellID)
		if err == nil && sh != nil {
			if identity, _ := h.sessions.Current(ctx, out.User.ID); identity != nil {
				sh.Login(identity)
				_ = h.shells.Save(ctx, shellID, sh)
			}
		}
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Idempotente. Revoca el token, olvida la tienda activa y devuelve el shell a la landing.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := GetUserID(c)
	if err := h.sessions.Logout(ctx, userID); err != nil {
		return h.fail(c, err)
	}
	if err := h.stores.Reset(ctx, userID); err != nil {
		return h.fail(c, err)
	}
	if shellID := c.Get(HeaderShellID); shellID != "" {
		if sh, err := h.shells.Load(ctx, shellID); err == nil && sh != nil {
			sh.Logout()
			_ = h.shells.Save(ctx, shellID, sh)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Identidad en curso
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := h.identity(c)
	if err != nil {
		return h.fail(c, err)
	}
	if identity == nil {
		return h.fail(c, domain.ErrUnauthorized)
	}
	return c.JSON(session.ToUserResponse(identity))
}

// UpdateMe godoc
// @Summary      Editar el propio perfil
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "name, phone"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/me [put]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.sessions.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/users [get]
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.sessions.List(c.UserContext(), page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
