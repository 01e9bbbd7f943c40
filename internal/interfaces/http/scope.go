package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/application/session"
	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// scope resuelve por petición la identidad, su acceso a tiendas y el idioma.
// Lo embeben los handlers que trabajan sobre datos de dominio.
type scope struct {
	sessions *session.Provider
	stores   *storeaccess.Provider
	lang     *preferences.LanguageProvider
}

// identity identidad en curso; nil para visitantes anónimos.
func (s scope) identity(c *fiber.Ctx) (*entity.Identity, error) {
	userID := GetUserID(c)
	if userID == "" {
		return nil, nil
	}
	id, err := s.sessions.Current(c.UserContext(), userID)
	if err != nil {
		return nil, err
	}
	if id == nil {
		// Perfil no encontrado a tiempo: se confía en los claims del token.
		id = &entity.Identity{ID: userID, Role: GetRole(c), StoreID: GetStoreID(c), IsActive: true}
	}
	return id, nil
}

// access identidad y su acceso a tiendas.
func (s scope) access(c *fiber.Ctx) (*entity.Identity, storeaccess.StoreAccess, error) {
	id, err := s.identity(c)
	if err != nil {
		return nil, storeaccess.StoreAccess{}, err
	}
	return id, s.stores.For(c.UserContext(), id), nil
}

// tag idioma del usuario o negociado con Accept-Language.
func (s scope) tag(c *fiber.Ctx) language.Tag {
	return s.lang.Get(c.UserContext(), GetUserID(c), c.Get(fiber.HeaderAcceptLanguage))
}

func (s scope) t(c *fiber.Ctx, key string, args ...any) string {
	return s.lang.T(s.tag(c), key, args...)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// fail traduce los errores de dominio a status y código HTTP.
func (s scope) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: s.t(c, preferences.MsgInvalidInput)})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: s.t(c, preferences.MsgEmailTaken)})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: s.t(c, preferences.MsgSessionExpired)})
	case errors.Is(err, domain.ErrStoreLocked):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "STORE_LOCKED", Message: s.t(c, preferences.MsgStoreLocked)})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: s.t(c, preferences.MsgAccessDenied)})
	case errors.Is(err, domain.ErrBackendUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BACKEND_UNAVAILABLE", Message: s.t(c, preferences.MsgConnectionFailed)})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
