package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// Locals keys para UserID, StoreID y Role en Fiber.
const (
	LocalUserID  = "user_id"
	LocalStoreID = "store_id"
	LocalRole    = "role"
)

// SessionChecker informa si el usuario mantiene una sesión abierta.
// Lo implementa *session.Provider; sin sesión el token deja de valer.
type SessionChecker interface {
	Active(ctx context.Context, userID string) (bool, error)
}

type claims struct {
	userID, storeID, role string
}

// parseBearer extrae y valida el token. Devuelve el código de error si no es válido.
func parseBearer(c *fiber.Ctx, jwtSecret string) (claims, string, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return claims{}, "MISSING_TOKEN", "Authorization header requerido"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return claims{}, "INVALID_TOKEN", "formato: Bearer <token>"
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return claims{}, "MISSING_TOKEN", "token vacío"
	}
	userID, storeID, role, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return claims{}, "INVALID_TOKEN", "token inválido o expirado"
	}
	return claims{userID: userID, storeID: storeID, role: role}, "", ""
}

func setClaims(c *fiber.Ctx, cl claims) {
	c.Locals(LocalUserID, cl.userID)
	c.Locals(LocalStoreID, cl.storeID)
	c.Locals(LocalRole, cl.role)
}

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, StoreID y Role a c.Locals.
// Si sessions no es nil exige además una sesión abierta: tras el logout el token se rechaza.
func AuthMiddleware(jwtSecret string, sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cl, code, msg := parseBearer(c, jwtSecret)
		if code != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		if sessions != nil {
			ok, err := sessions.Active(c.UserContext(), cl.userID)
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SESSION_CHECK_FAILED", Message: "no se pudo verificar la sesión"})
			}
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sesión cerrada o vencida"})
			}
		}
		setClaims(c, cl)
		return c.Next()
	}
}

// OptionalAuth carga la identidad si el token es válido y la sesión sigue abierta;
// en cualquier otro caso continúa como visitante anónimo.
func OptionalAuth(jwtSecret string, sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		cl, code, _ := parseBearer(c, jwtSecret)
		if code != "" {
			return c.Next()
		}
		if sessions != nil {
			if ok, err := sessions.Active(c.UserContext(), cl.userID); err != nil || !ok {
				return c.Next()
			}
		}
		setClaims(c, cl)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE → token sin claim de rol.
//   - 403 FORBIDDEN    → rol fuera de la lista.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
		}
		return c.Next()
	}
}

// RequireView protege un grupo de la API con la tabla de navegación: pasa si el rol
// puede ver alguna de las vistas indicadas. Una clave inexistente es un error de
// programación y provoca panic al registrar la ruta.
func RequireView(keys ...string) fiber.Handler {
	for _, k := range keys {
		if _, ok := navigation.Lookup(k); !ok {
			panic("http: vista desconocida " + k)
		}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, k := range keys {
			item, _ := navigation.Lookup(k)
			if item.Allows(role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a " + strings.Join(keys, ", ")})
	}
}

func local(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return local(c, LocalUserID)
}

// GetStoreID devuelve la tienda principal del token.
func GetStoreID(c *fiber.Ctx) string {
	return local(c, LocalStoreID)
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	return local(c, LocalRole)
}
