package auth

import (
	"fmt"
	"strings"

	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxUserRoleKey = "user_role"
)

// ParseToken valida un token firmado y devuelve sus claims. También lo usa el
// feed en tiempo real, que recibe el token por query string antes del upgrade.
func ParseToken(secret, tokenStr string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inválido")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido o expirado")
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		return nil, fmt.Errorf("no se pudieron leer los claims del token")
	}
	return claims, nil
}

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta el header Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato debe ser 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o expirado")
		}

		// Sesión fail-closed: un perfil desconocido no pasa de aquí.
		if !models.ValidRole(claims.Role) {
			return fiber.NewError(fiber.StatusForbidden, "No tienes permisos en la plataforma")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el perfil del usuario")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tienes permiso para realizar esta acción")
	}
}

// CurrentUsername devuelve el nombre de usuario de la sesión, ya validado por el middleware.
func CurrentUsername(c *fiber.Ctx) (string, error) {
	username, ok := c.Locals(CtxUsernameKey).(string)
	if !ok || username == "" {
		return "", fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el usuario de la sesión")
	}
	return username, nil
}
