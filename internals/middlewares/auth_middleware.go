// file: internals/middlewares/auth_middleware.go
package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool
}

// AuthJWT memvalidasi Bearer token (HS256) lalu menaruh identitas caller di Locals.
// Kebijakan role/akses per fitur TIDAK dicek di sini — itu urusan layanan auth
// di depan; engine ini cuma butuh tahu "siapa" yang manggil.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		} else if opts.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		} else {
			raw = ""
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak ditemukan")
		}

		claims := jwt.MapClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Metode signing tidak didukung")
			}
			return []byte(opts.Secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid / kadaluarsa")
		}

		if sub, ok := claims["sub"].(string); ok && sub != "" {
			c.Locals("user_id", sub)
		} else if uid, ok := claims["user_id"].(string); ok && uid != "" {
			c.Locals("user_id", uid)
		} else {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tanpa user_id")
		}
		if role, ok := claims["role"].(string); ok {
			c.Locals("role", role)
		}

		return c.Next()
	}
}
