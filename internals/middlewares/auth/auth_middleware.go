// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/store"
)

const localsKey = "auth"

// AuthMiddleware verifies the bearer token and resolves the caller's role
// from the user store on every request, so a role change takes effect without
// re-issuing tokens. The token's sub claim is the user id.
func AuthMiddleware(secret string, users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		if secret == "" {
			log.Println("[AUTH] missing JWT secret")
			return fiber.NewError(fiber.StatusInternalServerError, "missing JWT secret")
		}

		claims := jwt.RegisteredClaims{}
		_, err = jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		if claims.Subject == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token has no subject")
		}

		u, err := users.GetByID(c.UserContext(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "user not found")
			}
			log.Println("[AUTH] user lookup failed:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}

		c.Locals(localsKey, &authz.AuthData{Sub: u.ID, Role: u.Role})
		return c.Next()
	}
}

// AuthFromLocals returns the AuthData the middleware stored, or nil on routes
// that run without it.
func AuthFromLocals(c *fiber.Ctx) *authz.AuthData {
	auth, _ := c.Locals(localsKey).(*authz.AuthData)
	return auth
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("malformed Authorization header")
	}
	return parts[1], nil
}
