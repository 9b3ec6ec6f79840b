package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the token "role" claim.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Error codes returned in 401/403 bodies so clients can tell a missing login from an expired one.
const (
	CodeAuthRequired = "auth_required"
	CodeAuthExpired  = "auth_expired"
	CodeForbidden    = "forbidden"
)

const principalKey = "principal"

// Claims is the bearer token payload. Subject holds the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller may perform administrative actions.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ErrorResponse is the body of authentication failures.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	RayID   string `json:"ray_id,omitempty"`
}

// NewToken signs an HS256 token for userID. Used by tooling and tests; issuance belongs to the identity provider.
func NewToken(secret []byte, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Middleware rejects requests without a valid bearer token and stores the Principal in the context.
func Middleware(secret []byte) fiber.Handler {
	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			return deny(c, fiber.StatusUnauthorized, CodeAuthRequired, "authentication required")
		}

		var claims Claims
		_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return deny(c, fiber.StatusUnauthorized, CodeAuthExpired, "session expired")
			}
			return deny(c, fiber.StatusUnauthorized, CodeAuthRequired, "invalid token")
		}

		if claims.Subject == "" {
			return deny(c, fiber.StatusUnauthorized, CodeAuthRequired, "token has no subject")
		}

		c.Locals(principalKey, Principal{UserID: claims.Subject, Role: claims.Role})
		return c.Next()
	}
}

// RequireAdmin must run after Middleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, CodeAuthRequired, "authentication required")
		}
		if !p.IsAdmin() {
			return deny(c, fiber.StatusForbidden, CodeForbidden, "admin role required")
		}
		return c.Next()
	}
}

// PrincipalFrom returns the caller stored by Middleware.
func PrincipalFrom(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(principalKey).(Principal)
	return p, ok
}

// RayID returns the request id assigned by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "unknown"
}

func deny(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		Code:    code,
		RayID:   RayID(c),
	})
}
