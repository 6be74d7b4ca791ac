package middleware

import (
	"errors"
	"strings"
	"time"

	"pullupboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Locals keys set by RequireAuth
const (
	LocalEmail = "email"
	LocalRole  = "role"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims are the identity provider's token claims
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for email and role
func GenerateToken(secret, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and returns its claims
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid bearer token and stores
// the caller's email and role in the request locals.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return unauthorized(c, ErrMissingToken)
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			return unauthorized(c, err)
		}

		c.Locals(LocalEmail, strings.ToLower(claims.Email))
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole allows only callers whose token carries role
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if got, _ := c.Locals(LocalRole).(string); got != role {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{
				Error:   "Forbidden",
				Message: "Reviewer access required",
			})
		}
		return c.Next()
	}
}

// Email returns the authenticated caller's email
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error:   "Unauthorized",
		Message: err.Error(),
	})
}
