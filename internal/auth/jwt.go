package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingTenant = errors.New("missing restaurant")
	ErrInvalidToken  = errors.New("invalid token")
)

type Claims struct {
	RestaurantID string `json:"restaurant_id"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens issued by the identity service.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.RestaurantID == "" {
		return nil, ErrMissingTenant
	}
	return claims, nil
}

// Sign is used by tests and local tooling; production tokens come from the
// identity service.
func (v *Verifier) Sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Resolve picks the tenant from an "Authorization: Bearer" value or, when no
// token is present, from the plain restaurant header value.
func (v *Verifier) Resolve(authorization, restaurantHeader string) (string, error) {
	if token, ok := bearer(authorization); ok {
		claims, err := v.Parse(token)
		if err != nil {
			return "", err
		}
		return claims.RestaurantID, nil
	}
	if id := strings.TrimSpace(restaurantHeader); id != "" {
		return id, nil
	}
	return "", ErrMissingTenant
}

func bearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
