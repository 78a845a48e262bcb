package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func signed(t *testing.T, v *Verifier, restaurantID string, exp time.Time) string {
	t.Helper()
	tok, err := v.Sign(&Claims{
		RestaurantID:     restaurantID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return tok
}

func TestResolve(t *testing.T) {
	v := NewVerifier("secret")
	good := signed(t, v, "r1", time.Now().Add(time.Hour))
	expired := signed(t, v, "r1", time.Now().Add(-time.Hour))
	foreign := signed(t, NewVerifier("other"), "r1", time.Now().Add(time.Hour))
	noTenant := signed(t, v, "", time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		auth    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer", "Bearer " + good, "", "r1", nil},
		{"bearer wins over header", "bearer " + good, "r2", "r1", nil},
		{"header only", "", "r2", "r2", nil},
		{"expired", "Bearer " + expired, "", "", ErrInvalidToken},
		{"wrong secret", "Bearer " + foreign, "", "", ErrInvalidToken},
		{"token without tenant", "Bearer " + noTenant, "", "", ErrMissingTenant},
		{"nothing", "", "  ", "", ErrMissingTenant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.auth, tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetRestaurantIDFallsBackToMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RestaurantMetadataKey, "r9"))
	if got := GetRestaurantID(ctx); got != "r9" {
		t.Errorf("got %q, want r9", got)
	}
	if got := GetRestaurantID(WithRestaurantID(ctx, "r1")); got != "r1" {
		t.Errorf("context value should win, got %q", got)
	}
	if got := GetRestaurantID(context.Background()); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	v := NewVerifier("secret")
	intercept := v.UnaryServerInterceptor()
	echo := func(ctx context.Context, _ any) (any, error) { return GetRestaurantID(ctx), nil }

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RestaurantMetadataKey, "r1"))
	got, err := intercept(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/restu.catalog.v1.VariationService/Regenerate"}, echo)
	if err != nil || got != "r1" {
		t.Fatalf("got %v, %v", got, err)
	}

	_, err = intercept(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/restu.catalog.v1.VariationService/Regenerate"}, echo)
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("code = %v, want Unauthenticated", status.Code(err))
	}

	if _, err := intercept(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, echo); err != nil {
		t.Errorf("health check should bypass auth: %v", err)
	}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewVerifier("secret").GinMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRestaurantID(c.Request.Context())) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RestaurantHeader, "r5")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "r5" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", w.Code)
	}
}
