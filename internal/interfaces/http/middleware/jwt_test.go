package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/backend/internal/infrastructure/auth"
	"github.com/orderbridge/backend/internal/infrastructure/config"
	"github.com/orderbridge/backend/internal/interfaces/http/dto"
)

const testJWTSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                testJWTSecret,
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func newAdminToken(t *testing.T, svc *auth.JWTService) string {
	t.Helper()
	token, err := svc.GenerateAccessToken("admin")
	require.NoError(t, err)
	return token.Token
}

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetJWTUsername(c)})
	}
	router.GET("/api/v1/admin/stores/1/config", handler)
	router.POST("/api/v1/admin/auth/login", handler)
	return router
}

func doAuthRequest(router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	router := newJWTRouter(DefaultJWTConfig(svc))

	w := doAuthRequest(router, http.MethodGet, "/api/v1/admin/stores/1/config", BearerPrefix+newAdminToken(t, svc))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"admin"}`, w.Body.String())
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService()
	router := newJWTRouter(DefaultJWTConfig(svc))

	expiredToken, err := auth.NewJWTService(config.JWTConfig{
		Secret:                testJWTSecret,
		Issuer:                "test-issuer",
		AccessTokenExpiration: -time.Minute,
	}).GenerateAccessToken("admin")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"basic scheme", "Basic YWRtaW46YWRtaW4=", http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"expired token", BearerPrefix + expiredToken.Token, http.StatusUnauthorized, dto.ErrCodeTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthRequest(router, http.MethodGet, "/api/v1/admin/stores/1/config", tt.header)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestJWTAuthMiddleware_RejectsNonAdminRole(t *testing.T) {
	now := time.Now()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "viewer",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Username:  "viewer",
		Role:      "viewer",
		TokenType: auth.TokenTypeAccess,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	router := newJWTRouter(DefaultJWTConfig(newTestJWTService()))
	w := doAuthRequest(router, http.MethodGet, "/api/v1/admin/stores/1/config", BearerPrefix+signed)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeForbidden)
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := newJWTRouter(DefaultJWTConfig(newTestJWTService()))

	w := doAuthRequest(router, http.MethodPost, "/api/v1/admin/auth/login", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService()
	token := newAdminToken(t, svc)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	t.Run("revoked token is rejected", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = blacklist
		w := doAuthRequest(newJWTRouter(cfg), http.MethodGet, "/api/v1/admin/stores/1/config", BearerPrefix+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has been revoked")
	})

	t.Run("blacklist failure fails open", func(t *testing.T) {
		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = failingBlacklist{}
		w := doAuthRequest(newJWTRouter(cfg), http.MethodGet, "/api/v1/admin/stores/1/config", BearerPrefix+token)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	var gotErr error
	cfg := DefaultJWTConfig(newTestJWTService())
	cfg.OnError = func(c *gin.Context, err error) {
		gotErr = err
		c.JSON(http.StatusTeapot, gin.H{"custom": true})
	}

	w := doAuthRequest(newJWTRouter(cfg), http.MethodGet, "/api/v1/admin/stores/1/config", "")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.ErrorIs(t, gotErr, ErrMissingBearerToken)
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUsername(c))
}
