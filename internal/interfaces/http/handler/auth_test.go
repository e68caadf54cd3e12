package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderbridge/backend/internal/infrastructure/auth"
	"github.com/orderbridge/backend/internal/infrastructure/config"
	"github.com/orderbridge/backend/internal/interfaces/http/dto"
	"github.com/orderbridge/backend/internal/interfaces/http/middleware"
)

// testJWTConfig returns a default JWT config for tests
func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                "test-secret-key-32-characters-long",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	}
}

type authFixture struct {
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	router    *gin.Engine
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	f := &authFixture{
		jwt:       auth.NewJWTService(testJWTConfig()),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	credentials := auth.NewAdminAuthenticator(config.AdminConfig{Username: "admin", PasswordHash: string(hash)})
	h := NewAuthHandler(credentials, f.jwt, f.blacklist, zap.NewNop())

	jwtCfg := middleware.DefaultJWTConfig(f.jwt)
	jwtCfg.TokenBlacklist = f.blacklist

	f.router = gin.New()
	f.router.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	f.router.POST("/api/v1/admin/auth/login", h.Login)
	f.router.POST("/api/v1/admin/auth/logout", h.Logout)
	f.router.GET("/api/v1/admin/auth/me", h.GetCurrentAdmin)
	return f
}

func (f *authFixture) do(method, target, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func (f *authFixture) login(t *testing.T) string {
	t.Helper()
	w := f.do(http.MethodPost, "/api/v1/admin/auth/login", `{"username":"admin","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodPost, "/api/v1/admin/auth/login", `{"username":"admin","password":"s3cret-pass"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "Bearer", data["token_type"])
	assert.NotEmpty(t, data["expires_at"])

	claims, err := f.jwt.ValidateAccessToken(data["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestAuthHandler_LoginRejected(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedCode int
		expectedErr  string
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"unknown user", `{"username":"root","password":"s3cret-pass"}`, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed", `{"username":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			w := f.do(http.MethodPost, "/api/v1/admin/auth/login", tt.body, "")

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Equal(t, tt.expectedErr, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestAuthHandler_LogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	token := f.login(t)

	w := f.do(http.MethodGet, "/api/v1/admin/auth/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decodeResponse(t, w).Data.(map[string]any)["username"])

	w = f.do(http.MethodPost, "/api/v1/admin/auth/logout", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decodeResponse(t, w).Data.(map[string]any)["message"])

	claims, err := f.jwt.ValidateAccessToken(token)
	require.NoError(t, err)
	revoked, err := f.blacklist.IsBlacklisted(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	w = f.do(http.MethodGet, "/api/v1/admin/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_LogoutWithoutToken(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodPost, "/api/v1/admin/auth/logout", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error {
	return errors.New("redis unavailable")
}

func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, nil
}

func TestAuthHandler_LogoutBlacklistFailure(t *testing.T) {
	jwtSvc := auth.NewJWTService(testJWTConfig())
	token, err := jwtSvc.GenerateAccessToken("admin")
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateAccessToken(token.Token)
	require.NoError(t, err)

	h := NewAuthHandler(nil, jwtSvc, failingBlacklist{}, nil)
	c, w := newTestContext(http.MethodPost, "/api/v1/admin/auth/logout")
	c.Set(middleware.JWTClaimsKey, claims)

	h.Logout(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandler_GetCurrentAdminWithoutClaims(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil, nil)
	c, w := newTestContext(http.MethodGet, "/api/v1/admin/auth/me")

	h.GetCurrentAdmin(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
