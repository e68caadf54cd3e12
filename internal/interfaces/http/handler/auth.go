package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/infrastructure/auth"
	"github.com/orderbridge/backend/internal/interfaces/http/dto"
	"github.com/orderbridge/backend/internal/interfaces/http/middleware"
)

// CredentialChecker verifies admin credentials
type CredentialChecker interface {
	Authenticate(username, password string) error
}

// TokenIssuer signs admin access tokens
type TokenIssuer interface {
	GenerateAccessToken(username string) (*auth.AccessToken, error)
}

// AuthHandler handles admin login and logout
type AuthHandler struct {
	BaseHandler
	credentials CredentialChecker
	tokens      TokenIssuer
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler. blacklist may be nil, in which
// case logout cannot revoke tokens.
func NewAuthHandler(credentials CredentialChecker, tokens TokenIssuer, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100" example:"admin"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CurrentAdminResponse describes the authenticated admin session
type CurrentAdminResponse struct {
	Username  string    `json:"username" example:"admin"`
	Role      string    `json:"role" example:"admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login godoc
// @ID           adminLogin
// @Summary      Admin login
// @Description  Exchange the admin credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	if err := h.credentials.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("Admin login rejected",
				zap.String("username", req.Username),
				zap.String("client_ip", c.ClientIP()))
			h.Unauthorized(c, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(req.Username)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", req.Username))
	h.Success(c, LoginResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	})
}

// Logout godoc
// @ID           adminLogout
// @Summary      Admin logout
// @Description  Revoke the bearer token used for this request
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if h.blacklist != nil && claims.ID != "" {
		if err := h.blacklist.AddToBlacklist(c.Request.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	h.Success(c, MessageData{Message: "Logged out successfully"})
}

// GetCurrentAdmin godoc
// @ID           getCurrentAdmin
// @Summary      Current admin session
// @Description  Returns the admin the bearer token was issued to
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[CurrentAdminResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/auth/me [get]
func (h *AuthHandler) GetCurrentAdmin(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp := CurrentAdminResponse{Username: claims.Username, Role: claims.Role}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
