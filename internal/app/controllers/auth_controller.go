package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/app/services"
	"github.com/yigit/councilcms/internal/middleware"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles admin login and logout
type AuthController struct {
	authService    services.AuthService
	authMiddleware *middleware.AuthMiddleware
	cookie         CookieConfig
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, authMiddleware *middleware.AuthMiddleware, cookie CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		authMiddleware: authMiddleware,
		cookie:         cookie,
		logger:         logger,
	}
}

// Login handles admin login
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return
	}

	token, expiresIn, err := c.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, token, expiresIn, "/", "", c.cookie.Secure, true)
	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Session: dto.SessionResponse{Authenticated: true, Email: strings.ToLower(strings.TrimSpace(req.Email)), IsAdmin: true},
	})
}

// Logout clears the session cookie
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, "", -1, "/", "", c.cookie.Secure, true)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// Session reports whether the caller holds a valid admin session
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /auth/session [get]
func (c *AuthController) Session(ctx *gin.Context) {
	token := c.authMiddleware.TokenFrom(ctx)
	if token == "" {
		ctx.JSON(http.StatusOK, dto.SessionResponse{})
		return
	}
	email, err := c.authService.Authenticate(token)
	if err != nil {
		ctx.JSON(http.StatusOK, dto.SessionResponse{})
		return
	}
	ctx.JSON(http.StatusOK, dto.SessionResponse{Authenticated: true, Email: email, IsAdmin: true})
}
