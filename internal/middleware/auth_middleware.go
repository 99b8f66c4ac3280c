package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/app/services"
	"github.com/yigit/councilcms/internal/pkg/auth"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// Context keys set by the Admin Gate
const (
	AdminEmailKey = "adminEmail"
)

// AuthMiddleware guards the admin routes
type AuthMiddleware struct {
	authService services.AuthService
	cookieName  string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookieName:  cookieName,
	}
}

// TokenFrom returns the session token of a request: the Authorization bearer
// token when present, otherwise the session cookie.
func (m *AuthMiddleware) TokenFrom(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// AdminGate lets a request through only with a valid session of an
// allow-listed admin. Otherwise it aborts with 401 before any handler runs.
func (m *AuthMiddleware) AdminGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.TokenFrom(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Unauthorized"))
			return
		}

		email, err := m.authService.Authenticate(token)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Admin gate rejected request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Unauthorized"))
			return
		}

		c.Set(AdminEmailKey, email)
		c.Next()
	}
}
