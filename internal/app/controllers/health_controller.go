package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/councilcms/internal/app/models/dto"
)

// HealthController reports liveness and the backend serving each content type
type HealthController struct {
	backends map[string]string
}

// NewHealthController creates a new HealthController
func NewHealthController(backends map[string]string) *HealthController {
	return &HealthController{backends: backends}
}

// Health handles GET /health
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Backends: c.backends,
		Time:     time.Now().UTC(),
	})
}
