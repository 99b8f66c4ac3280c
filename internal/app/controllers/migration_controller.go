package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/migrations"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/app/services"
	"github.com/yigit/councilcms/internal/middleware"
)

// MigrationController triggers legacy imports
type MigrationController struct {
	migrationService services.MigrationService
	logger           zerolog.Logger
}

// NewMigrationController creates a new MigrationController
func NewMigrationController(migrationService services.MigrationService, logger zerolog.Logger) *MigrationController {
	return &MigrationController{
		migrationService: migrationService,
		logger:           logger,
	}
}

// Migrate returns the handler migrating content type ct
// @Summary Migrate legacy records
// @Description Copies every record of the content type from a legacy backend into the current one
// @Tags admin
// @Produce json
// @Param mode query string false "skip (default) or replace"
// @Param source query string false "legacy backend: file, blob or dynamodb"
// @Success 200 {object} dto.MigrateResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown mode or source"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Target backend unavailable"
// @Router /admin/{type}/migrate [post]
func (c *MigrationController) Migrate(ct models.ContentType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		mode, err := migrations.ParseMode(ctx.Query("mode"))
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		admin, _ := ctx.Get(middleware.AdminEmailKey)
		c.logger.Info().
			Str("content_type", ct.String()).
			Str("mode", string(mode)).
			Interface("admin", admin).
			Msg("Migration requested")

		report, err := c.migrationService.Migrate(ctx, ct, ctx.Query("source"), mode)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		message := fmt.Sprintf("Migrated %d %s records (%d skipped, %d failed)", report.Inserted, ct, report.Skipped, len(report.Errors))
		if report.SourceUnavailable {
			message = fmt.Sprintf("Legacy %s backend unavailable, nothing migrated", report.Source)
		}
		ctx.JSON(http.StatusOK, dto.MigrateResponse{
			Message:  message,
			Migrated: report.Migrated(),
			Report:   report,
		})
	}
}
