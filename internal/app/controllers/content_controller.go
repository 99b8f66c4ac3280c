// Package controllers handles HTTP request handling
package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/app/services"
	"github.com/yigit/councilcms/internal/middleware"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
)

// ContentController serves the public and admin endpoints of one content type
type ContentController[R models.Record] struct {
	service services.ContentService[R]
	logger  zerolog.Logger
}

// NewContentController creates a new ContentController
func NewContentController[R models.Record](service services.ContentService[R], logger zerolog.Logger) *ContentController[R] {
	return &ContentController[R]{
		service: service,
		logger:  logger.With().Str("content_type", service.ContentType().String()).Logger(),
	}
}

// updateMeta carries the request fields that are not part of the record
type updateMeta struct {
	ExpectedUpdatedAt *time.Time `json:"expectedUpdatedAt"`
}

// List returns the public projection of every record
// @Summary List published records
// @Tags content
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} dto.ErrorResponse "Storage unavailable"
// @Router /{type} [get]
func (c *ContentController[R]) List(ctx *gin.Context) {
	views, err := c.service.GetForDisplay(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, views)
}

// Get returns the public projection of one record
// @Summary Get a published record
// @Tags content
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} object
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /{type}/{id} [get]
func (c *ContentController[R]) Get(ctx *gin.Context) {
	view, err := c.service.GetDisplayByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// AdminList returns full records, internal fields included
func (c *ContentController[R]) AdminList(ctx *gin.Context) {
	records, err := c.service.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// AdminGet returns one full record
func (c *ContentController[R]) AdminGet(ctx *gin.Context) {
	record, err := c.service.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// Create handles record creation
// @Summary Create a record
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} object "Stored record with generated id"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/{type} [post]
func (c *ContentController[R]) Create(ctx *gin.Context) {
	record := c.service.New()
	if err := ctx.ShouldBindJSON(record); err != nil {
		c.logger.Debug().Err(err).Msg("Invalid create payload")
		ctx.JSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return
	}

	created, err := c.service.Create(ctx, record)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// Update merges the fields present in the body onto the stored record
// @Summary Update a record
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} object
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 409 {object} dto.ErrorResponse "expectedUpdatedAt is stale"
// @Router /admin/{type}/{id} [put]
func (c *ContentController[R]) Update(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	body = bytes.TrimSpace(body)
	if err != nil || len(body) == 0 || body[0] != '{' {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(map[string]interface{}{"body": "a JSON object is required"}))
		return
	}
	var meta updateMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return
	}

	patch := func(current R) error {
		if err := json.Unmarshal(body, current); err != nil {
			return apperrors.NewValidationError("Validation failed", map[string]interface{}{"body": err.Error()})
		}
		if err := middleware.ValidateStruct(current); err != nil {
			return apperrors.NewValidationError("Validation failed", dto.ValidationDetails(err))
		}
		return nil
	}

	updated, err := c.service.Update(ctx, ctx.Param("id"), meta.ExpectedUpdatedAt, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// Delete removes a record
// @Summary Delete a record
// @Tags admin
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/{type}/{id} [delete]
func (c *ContentController[R]) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: c.service.ContentType().Label() + " deleted"})
}
