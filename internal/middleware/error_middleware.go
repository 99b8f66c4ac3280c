package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// messageOf returns the message of the first CustomError in err's chain, or def
func messageOf(err error, def string) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return def
}

// HandleAPIError handles common API errors and returns appropriate responses.
// Causes of server errors are logged, never sent to the caller.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		resp := dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Validation failed")
		if details := apperrors.DetailsOf(err); details != nil {
			resp = resp.WithDetails(details)
		}
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrUnknownContentType):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeBadRequest, "Bad request").WithDetails(err.Error()))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, messageOf(err, "Resource not found")))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, messageOf(err, "Resource already exists")))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceConflict, messageOf(err, "Resource was modified concurrently")))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Unauthorized"))
	case errors.Is(err, apperrors.ErrStorageUnavailable), errors.Is(err, apperrors.ErrUnknownBackend):
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Storage backend failure")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeStorageError, "Storage unavailable"))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}
