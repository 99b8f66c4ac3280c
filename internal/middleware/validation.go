package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/pkg/logger"
	"github.com/yigit/councilcms/internal/pkg/validation"
)

// RegisterValidation makes gin's validator report json field names and
// know the custom record tags
func RegisterValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(dto.JSONFieldName)
		if err := validation.Register(v); err != nil {
			logger.Error().Err(err).Msg("Failed to register custom validation tags")
		}
	}
}

// ValidateStruct validates a value bound outside of ShouldBindJSON
func ValidateStruct(obj interface{}) error {
	return binding.Validator.ValidateStruct(obj)
}
