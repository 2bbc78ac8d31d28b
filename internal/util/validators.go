package util

import (
	"blog-backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// ValidatePostStatus 验证帖子状态枚举值
func ValidatePostStatus(fl validator.FieldLevel) bool {
	status, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if status == "" {
		return true
	}
	return model.ValidPostStatus(status)
}
