package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Ismaelg12/timeflow/pkg/cpf"
)

// RegisterValidators 向 gin 的校验引擎注册自定义标签
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 校验引擎不是 validator/v10")
	}
	return v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return cpf.Valid(fl.Field().String())
	})
}
