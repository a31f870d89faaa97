package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 注册自定义校验规则，启动时调用一次
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not validator/v10")
	}
	return v.RegisterValidation("yyyymmdd", validateDate)
}

func validateDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		// 空值交给 required 处理
		return true
	}
	_, err := time.Parse(DateFormat, s)
	return err == nil
}

// BindErrorMessage 把绑定/校验错误转换成面向用户的提示
func BindErrorMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "Invalid request body."
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required", "min":
		return ErrMissingRoadmapFields.Message
	case "yyyymmdd":
		return ErrInvalidEndDate.Message
	default:
		return fmt.Sprintf("Invalid value for %s.", fe.Field())
	}
}
