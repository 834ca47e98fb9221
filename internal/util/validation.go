package util

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// HandlePattern 用户名同时作为 @mention 的句柄
	HandlePattern  = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	tagNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.+#-]{0,49}$`)
)

// RegisterValidators 向 gin 的 validator 注册自定义规则 handle / tagname
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	if err := v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return HandlePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		return tagNamePattern.MatchString(fl.Field().String())
	})
}

// BindingMessage 将 validator 的错误整理为简短提示
func BindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "min":
			return fe.Field() + " must be at least " + fe.Param() + " characters"
		case "max":
			return fe.Field() + " must be at most " + fe.Param() + " characters"
		case "email":
			return fe.Field() + " must be a valid email"
		case "handle":
			return fe.Field() + " may only contain letters, digits and underscores (3-30)"
		case "tagname":
			return fe.Field() + " must be a lowercase tag name"
		case "oneof":
			return fe.Field() + " must be one of: " + fe.Param()
		}
		return fe.Field() + " is invalid"
	}
	return err.Error()
}
