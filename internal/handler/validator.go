package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var trans ut.Translator

// InitValidator installs the English translator on gin's validator so
// binding failures come back as readable field messages.
func InitValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not validator/v10")
	}
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	return enTranslations.RegisterDefaultTranslations(v, trans)
}

func translateError(err error) string {
	var vErrs validator.ValidationErrors
	if trans != nil && errors.As(err, &vErrs) {
		parts := make([]string, 0, len(vErrs))
		for _, m := range vErrs.Translate(trans) {
			parts = append(parts, m)
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
