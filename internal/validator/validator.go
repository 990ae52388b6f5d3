package validator

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations on Gin's binding engine,
// plus the "matric" tag for matric numbers starting with matricPrefix.
// Call once during application startup.
func Setup(matricPrefix string) {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Register English translations.
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		en_translations.RegisterDefaultTranslations(v, trans)

		registerMatric(v, matricPrefix)
	}
}

func registerMatric(v *govalidator.Validate, prefix string) {
	_ = v.RegisterValidation("matric", func(fl govalidator.FieldLevel) bool {
		return ValidMatric(fl.Field().String(), prefix)
	})
	_ = v.RegisterTranslation("matric", trans,
		func(ut ut.Translator) error {
			return ut.Add("matric", "{0} must start with '"+prefix+"' followed by letters or digits", true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, _ := ut.T("matric", fe.Field())
			return msg
		},
	)
}

// NormalizeMatric trims and upper-cases a matric number.
func NormalizeMatric(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidMatric reports whether raw, once normalized, starts with prefix and
// is 4-20 letters or digits.
func ValidMatric(raw, prefix string) bool {
	m := NormalizeMatric(raw)
	if len(m) < 4 || len(m) > 20 || !strings.HasPrefix(m, strings.ToUpper(prefix)) {
		return false
	}
	for _, r := range m {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
