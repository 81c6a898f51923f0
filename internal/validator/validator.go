package validator

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// trans is the singleton English translator for validation errors.
var (
	trans     ut.Translator
	setupOnce sync.Once
)

// FieldError is the first failing field of a request body.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Setup registers the validator with English translations on Gin's binding engine.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("notblank", validators.NotBlank)

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterTranslation("notblank", trans,
			func(ut ut.Translator) error {
				return ut.Add("notblank", "{0} is missing or blank", true)
			},
			func(ut ut.Translator, fe govalidator.FieldError) string {
				msg, _ := ut.T("notblank", fe.Field())
				return msg
			},
		)
	})
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// FirstError returns the earliest failing field in struct declaration order.
// The validator walks fields in that order, so ve[0] is the first one.
// Returns nil for errors that are not validation errors.
func FirstError(err error) *FieldError {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return nil
	}
	fe := ve[0]
	return &FieldError{Field: fe.Field(), Message: fe.Translate(trans)}
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindFirst binds and validates the request body into dst. On a validation
// failure it returns only the first failing field. A value of the wrong JSON
// type leaves its field blank, so it is reported in declaration order like
// any other blank field. A malformed body is reported as "body".
func BindFirst(c *gin.Context, dst interface{}) *FieldError {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	if fe := FirstError(err); fe != nil {
		return fe
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if fe := FirstError(binding.Validator.ValidateStruct(dst)); fe != nil {
			return fe
		}
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &FieldError{Field: field, Message: field + " has the wrong type"}
	}
	return &FieldError{Field: "body", Message: "request body is not valid JSON for this operation"}
}
