package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// MaxRequestBodyBytes bounds the size of a JSON request body.
const MaxRequestBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// Global validator instance for reuse
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	mustRegister(v, "hexcolor3or6", func(fl validator.FieldLevel) bool {
		return domain.IsHexColor(fl.Field().String())
	})
	mustRegister(v, "taskstatus", func(fl validator.FieldLevel) bool {
		return domain.TaskStatus(fl.Field().String()).IsValid()
	})
	mustRegister(v, "taskpriority", func(fl validator.FieldLevel) bool {
		return domain.TaskPriority(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		// ALLOW-PANIC: tags are compile-time constants
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// ValidateRequest validates v against its struct tags.
// Field failures are returned as domain.FieldErrors keyed by JSON field name.
func ValidateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(domain.FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = validationMessage(fe)
		}
	}
	return fields
}

// validationMessage maps a failed validation tag to a user-facing message.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in the form %s", fe.Param())
	case "hexcolor3or6":
		return "must be a hex color like #RGB or #RRGGBB"
	case "taskstatus":
		return fmt.Sprintf("must be one of %v", domain.TaskStatusValues())
	case "taskpriority":
		return fmt.Sprintf("must be one of %v", domain.TaskPriorityValues())
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
