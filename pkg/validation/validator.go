package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

var (
	once     sync.Once
	validate *validator.Validate
)

// Engine returns the shared validator, configured on first use:
//   - errors are keyed by JSON tag names
//   - "notblank" rejects strings that are empty after trimming
//   - "pwd" aliases the password length policy; bcrypt reads at most
//     MaxPasswordBytes so the byte length is bounded as well
func Engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if f.Kind() != reflect.String {
				return !f.IsZero()
			}
			return strings.TrimSpace(f.String()) != ""
		})
		_ = v.RegisterValidation("pwdbytes", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= MaxPasswordBytes
		})
		v.RegisterAlias("pwd", "min=6,max=30,pwdbytes")
		v.RegisterAlias("ymd", "datetime=2006-01-02")
		validate = v
	})
	return validate
}

// Validate runs the struct rules of v and returns field -> message. It never
// touches any store and is safe for concurrent use.
func Validate(v any) (map[string]string, bool) {
	err := Engine().Struct(v)
	if err == nil {
		return map[string]string{}, true
	}
	return ToDetails(err), false
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			if _, seen := out[field]; seen {
				continue
			}
			out[field] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	label := Label(fe.Field())
	param := fe.Param()

	switch fe.Tag() {
	case "required", "notblank":
		return label + " field is required"
	case "email":
		return label + " is invalid"
	case "url":
		return "Not a valid URL"
	case "datetime", "ymd":
		return label + " must be a date formatted as YYYY-MM-DD"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, param)
	case "pwd":
		if fe.ActualTag() == "pwdbytes" {
			return label + " is too long"
		}
		return label + " must be between 6 and 30 characters"
	case "eqfield":
		if fe.Field() == "passwordConfirm" {
			return "Passwords must match"
		}
		return label + " must match " + Label(lowerFirst(param))
	case "excluded_if":
		other := strings.ToLower(strings.Fields(param + " field")[0])
		return label + " must be empty when " + other + " is set"
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ")
	default:
		return label + " is invalid"
	}
}

// Label turns a JSON field name into a sentence-case label:
// "fieldOfStudy" -> "Field of study".
func Label(field string) string {
	if field == "" {
		return "Field"
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
