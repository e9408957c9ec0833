package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidTimestamp = errors.New("invalid ISO 8601 date")

// iso8601Layouts are tried in order when parsing date inputs. Clients send
// either a full RFC 3339 timestamp, a local date-time, or a bare date.
var iso8601Layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FieldError describes a single failed check in a request body or query,
// keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()

		// Report JSON field names rather than Go struct field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		validate.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
			_, err := ParseISO8601(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Struct validates v against its validate tags and returns one message per
// failed field, or nil when everything passes.
func Struct(v any) []FieldError {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: "invalid request"}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "must be a valid email address"
	case "iso8601":
		return "must be a valid ISO 8601 date"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ParseISO8601 parses an ISO 8601 date or date-time string. Layouts without
// an offset are interpreted as UTC.
func ParseISO8601(s string) (time.Time, error) {
	for _, layout := range iso8601Layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}
