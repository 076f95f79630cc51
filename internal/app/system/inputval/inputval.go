// Package inputval validates decoded request structs using struct tags.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their JSON names so messages match what the client sent.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// FieldError describes a single failed constraint.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Errors is the set of constraint failures for one struct.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Message())
	}
	return strings.Join(parts, "; ")
}

// Fields returns the names of the failing fields in order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Field)
	}
	return out
}

// Has reports whether any failure is for the given tag.
func (e Errors) Has(tag string) bool {
	for _, fe := range e {
		if fe.Tag == tag {
			return true
		}
	}
	return false
}

// Message renders a short human message for the failure.
func (fe FieldError) Message() string {
	switch fe.Tag {
	case "required":
		return fe.Field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field, strings.ReplaceAll(fe.Param, " ", ", "))
	case "email":
		return fe.Field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field, fe.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field, fe.Param)
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field, fe.Tag)
	}
}

// Struct validates s. It returns nil or an Errors value.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// IsValidEmail reports whether s is a bare email address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return get().Var(s, "email") == nil
}
