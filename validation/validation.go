// Package validation checks request payloads against `validate` struct tags
// and reports failures as an ordered list of client-facing messages.
//
// Each validated field may carry a `msg` tag holding the message shown to the
// client; fields without one fall back to "<param> is invalid".
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/diewo77/devconnect/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report the json name so "param" matches what the client sent.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Violations is the ordered list of failed checks for one payload.
type Violations []apperr.FieldError

func (v Violations) Empty() bool { return len(v) == 0 }

// Add appends a violation for param.
func (v *Violations) Add(param, msg string) {
	*v = append(*v, apperr.FieldError{Msg: msg, Param: param, Location: "body"})
}

// Err returns an apperr validation error, or nil when there is nothing to report.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return apperr.Validation(v...)
}

// Struct validates s (a struct or pointer to struct) and returns its violations,
// one per failing field, in field declaration order.
func Struct(s any) Violations {
	var out Violations
	err := instance().Struct(s)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("", "Invalid request")
		return out
	}
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		if seen[fe.StructField()] {
			continue
		}
		seen[fe.StructField()] = true
		out.Add(fe.Field(), message(t, fe))
	}
	return out
}

// Check is Struct followed by Err.
func Check(s any) error {
	return Struct(s).Err()
}

func message(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return fe.Field() + " is invalid"
}
