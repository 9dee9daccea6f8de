// internal/settings/validate.go
//
// Override validation on top of go-playground/validator.
//
// Context
// -------
// Rules live in `validate:"…"` tags on the `Overrides` leaves.  Tag names
// are mapped to JSON names, so every violation carries the same dotted path
// the API and the override store use.
//
// Two entry points:
//
//   - `Validate`       – a full update tree from the admin API.  Every
//     top-level section must be present, then every leaf is checked.
//   - `ValidateLeaves` – a persisted or already-merged override set, where
//     absent sections simply mean "not overridden".
//
// Both return the complete list of violations.  An empty list means the
// tree is acceptable.
//
// Notes
// -----
//   - Type mismatches never reach this file; they fail JSON decoding into
//     the typed tree first (see internal/api).
//   - Oxford commas, two spaces after periods.
package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := jsonName(f)
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

//
// public API
//

// Validate checks an update tree submitted through the admin API.
func Validate(o Overrides) []Violation {
	out := missingSections(o)
	return append(out, ValidateLeaves(o)...)
}

// ValidateLeaves checks every present leaf against its rule.
func ValidateLeaves(o Overrides) []Violation {
	err := v.Struct(o)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Rule: "invalid", Message: err.Error()}}
	}

	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest // drop the root type name
		}
		out = append(out, Violation{
			Path:    path,
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: message(path, fe),
		})
	}
	return out
}

//
// helpers
//

func missingSections(o Overrides) []Violation {
	var out []Violation
	rv := reflect.ValueOf(o)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if !rv.Field(i).IsNil() {
			continue
		}
		name := jsonName(rt.Field(i))
		out = append(out, Violation{
			Path:    name,
			Rule:    "required",
			Message: name + " section is required",
		})
	}
	return out
}

func message(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return path + " must not be empty"
			}
			return fmt.Sprintf("%s must be at least %s characters", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", path, fe.Param())
	case "email":
		return path + " must be a valid e-mail address"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", path, fe.Param())
	case "required":
		return path + " is required"
	}
	return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
}
