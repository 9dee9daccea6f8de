// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `loader.go` calls `validateStruct` immediately after it unmarshals the
// merged Koanf tree.  Any failure aborts startup, so the binary never runs
// with partial or malformed configuration.  Messages use the koanf key
// names an operator actually typed (`http.listen_addr`), not Go field
// names.
//
// Notes
// -----
//   - Oxford commas, two spaces after periods.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// validateStruct returns every failed rule joined into one error.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", key, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", key, fe.Tag()))
		}
	}
	return fmt.Errorf("config: invalid %s", strings.Join(msgs, "; "))
}
