// internal/settings/paths.go
//
// Dotted-path addressing of configuration leaves.
//
// Context
// -------
// The override store persists one row per overridden leaf, keyed by its
// dotted path.  These helpers translate between the typed trees and that
// flat key space by walking struct fields and their JSON names:
//
//   - `Paths`         – every leaf path of the schema, in declaration order.
//   - `(Overrides).Leaves` – the non-nil leaves of an override set.
//   - `(*Overrides).Set`   – decode one JSON value into the leaf at path.
//   - `Lookup`        – read one leaf of a merged tree.
//
// Unknown paths yield ErrNotFound.
package settings

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Leaf is one overridden value addressed by its dotted path.
type Leaf struct {
	Path  string
	Value any
}

// Paths lists every leaf path of the schema.
func Paths() []string {
	var out []string
	collectPaths(reflect.TypeOf(CustomConfig{}), "", &out)
	return out
}

func collectPaths(t reflect.Type, prefix string, out *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		p := join(prefix, jsonName(f))
		if f.Type.Kind() == reflect.Struct {
			collectPaths(f.Type, p, out)
			continue
		}
		*out = append(*out, p)
	}
}

// Leaves returns the overridden leaves of o in schema order.
func (o Overrides) Leaves() []Leaf {
	var out []Leaf
	collectLeaves(reflect.ValueOf(o), "", &out)
	return out
}

// Len reports the number of overridden leaves.
func (o Overrides) Len() int { return len(o.Leaves()) }

func collectLeaves(v reflect.Value, prefix string, out *[]Leaf) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		fv := v.Field(i)
		if fv.IsNil() {
			continue
		}
		p := join(prefix, jsonName(t.Field(i)))
		if fv.Elem().Kind() == reflect.Struct {
			collectLeaves(fv.Elem(), p, out)
			continue
		}
		*out = append(*out, Leaf{Path: p, Value: fv.Elem().Interface()})
	}
}

// Set decodes raw JSON into the leaf addressed by path, allocating any
// missing sections on the way down.
func (o *Overrides) Set(path string, raw []byte) error {
	v := reflect.ValueOf(o).Elem()
	parts := strings.Split(path, ".")
	for i, name := range parts {
		f, ok := fieldByName(v, name)
		if !ok || f.Kind() != reflect.Ptr {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		last := i == len(parts)-1
		isSection := f.Type().Elem().Kind() == reflect.Struct
		if last == isSection {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if last {
			leaf := reflect.New(f.Type().Elem())
			if err := json.Unmarshal(raw, leaf.Interface()); err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			f.Set(leaf)
			return nil
		}
		if f.IsNil() {
			f.Set(reflect.New(f.Type().Elem()))
		}
		v = f.Elem()
	}
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Lookup returns the value of one leaf in c.
func Lookup(c CustomConfig, path string) (any, error) {
	v := reflect.ValueOf(c)
	for _, name := range strings.Split(path, ".") {
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		f, ok := fieldByName(v, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		v = f
	}
	if v.Kind() == reflect.Struct {
		return nil, fmt.Errorf("%w: %s is a section", ErrNotFound, path)
	}
	return v.Interface(), nil
}

func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if jsonName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
