package settings

import "reflect"

// Diff returns the leaf paths whose values differ between old and next, in
// schema order.
func Diff(old, next CustomConfig) []string {
	var out []string
	diffStruct(reflect.ValueOf(old), reflect.ValueOf(next), "", &out)
	return out
}

func diffStruct(a, b reflect.Value, prefix string, out *[]string) {
	t := a.Type()
	for i := 0; i < t.NumField(); i++ {
		p := join(prefix, jsonName(t.Field(i)))
		af, bf := a.Field(i), b.Field(i)
		if af.Kind() == reflect.Struct {
			diffStruct(af, bf, p, out)
			continue
		}
		if af.Interface() != bf.Interface() {
			*out = append(*out, p)
		}
	}
}
