// FILE: lixenwraith/confmgr/register.go
package confmgr

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FlattenStruct converts a struct of default values into entries, using the
// given struct tag for key names (field names when untagged). Nested structs
// and string-keyed maps become dotted keys, slices become indexed keys with
// a length helper. Nil pointers are skipped.
func FlattenStruct(prefix string, structWithDefaults any, tagName string) ([]Entry, error) {
	v := reflect.ValueOf(structWithDefaults)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("FlattenStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("FlattenStruct requires a struct or struct pointer, got %T", structWithDefaults)
	}

	flat := newFlattener()
	var errs []string
	flattenFields(flat, v, strings.TrimSuffix(prefix, "."), tagName, &errs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to flatten %d field(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return flat.entries, nil
}

func flattenFields(flat *flattener, v reflect.Value, prefix, tagName string, errs *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// Get tag value or use field name
		tag := field.Tag.Get(tagName)
		if tag == "-" {
			continue
		}
		key := field.Name
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}

		flattenReflect(flat, v.Field(i), joinKey(prefix, key), tagName, errs)
	}
}

var timeType = reflect.TypeOf(time.Time{})

func flattenReflect(flat *flattener, v reflect.Value, path, tagName string, errs *[]string) {
	// Interfaces and pointers are followed; nil ones have no default to record
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	if s, ok := scalarText(v); ok {
		flat.put(NewEntry(path, s))
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		flattenFields(flat, v, path, tagName, errs)

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			*errs = append(*errs, fmt.Sprintf("%s: map key type %s is not string", path, v.Type().Key()))
			return
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		for _, k := range keys {
			flattenReflect(flat, v.MapIndex(k), joinKey(path, k.String()), tagName, errs)
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			flattenReflect(flat, v.Index(i), indexKey(path, i), tagName, errs)
		}
		flat.put(NewEntry(lengthKey(path), strconv.Itoa(v.Len())))

	case reflect.String:
		flat.put(NewEntry(path, v.String()))
	case reflect.Bool:
		flat.put(NewEntry(path, strconv.FormatBool(v.Bool())))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		flat.put(NewEntry(path, strconv.FormatInt(v.Int(), 10)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		flat.put(NewEntry(path, strconv.FormatUint(v.Uint(), 10)))
	case reflect.Float32, reflect.Float64:
		flat.put(NewEntry(path, strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits())))

	default:
		*errs = append(*errs, fmt.Sprintf("%s: unsupported type %s", path, v.Type()))
	}
}

// scalarText renders values that carry their own text form: time.Time,
// durations, net.IP, url.URL and anything implementing TextMarshaler or Stringer.
func scalarText(v reflect.Value) (string, bool) {
	if v.Type() == timeType {
		return v.Interface().(time.Time).Format(time.RFC3339), true
	}

	candidates := []reflect.Value{v}
	if !v.CanAddr() {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		candidates = append(candidates, ptr)
	} else {
		candidates = append(candidates, v.Addr())
	}

	for _, c := range candidates {
		if !c.CanInterface() {
			continue
		}
		switch x := c.Interface().(type) {
		case encoding.TextMarshaler:
			if text, err := x.MarshalText(); err == nil {
				return string(text), true
			}
		case fmt.Stringer:
			return x.String(), true
		}
	}
	return "", false
}
