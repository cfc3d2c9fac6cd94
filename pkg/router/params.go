package router

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mlb-trending/trending/internal/errors"
)

// DecodeProps fills the struct pointed to by target from props. Fields opt
// in with a `param:"name"` tag; untagged fields and props without a field
// are left alone. Supported kinds: string, ints, uints, floats and bool.
func DecodeProps(props Params, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("router: props target must be a non-nil pointer, got %T", target)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("router: props target must point to a struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("param")
		if name == "" || !field.IsExported() {
			continue
		}
		value, ok := props[name]
		if !ok {
			continue
		}
		if err := setField(v.Field(i), value); err != nil {
			return errors.New(errors.CodeInvalidParam).
				WithDetailf(":%s = %q: %v", name, value, err)
		}
	}
	return nil
}

// PropsAs decodes the view inputs of m into a new T.
func PropsAs[T any](m *Match) (T, error) {
	var out T
	if m == nil {
		return out, fmt.Errorf("router: nil match")
	}
	err := DecodeProps(m.Props, &out)
	return out, err
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer")
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer")
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float")
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean")
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
