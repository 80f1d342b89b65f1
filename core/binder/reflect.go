package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// fieldError names the input key that failed to convert.
type fieldError struct {
	name string
	err  error
}

func (e *fieldError) Error() string { return fmt.Sprintf("%s: %v", e.name, e.err) }
func (e *fieldError) Unwrap() error { return e.err }

// bindValues fills the struct behind ptr using the tag named tag. lookup
// returns the raw values for an input key.
func bindValues(ptr any, tag string, lookup func(name string) []string) error {
	rv, err := structValue(ptr)
	if err != nil {
		return err
	}
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}
		name, skip := fieldName(sf, tag)
		if skip {
			continue
		}
		vals := lookup(name)
		if len(vals) == 0 {
			continue
		}
		if err := setField(field, vals); err != nil {
			return &fieldError{name: name, err: err}
		}
	}
	return nil
}

// fieldName returns the input key for sf. Untagged fields use the lower-cased
// field name.
func fieldName(sf reflect.StructField, tag string) (string, bool) {
	t := sf.Tag.Get(tag)
	switch t {
	case "-":
		return "", true
	case "":
		return strings.ToLower(sf.Name), false
	}
	name, _, _ := strings.Cut(t, ",")
	return name, name == ""
}

func setField(field reflect.Value, values []string) error {
	switch field.Kind() {
	case reflect.Pointer:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setField(field.Elem(), values)

	case reflect.Slice:
		var all []string
		for _, v := range values {
			for part := range strings.SplitSeq(v, ",") {
				all = append(all, strings.TrimSpace(part))
			}
		}
		slice := reflect.MakeSlice(field.Type(), len(all), len(all))
		for i, v := range all {
			if err := setScalar(slice.Index(i), v); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}
	return setScalar(field, values[0])
}

func setScalar(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(clean(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidValue, value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("%w: unsupported kind %s", ErrInvalidValue, field.Kind())
	}
	return nil
}

// parseBool also accepts the checkbox spellings on/off and yes/no.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, value)
	}
	return b, nil
}

// clean drops NUL and control characters other than tab and line breaks.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if r < ' ' || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
