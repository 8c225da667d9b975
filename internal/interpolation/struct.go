package interpolation

import (
	"errors"
	"fmt"
	"reflect"
)

// TagName marks string fields that accept ${VAR} references.
const TagName = "env_interpolation"

// InterpolateStruct expands environment references in place on every string
// field tagged `env_interpolation:"yes"`. Nested structs and struct pointers
// are walked whether tagged or not.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("expected non-nil pointer to struct, got %T", v)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}

	return walk(val)
}

func walk(val reflect.Value) error {
	typ := val.Type()
	var errs []error

	for i := range val.NumField() {
		field := val.Field(i)
		sf := typ.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if sf.Tag.Get(TagName) != "yes" || field.String() == "" {
				continue
			}
			expanded, err := ExpandEnvVars(field.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", sf.Name, err))
				continue
			}
			field.SetString(expanded)

		case reflect.Struct:
			if err := walk(field); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", sf.Name, err))
			}

		case reflect.Pointer:
			if field.IsNil() || field.Elem().Kind() != reflect.Struct {
				continue
			}
			if err := walk(field.Elem()); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", sf.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}
