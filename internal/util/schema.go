package util

import (
	"reflect"
	"strings"
)

// CreateSchema builds a structured-output schema from a Go struct using
// reflection. The schema is the field-name → type-descriptor mapping the
// request engine embeds textually in prompts: "string", "number", a nested
// mapping for struct/map fields, or ["string"] for slices.
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return map[string]any{}
	}

	schema := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
		}

		schema[fieldName] = descriptor(field.Type)
	}

	return schema
}

// descriptor returns the type descriptor for a Go type.
func descriptor(t reflect.Type) any {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return []any{descriptor(t.Elem())}
	case reflect.Struct:
		properties := make(map[string]any)
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
				if parts := strings.Split(tag, ","); parts[0] != "" {
					name = parts[0]
				}
			}
			properties[name] = descriptor(field.Type)
		}
		return properties
	case reflect.Map:
		return map[string]any{}
	case reflect.Ptr:
		return descriptor(t.Elem())
	default:
		return "string"
	}
}
