// Package validate provides struct-tag validation.
//
// Supported rules (comma-separated in the tag):
//
//	required    field must not be zero/empty (numbers: any value is present)
//	gte=N       number >= N
//
// Rules are read from whichever tag StructTag is given, so a second rule set
// (e.g. `policy`) can be switched on separately:
//
//	type Variant struct {
//	    Name  string  `json:"name"  validate:"required"`
//	    Stock float64 `json:"stock" policy:"gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Errors lists failures in struct field order.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, ", ")
}

// StructTag validates v against the rules found under tag.
func StructTag(v interface{}, tag string) Errors {
	var errs Errors
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		rules := field.Tag.Get(tag)
		if rules == "" {
			continue
		}

		name := jsonFieldName(field)
		value := rv.Field(i)

		for _, rule := range strings.Split(rules, ",") {
			if msg := applyRule(strings.TrimSpace(rule), name, value); msg != "" {
				errs = append(errs, FieldError{Field: name, Message: msg})
				break
			}
		}
	}

	return errs
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			if rule == "required" {
				return fmt.Sprintf("The %s field is required.", field)
			}
			return ""
		}
		v = v.Elem()
	}

	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if !isNumericKind(v) && isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "gte":
		n, _ := strconv.ParseFloat(strings.TrimSpace(param), 64)
		if isNumericKind(v) && toFloat(v) < n {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Interface:
		return v.IsNil()
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	if v.CanInt() {
		return float64(v.Int())
	}
	return v.Float()
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return f.Name
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}
