package models

import (
	"fmt"

	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// ValidationError reports a record that cannot be saved.
type ValidationError struct {
	Model  string
	Errors validate.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Model, e.Errors.Error())
}

// Validate runs the presence rules and, when strict, the range policy.
func (v Variant) Validate(strict bool) error {
	return check("Variant", v, strict)
}

// Validate runs the presence rules and, when strict, the range policy.
func (p Product) Validate(strict bool) error {
	return check("Product", p, strict)
}

// ValidatePolicy checks only the range policy of the fields f sets.
func (f VariantFields) ValidatePolicy() error {
	if errs := validate.StructTag(f, "policy"); len(errs) > 0 {
		return &ValidationError{Model: "Variant", Errors: errs}
	}
	return nil
}

func check(model string, v interface{}, strict bool) error {
	errs := validate.StructTag(v, "validate")
	if strict {
		errs = append(errs, validate.StructTag(v, "policy")...)
	}
	if len(errs) > 0 {
		return &ValidationError{Model: model, Errors: errs}
	}
	return nil
}
