package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr[T any](v T) *T { return &v }

func TestNewVariantDefaults(t *testing.T) {
	v := VariantFields{Name: ptr("Small"), SKU: ptr("SH-S"), Stock: ptr(5.0)}.NewVariant()

	assert.Equal(t, "Small", v.Name)
	assert.Equal(t, "SH-S", v.SKU)
	assert.Equal(t, 0.0, v.AdditionalCost)
	assert.Equal(t, 5.0, v.Stock)
}

func TestVariantFieldsApplyAndSetDoc(t *testing.T) {
	f := VariantFields{Stock: ptr(-3.0), AdditionalCost: ptr(2.5)}
	v := Variant{Name: "Small", SKU: "SH-S", Stock: 10}
	f.ApplyTo(&v)

	assert.Equal(t, Variant{Name: "Small", SKU: "SH-S", AdditionalCost: 2.5, Stock: -3}, v)
	assert.Len(t, f.SetDoc(), 2)
	assert.False(t, f.Empty())
	assert.True(t, VariantFields{ID: "abc"}.Empty())
}

func TestProductJSONVariantsShape(t *testing.T) {
	vid := primitive.NewObjectID()

	withIDs := Product{Name: "Shirt", VariantIDs: []primitive.ObjectID{vid}}
	raw, err := json.Marshal(withIDs)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"variants":["`+vid.Hex()+`"]`)

	resolved := withIDs
	resolved.Variants = []Variant{{ID: vid, Name: "Small", SKU: "SH-S"}}
	raw, err = json.Marshal(resolved)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"variants":[{"_id":"`+vid.Hex()+`","name":"Small","SKU":"SH-S","additionalCost":0,"stock":0}]`)

	raw, err = json.Marshal(Product{Name: "Bare"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"variants":[]`)
}

func TestValidation(t *testing.T) {
	err := Product{}.Validate(false)
	require.Error(t, err)
	assert.Equal(t, "Product validation failed: name: The name field is required.", err.Error())

	err = Variant{Name: "Small"}.Validate(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Variant validation failed: SKU:")

	negative := Variant{Name: "Small", SKU: "SH-S", Stock: -1}
	assert.NoError(t, negative.Validate(false), "permissive by default")
	assert.Error(t, negative.Validate(true))

	assert.Error(t, VariantFields{Stock: ptr(-1.0)}.ValidatePolicy())
	assert.NoError(t, VariantFields{Name: ptr("x")}.ValidatePolicy())
}
