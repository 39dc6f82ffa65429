package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is a purchasable configuration of a product (size, colour, ...).
// It lives in its own collection and is referenced from Product.VariantIDs.
type Variant struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"  json:"_id"`
	Name           string             `bson:"name"           json:"name"           validate:"required"`
	SKU            string             `bson:"SKU"            json:"SKU"            validate:"required"`
	AdditionalCost float64            `bson:"additionalCost" json:"additionalCost" policy:"gte=0"`
	Stock          float64            `bson:"stock"          json:"stock"          policy:"gte=0"`
}

// VariantFields is the request shape for a variant. Every field is optional
// so the same type serves creation (with defaults) and partial updates.
type VariantFields struct {
	ID             string   `json:"_id,omitempty"`
	Name           *string  `json:"name,omitempty"`
	SKU            *string  `json:"SKU,omitempty"`
	AdditionalCost *float64 `json:"additionalCost,omitempty" policy:"gte=0"`
	Stock          *float64 `json:"stock,omitempty"          policy:"gte=0"`
}

// NewVariant builds a record from f. additionalCost and stock default to 0.
func (f VariantFields) NewVariant() Variant {
	var v Variant
	if f.Name != nil {
		v.Name = *f.Name
	}
	if f.SKU != nil {
		v.SKU = *f.SKU
	}
	if f.AdditionalCost != nil {
		v.AdditionalCost = *f.AdditionalCost
	}
	if f.Stock != nil {
		v.Stock = *f.Stock
	}
	return v
}

// Empty reports whether f carries no field to change.
func (f VariantFields) Empty() bool {
	return f.Name == nil && f.SKU == nil && f.AdditionalCost == nil && f.Stock == nil
}

// ApplyTo overwrites the fields of v that f sets.
func (f VariantFields) ApplyTo(v *Variant) {
	if f.Name != nil {
		v.Name = *f.Name
	}
	if f.SKU != nil {
		v.SKU = *f.SKU
	}
	if f.AdditionalCost != nil {
		v.AdditionalCost = *f.AdditionalCost
	}
	if f.Stock != nil {
		v.Stock = *f.Stock
	}
}

// SetDoc returns the $set document for the fields f sets.
func (f VariantFields) SetDoc() bson.M {
	set := bson.M{}
	if f.Name != nil {
		set["name"] = *f.Name
	}
	if f.SKU != nil {
		set["SKU"] = *f.SKU
	}
	if f.AdditionalCost != nil {
		set["additionalCost"] = *f.AdditionalCost
	}
	if f.Stock != nil {
		set["stock"] = *f.Stock
	}
	return set
}
