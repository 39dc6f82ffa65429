package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalogue entry. VariantIDs is what is stored; Variants holds
// the resolved records when the product was read with its variants joined
// or has just been created with them.
type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name"          json:"name"  validate:"required"`
	Description string               `bson:"description"   json:"description"`
	Price       float64              `bson:"price"         json:"price" policy:"gte=0"`
	VariantIDs  []primitive.ObjectID `bson:"variants"      json:"-"`
	Variants    []Variant            `bson:"-"             json:"-"`
}

// MarshalJSON writes "variants" as full objects when they are resolved and
// as bare ids otherwise.
func (p Product) MarshalJSON() ([]byte, error) {
	out := struct {
		ID          primitive.ObjectID `json:"_id"`
		Name        string             `json:"name"`
		Description string             `json:"description"`
		Price       float64            `json:"price"`
		Variants    interface{}        `json:"variants"`
	}{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}

	switch {
	case p.Variants != nil:
		out.Variants = p.Variants
	case p.VariantIDs != nil:
		out.Variants = p.VariantIDs
	default:
		out.Variants = []primitive.ObjectID{}
	}

	return json.Marshal(out)
}

// ProductInput is the request body for create and update.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Variants    []VariantFields `json:"variants"`
}
