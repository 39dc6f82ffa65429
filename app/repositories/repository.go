// Package repositories holds the store accessors for products and variants.
// MongoDB is the production store; the memory store implements the same
// contract for tests and for local runs started with MONGO_URI=memory.
package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/models"
)

// ErrNotFound is returned when no record matches an id. Ids that are not
// valid ObjectIDs cannot match anything and also yield ErrNotFound.
var ErrNotFound = errors.New("record not found")

// VariantStore persists Variant records.
type VariantStore interface {
	// Create assigns an id when v has none and inserts it.
	Create(ctx context.Context, v *models.Variant) error
	FindByID(ctx context.Context, id string) (models.Variant, error)
	// FindMany returns the variants whose ids are listed, in no particular order.
	FindMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Variant, error)
	// UpdateByID applies the set fields and returns the updated record.
	UpdateByID(ctx context.Context, id string, f models.VariantFields) (models.Variant, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// ProductStore persists Product records.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	// FindAll returns every product with Variants resolved in reference order.
	// References to missing variants are skipped.
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	// UpdateByID overwrites name, description, price and the variant list.
	UpdateByID(ctx context.Context, p models.Product) error
	DeleteByID(ctx context.Context, id string) error
	// PullVariant removes variantID from every product referencing it and
	// returns how many products changed.
	PullVariant(ctx context.Context, variantID primitive.ObjectID) (int64, error)
}

// ParseID converts a hex id, mapping malformed input to ErrNotFound.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func variantKey(v models.Variant) primitive.ObjectID { return v.ID }

func productRefs(p models.Product) []primitive.ObjectID { return p.VariantIDs }

var (
	_ VariantStore = (*VariantRepository)(nil)
	_ VariantStore = (*MemoryVariantStore)(nil)
	_ ProductStore = (*ProductRepository)(nil)
	_ ProductStore = (*MemoryProductStore)(nil)
)
