package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// ProductCollection is the collection products are stored in.
const ProductCollection = "products"

// ProductRepository is the MongoDB ProductStore. It reads the variants
// collection directly to resolve references on FindAll.
type ProductRepository struct {
	col      *mongo.Collection
	variants *VariantRepository
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		col:      db.Collection(ProductCollection),
		variants: NewVariantRepository(db),
	}
}

// EnsureIndexes creates the index used to find a variant's owner.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "variants", Value: 1}},
		Options: options.Index().SetName("variants_1"),
	})
	if err != nil {
		return fmt.Errorf("products: create index: %w", err)
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery(ProductCollection, "insert", time.Now())

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.VariantIDs == nil {
		p.VariantIDs = []primitive.ObjectID{}
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	start := time.Now()
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("products: find: %w", err)
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products: decode: %w", err)
	}
	metrics.ObserveDBQuery(ProductCollection, "find", start)

	refs := collection.Unique(collection.FlatMap(products, productRefs))
	found, err := r.variants.FindMany(ctx, refs)
	if err != nil {
		return nil, err
	}

	byID := collection.KeyBy(found, variantKey)
	for i := range products {
		products[i].Variants = collection.Resolve(products[i].VariantIDs, byID)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	defer metrics.ObserveDBQuery(ProductCollection, "find", time.Now())

	var p models.Product
	oid, err := ParseID(id)
	if err != nil {
		return p, err
	}

	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return p, ErrNotFound
		}
		return p, fmt.Errorf("products: find %s: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) UpdateByID(ctx context.Context, p models.Product) error {
	defer metrics.ObserveDBQuery(ProductCollection, "update", time.Now())

	refs := p.VariantIDs
	if refs == nil {
		refs = []primitive.ObjectID{}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"variants":    refs,
	}})
	if err != nil {
		return fmt.Errorf("products: update %s: %w", p.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id string) error {
	defer metrics.ObserveDBQuery(ProductCollection, "delete", time.Now())

	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("products: delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) PullVariant(ctx context.Context, variantID primitive.ObjectID) (int64, error) {
	defer metrics.ObserveDBQuery(ProductCollection, "update", time.Now())

	res, err := r.col.UpdateMany(ctx,
		bson.M{"variants": variantID},
		bson.M{"$pull": bson.M{"variants": variantID}},
	)
	if err != nil {
		return 0, fmt.Errorf("products: pull variant %s: %w", variantID.Hex(), err)
	}
	return res.ModifiedCount, nil
}
