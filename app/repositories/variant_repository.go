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
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// VariantCollection is the collection variants are stored in.
const VariantCollection = "variants"

// VariantRepository is the MongoDB VariantStore.
type VariantRepository struct {
	col *mongo.Collection
}

func NewVariantRepository(db *mongo.Database) *VariantRepository {
	return &VariantRepository{col: db.Collection(VariantCollection)}
}

func (r *VariantRepository) Create(ctx context.Context, v *models.Variant) error {
	defer metrics.ObserveDBQuery(VariantCollection, "insert", time.Now())

	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("variants: insert: %w", err)
	}
	return nil
}

func (r *VariantRepository) FindByID(ctx context.Context, id string) (models.Variant, error) {
	defer metrics.ObserveDBQuery(VariantCollection, "find", time.Now())

	var v models.Variant
	oid, err := ParseID(id)
	if err != nil {
		return v, err
	}

	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return v, ErrNotFound
		}
		return v, fmt.Errorf("variants: find %s: %w", id, err)
	}
	return v, nil
}

func (r *VariantRepository) FindMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Variant, error) {
	defer metrics.ObserveDBQuery(VariantCollection, "find", time.Now())

	out := []models.Variant{}
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("variants: find many: %w", err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("variants: decode: %w", err)
	}
	return out, nil
}

func (r *VariantRepository) UpdateByID(ctx context.Context, id string, f models.VariantFields) (models.Variant, error) {
	if f.Empty() {
		return r.FindByID(ctx, id)
	}
	defer metrics.ObserveDBQuery(VariantCollection, "update", time.Now())

	var v models.Variant
	oid, err := ParseID(id)
	if err != nil {
		return v, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": f.SetDoc()}, opts).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return v, ErrNotFound
		}
		return v, fmt.Errorf("variants: update %s: %w", id, err)
	}
	return v, nil
}

func (r *VariantRepository) DeleteByID(ctx context.Context, id string) error {
	defer metrics.ObserveDBQuery(VariantCollection, "delete", time.Now())

	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("variants: delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VariantRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	defer metrics.ObserveDBQuery(VariantCollection, "delete", time.Now())

	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("variants: delete many: %w", err)
	}
	return res.DeletedCount, nil
}
