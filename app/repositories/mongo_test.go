package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/shashiranjanraj/catalog/app/models"
)

func ptr[T any](v T) *T { return &v }

func variantDoc(id primitive.ObjectID, name, sku string, stock float64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "SKU", Value: sku},
		{Key: "additionalCost", Value: 0.0},
		{Key: "stock", Value: stock},
	}
}

func TestVariantRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		v := models.Variant{Name: "Small", SKU: "SH-S"}
		require.NoError(mt, repo.Create(ctx, &v))
		assert.False(mt, v.ID.IsZero())

		cmd := mt.GetStartedEvent()
		require.NotNil(mt, cmd)
		assert.Equal(mt, "insert", cmd.CommandName)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.variants", mtest.FirstBatch,
			variantDoc(id, "Small", "SH-S", 5)))

		v, err := repo.FindByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, models.Variant{ID: id, Name: "Small", SKU: "SH-S", Stock: 5}, v)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.variants", mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)

		_, err := repo.FindByID(ctx, "not-an-id")
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("update returns the new document", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: variantDoc(id, "Small", "SH-S", 9)},
		))

		v, err := repo.UpdateByID(ctx, id.Hex(), models.VariantFields{Stock: ptr(9.0)})
		require.NoError(mt, err)
		assert.Equal(mt, 9.0, v.Stock)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := repo.UpdateByID(ctx, primitive.NewObjectID().Hex(), models.VariantFields{Stock: ptr(1.0)})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		assert.NoError(mt, repo.DeleteByID(ctx, primitive.NewObjectID().Hex()))
		assert.ErrorIs(mt, repo.DeleteByID(ctx, primitive.NewObjectID().Hex()), ErrNotFound)
	})

	mt.Run("delete many", func(mt *mtest.T) {
		repo := NewVariantRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))

		n, err := repo.DeleteMany(ctx, []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()})
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, n)

		n, err = repo.DeleteMany(ctx, nil)
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})
}

func TestProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find all resolves variants in reference order", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		pid := primitive.NewObjectID()
		small, large, gone := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: pid},
				{Key: "name", Value: "Shirt"},
				{Key: "description", Value: ""},
				{Key: "price", Value: 20.0},
				{Key: "variants", Value: bson.A{large, gone, small}},
			}),
			mtest.CreateCursorResponse(0, "test.variants", mtest.FirstBatch,
				variantDoc(small, "Small", "SH-S", 5),
				variantDoc(large, "Large", "SH-L", 2),
			),
		)

		products, err := repo.FindAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, products, 1)
		assert.Equal(mt, "Shirt", products[0].Name)
		require.Len(mt, products[0].Variants, 2)
		assert.Equal(mt, "Large", products[0].Variants[0].Name)
		assert.Equal(mt, "Small", products[0].Variants[1].Name)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateByID(ctx, models.Product{ID: primitive.NewObjectID(), Name: "Shirt"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("pull variant reports modified products", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		n, err := repo.PullVariant(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, n)

		cmd := mt.GetStartedEvent()
		require.NotNil(mt, cmd)
		assert.Equal(mt, "update", cmd.CommandName)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(ctx))
	})

	mt.Run("driver errors are wrapped", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Message: "bad value", Name: "BadValue",
		}))

		_, err := repo.FindByID(ctx, primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
		assert.Contains(mt, err.Error(), "products: find")
	})
}
