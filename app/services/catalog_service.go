// Package services orchestrates product and variant writes across the two
// stores. Multi-record operations run as ordered steps with no rollback:
//
//	create product  variants, then product
//	update product  variant updates/creates, then product
//	delete product  variants, then product
//	delete variant  detach from products, then variant
//
// A failure after the first committed step leaves the earlier writes in
// place. Those windows are logged at warn level and counted in
// catalog_cascade_failures_total.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

var (
	ErrProductNotFound = errors.New("Product not found")
	ErrVariantNotFound = errors.New("Variant not found")
)

// Options tunes a CatalogService.
type Options struct {
	// Strict enables the non-negative range policy on price, additionalCost
	// and stock.
	Strict bool
}

type CatalogService struct {
	products repositories.ProductStore
	variants repositories.VariantStore
	strict   bool
}

func NewCatalogService(products repositories.ProductStore, variants repositories.VariantStore, opts Options) *CatalogService {
	return &CatalogService{
		products: products,
		variants: variants,
		strict:   opts.Strict,
	}
}

// ─────────────────────────────────────────────
// Products
// ─────────────────────────────────────────────

// CreateProduct saves each input variant, then the product referencing them.
// The returned product carries the created variants as full records.
func (s *CatalogService) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	log := logger.WithCtx(ctx)

	p := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		VariantIDs:  make([]primitive.ObjectID, 0, len(in.Variants)),
		Variants:    make([]models.Variant, 0, len(in.Variants)),
	}

	for _, f := range in.Variants {
		v := f.NewVariant()
		if err := v.Validate(s.strict); err != nil {
			s.partial(ctx, "product.create", len(p.VariantIDs), err)
			return models.Product{}, err
		}
		if err := s.variants.Create(ctx, &v); err != nil {
			s.partial(ctx, "product.create", len(p.VariantIDs), err)
			return models.Product{}, err
		}
		log.Debug("variant created", "variant_id", v.ID.Hex(), "sku", v.SKU)
		p.VariantIDs = append(p.VariantIDs, v.ID)
		p.Variants = append(p.Variants, v)
	}

	if err := p.Validate(s.strict); err != nil {
		s.partial(ctx, "product.create", len(p.VariantIDs), err)
		return models.Product{}, err
	}
	if err := s.products.Create(ctx, &p); err != nil {
		s.partial(ctx, "product.create", len(p.VariantIDs), err)
		return models.Product{}, err
	}

	log.Info("product created", "product_id", p.ID.Hex(), "variants", len(p.VariantIDs))
	return p, nil
}

// ListProducts returns every product with its variants resolved.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.FindAll(ctx)
}

// UpdateProduct overwrites name, description and price with the input, even
// when the input leaves them empty. A non-empty variant list replaces the
// product's references: entries with an _id update that variant, the rest
// are created. The returned product lists variant ids.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	log := logger.WithCtx(ctx)

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, productErr(err)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price

	writes := 0
	if len(in.Variants) > 0 {
		refs := make([]primitive.ObjectID, 0, len(in.Variants))

		for _, f := range in.Variants {
			var v models.Variant
			if f.ID != "" {
				v, err = s.updateListedVariant(ctx, f)
			} else {
				v, err = s.createListedVariant(ctx, f)
			}
			if err != nil {
				s.partial(ctx, "product.update", writes, err)
				return models.Product{}, err
			}
			writes++
			refs = append(refs, v.ID)
		}

		p.VariantIDs = refs
	}

	if err := p.Validate(s.strict); err != nil {
		s.partial(ctx, "product.update", writes, err)
		return models.Product{}, err
	}
	if err := s.products.UpdateByID(ctx, p); err != nil {
		s.partial(ctx, "product.update", writes, err)
		return models.Product{}, productErr(err)
	}

	log.Info("product updated", "product_id", p.ID.Hex(), "variants", len(p.VariantIDs))
	return p, nil
}

func (s *CatalogService) updateListedVariant(ctx context.Context, f models.VariantFields) (models.Variant, error) {
	if s.strict {
		if err := f.ValidatePolicy(); err != nil {
			return models.Variant{}, err
		}
	}

	v, err := s.variants.UpdateByID(ctx, f.ID, f)
	if errors.Is(err, repositories.ErrNotFound) {
		// A listed id with no record is a request error, not a missing product.
		return models.Variant{}, fmt.Errorf("variant %s listed for update does not exist", f.ID)
	}
	return v, err
}

func (s *CatalogService) createListedVariant(ctx context.Context, f models.VariantFields) (models.Variant, error) {
	v := f.NewVariant()
	// Variants added through a product update always start with no stock.
	v.Stock = 0

	if err := v.Validate(s.strict); err != nil {
		return models.Variant{}, err
	}
	if err := s.variants.Create(ctx, &v); err != nil {
		return models.Variant{}, err
	}
	return v, nil
}

// DeleteProduct removes the product's variants, then the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return productErr(err)
	}

	n, err := s.variants.DeleteMany(ctx, p.VariantIDs)
	if err != nil {
		return err
	}
	log.Debug("variants deleted", "product_id", p.ID.Hex(), "count", n)

	if err := s.products.DeleteByID(ctx, id); err != nil {
		s.partial(ctx, "product.delete", int(n), err)
		return productErr(err)
	}

	log.Info("product deleted", "product_id", p.ID.Hex())
	return nil
}

// ─────────────────────────────────────────────
// Variants
// ─────────────────────────────────────────────

func (s *CatalogService) GetVariant(ctx context.Context, id string) (models.Variant, error) {
	v, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return models.Variant{}, variantErr(err)
	}
	return v, nil
}

// UpdateVariant applies the fields present in f.
func (s *CatalogService) UpdateVariant(ctx context.Context, id string, f models.VariantFields) (models.Variant, error) {
	if s.strict {
		if err := f.ValidatePolicy(); err != nil {
			return models.Variant{}, err
		}
	}

	v, err := s.variants.UpdateByID(ctx, id, f)
	if err != nil {
		return models.Variant{}, variantErr(err)
	}
	return v, nil
}

// DeleteVariant detaches the variant from every product that lists it, then
// deletes it.
func (s *CatalogService) DeleteVariant(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)

	v, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return variantErr(err)
	}

	n, err := s.products.PullVariant(ctx, v.ID)
	if err != nil {
		return err
	}
	log.Debug("variant detached", "variant_id", v.ID.Hex(), "products", n)

	if err := s.variants.DeleteByID(ctx, id); err != nil {
		s.partial(ctx, "variant.delete", int(n), err)
		return variantErr(err)
	}

	log.Info("variant deleted", "variant_id", v.ID.Hex())
	return nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// partial records a failure that happened after committed writes.
func (s *CatalogService) partial(ctx context.Context, op string, committed int, err error) {
	if committed == 0 {
		return
	}
	metrics.RecordCascadeFailure(op)
	logger.WithCtx(ctx).Warn("write stopped part way",
		"operation", op,
		"committed", committed,
		"error", err,
	)
}

func productErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

func variantErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrVariantNotFound
	}
	return err
}
