package seeders

import (
	"context"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/services"
)

func init() {
	Register("catalog", SeedCatalog)
}

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

// SampleCatalog is the product set inserted by SeedCatalog.
func SampleCatalog() []models.ProductInput {
	return []models.ProductInput{
		{
			Name:  "Shirt",
			Price: 20,
			Variants: []models.VariantFields{
				{Name: str("Small"), SKU: str("SH-S"), Stock: num(5)},
				{Name: str("Medium"), SKU: str("SH-M"), Stock: num(8)},
				{Name: str("Large"), SKU: str("SH-L"), AdditionalCost: num(2), Stock: num(3)},
			},
		},
		{
			Name:        "Mug",
			Description: "Ceramic, 350ml",
			Price:       8.5,
		},
	}
}

func SeedCatalog(ctx context.Context, catalog *services.CatalogService) error {
	for _, in := range SampleCatalog() {
		if _, err := catalog.CreateProduct(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
