package routes

import (
	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// RegisterAPI mounts the catalog under /products.
func RegisterAPI(r *router.Router, catalog *services.CatalogService) {
	productController := controllers.NewProductController(catalog)
	variantController := controllers.NewVariantController(catalog)

	products := r.Group("/products")
	products.Post("/", "products.store", ctx.Wrap(productController.Store))
	products.Get("/", "products.index", ctx.Wrap(productController.Index))
	products.Put("/{id}", "products.update", ctx.Wrap(productController.Update))
	products.Delete("/{id}", "products.destroy", ctx.Wrap(productController.Destroy))

	variants := products.Group("/variants")
	variants.Get("/{id}", "variants.show", ctx.Wrap(variantController.Show))
	variants.Put("/{id}", "variants.update", ctx.Wrap(variantController.Update))
	variants.Delete("/{id}", "variants.destroy", ctx.Wrap(variantController.Destroy))
}
