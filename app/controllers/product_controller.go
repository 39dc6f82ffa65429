package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
)

type ProductController struct {
	service *services.CatalogService
}

func NewProductController(service *services.CatalogService) *ProductController {
	return &ProductController{service: service}
}

// Store handles POST /products.
func (pc *ProductController) Store(c *ctx.Context) {
	var input models.ProductInput
	if err := c.BindJSON(&input); err != nil {
		c.Fail(err)
		return
	}

	product, err := pc.service.CreateProduct(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}

	c.Created(product)
}

// Index handles GET /products.
func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.service.ListProducts(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}

	c.OK(products)
}

// Update handles PUT /products/{id}.
func (pc *ProductController) Update(c *ctx.Context) {
	var input models.ProductInput
	if err := c.BindJSON(&input); err != nil {
		c.Fail(err)
		return
	}

	product, err := pc.service.UpdateProduct(c.Context(), c.Param("id"), input)
	if errors.Is(err, services.ErrProductNotFound) {
		c.NotFound(err.Error())
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}

	c.OK(product)
}

// Destroy handles DELETE /products/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	err := pc.service.DeleteProduct(c.Context(), c.Param("id"))
	if errors.Is(err, services.ErrProductNotFound) {
		c.NotFound(err.Error())
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}

	c.Message(http.StatusOK, "Product deleted successfully")
}
