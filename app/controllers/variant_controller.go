package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
)

type VariantController struct {
	service *services.CatalogService
}

func NewVariantController(service *services.CatalogService) *VariantController {
	return &VariantController{service: service}
}

func (vc *VariantController) Show(c *ctx.Context) {
	variant, err := vc.service.GetVariant(c.Context(), c.Param("id"))
	if vc.notFound(c, err) {
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}

	c.OK(variant)
}

// Update applies a partial body; absent fields keep their stored values.
func (vc *VariantController) Update(c *ctx.Context) {
	var fields models.VariantFields
	if err := c.BindJSON(&fields); err != nil {
		c.Fail(err)
		return
	}

	variant, err := vc.service.UpdateVariant(c.Context(), c.Param("id"), fields)
	if vc.notFound(c, err) {
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}

	c.OK(variant)
}

func (vc *VariantController) Destroy(c *ctx.Context) {
	err := vc.service.DeleteVariant(c.Context(), c.Param("id"))
	if vc.notFound(c, err) {
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}

	c.Message(http.StatusOK, "Variant deleted successfully")
}

func (vc *VariantController) notFound(c *ctx.Context, err error) bool {
	if errors.Is(err, services.ErrVariantNotFound) {
		c.NotFound(err.Error())
		return true
	}
	return false
}
