package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salesorders/internal/domain/apperror"
	"salesorders/internal/domain/repository"
)

// ProductHandler exposes the read side of the product catalog that the
// ordering flow depends on.
type ProductHandler struct {
	products repository.ProductRepository
}

func NewProductHandler(products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	p, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if p == nil {
		respondError(c, apperror.NotFoundError{Entity: "product", ID: id})
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}
