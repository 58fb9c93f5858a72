package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	app "salesorders/internal/application/orderline"
	"salesorders/internal/domain/apperror"
)

type OrderLineHandler struct {
	svc *app.Service
}

func NewOrderLineHandler(svc *app.Service) *OrderLineHandler {
	return &OrderLineHandler{svc: svc}
}

type createLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (h *OrderLineHandler) CreateLine(c *gin.Context) {
	var req createLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, err := h.svc.CreateLine(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLineResponse(line))
}

func (h *OrderLineHandler) ListLines(c *gin.Context) {
	lines, err := h.svc.ListLinesForOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLineResponses(lines))
}

func (h *OrderLineHandler) GetLine(c *gin.Context) {
	line, err := h.svc.GetLine(c.Request.Context(), c.Param("lineId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLineResponse(line))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *OrderLineHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, err := h.svc.UpdateQuantity(c.Request.Context(), c.Param("lineId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLineResponse(line))
}

type updateLineRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *OrderLineHandler) UpdateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, err := h.svc.UpdateLine(c.Request.Context(), c.Param("lineId"), app.UpdatePatch{
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLineResponse(line))
}

func (h *OrderLineHandler) DeleteLine(c *gin.Context) {
	if err := h.svc.DeleteLine(c.Request.Context(), c.Param("lineId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteLineByProduct removes the line an order holds for a product,
// without the caller needing to know the line id.
func (h *OrderLineHandler) DeleteLineByProduct(c *gin.Context) {
	err := h.svc.DeleteLineByOrderAndProduct(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateStock is the pre-flight availability check for a product and
// quantity, so clients can verify a cart entry before creating the line.
func (h *OrderLineHandler) ValidateStock(c *gin.Context) {
	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil {
		respondError(c, apperror.InvalidArgumentError{Reason: "quantity must be an integer"})
		return
	}

	if err := h.svc.ValidateStockAvailable(c.Request.Context(), c.Param("id"), quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}
