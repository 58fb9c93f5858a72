package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	app "salesorders/internal/application/order"
	domain "salesorders/internal/domain/order"
)

type OrderHandler struct {
	svc *app.Service
}

func NewOrderHandler(svc *app.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	SellerID string `json:"seller_id" binding:"required"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.CreateOrder(c.Request.Context(), req.ClientID, req.SellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.svc.GetOrderWithLines(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// ListOrders supports filtering by client_id, seller_id or status; the
// filters are exclusive and checked in that order.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()

	var orders []*domain.Order
	var err error
	switch {
	case c.Query("client_id") != "":
		orders, err = h.svc.ListByClient(ctx, c.Query("client_id"))
	case c.Query("seller_id") != "":
		orders, err = h.svc.ListBySeller(ctx, c.Query("seller_id"))
	case c.Query("status") != "":
		orders, err = h.svc.ListByStatus(ctx, c.Query("status"))
	default:
		orders, err = h.svc.ListAll(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

type updateOrderRequest struct {
	Notes    *string `json:"notes"`
	ClientID *string `json:"client_id"`
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.UpdateOrder(c.Request.Context(), c.Param("id"), app.UpdatePatch{
		Notes:    req.Notes,
		ClientID: req.ClientID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// Named transition endpoints; thin wrappers over the same state machine.

func (h *OrderHandler) StartAddingProducts(c *gin.Context) {
	h.transition(c, h.svc.StartAddingProducts)
}

func (h *OrderHandler) MarkAvailableForPayment(c *gin.Context) {
	h.transition(c, h.svc.MarkAvailableForPayment)
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.svc.MarkPaid)
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.svc.MarkDelivered)
}

func (h *OrderHandler) CloseOrder(c *gin.Context) {
	h.transition(c, h.svc.Close)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, id string) (*domain.Order, error)) {
	o, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

type applyDiscountRequest struct {
	Percentage float64 `json:"percentage" binding:"required"`
}

func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.ApplyDiscount(c.Request.Context(), c.Param("id"), req.Percentage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.svc.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
