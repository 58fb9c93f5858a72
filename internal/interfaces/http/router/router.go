package router

import (
	"github.com/gin-gonic/gin"

	"salesorders/internal/interfaces/http/handler"
)

func RegisterRoutes(
	r *gin.Engine,
	orders *handler.OrderHandler,
	lines *handler.OrderLineHandler,
	products *handler.ProductHandler,
) {
	api := r.Group("/api")
	{
		api.POST("/orders", orders.CreateOrder)
		api.GET("/orders", orders.ListOrders)
		api.GET("/orders/:id", orders.GetOrder)
		api.PATCH("/orders/:id", orders.UpdateOrder)
		api.DELETE("/orders/:id", orders.DeleteOrder)

		api.PUT("/orders/:id/status", orders.ChangeStatus)
		api.POST("/orders/:id/adding-products", orders.StartAddingProducts)
		api.POST("/orders/:id/available-for-payment", orders.MarkAvailableForPayment)
		api.POST("/orders/:id/paid", orders.MarkPaid)
		api.POST("/orders/:id/delivered", orders.MarkDelivered)
		api.POST("/orders/:id/closed", orders.CloseOrder)

		api.POST("/orders/:id/discount", orders.ApplyDiscount)

		api.POST("/orders/:id/lines", lines.CreateLine)
		api.GET("/orders/:id/lines", lines.ListLines)
		api.DELETE("/orders/:id/lines/product/:productId", lines.DeleteLineByProduct)

		api.GET("/order-lines/:lineId", lines.GetLine)
		api.PATCH("/order-lines/:lineId", lines.UpdateLine)
		api.PUT("/order-lines/:lineId/quantity", lines.UpdateQuantity)
		api.DELETE("/order-lines/:lineId", lines.DeleteLine)

		api.GET("/products/:id", products.GetProduct)
		api.GET("/products/:id/stock", lines.ValidateStock)
	}
}
