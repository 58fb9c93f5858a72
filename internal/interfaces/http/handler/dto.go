package handler

import (
	domain "salesorders/internal/domain/order"
	product "salesorders/internal/domain/product"
)

type orderResponse struct {
	ID          string         `json:"id"`
	OrderNumber string         `json:"order_number"`
	ClientID    string         `json:"client_id"`
	SellerID    string         `json:"seller_id"`
	Status      string         `json:"status"`
	Lines       []lineResponse `json:"lines,omitempty"`
	Subtotal    float64        `json:"subtotal"`
	Discount    float64        `json:"discount"`
	Tax         float64        `json:"tax"`
	Total       float64        `json:"total"`
	Notes       string         `json:"notes,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type lineResponse struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
	CreatedAt string  `json:"created_at"`
}

type productResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Price  float64 `json:"price"`
	Stock  int     `json:"stock"`
	Status string  `json:"status"`
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID,
		SellerID:    o.SellerID,
		Status:      o.Status.String(),
		Subtotal:    o.Subtotal,
		Discount:    o.Discount,
		Tax:         o.Tax,
		Total:       o.Total,
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:   o.UpdatedAt.UTC().Format(timeLayout),
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, toLineResponse(&l))
	}
	return resp
}

func toLineResponse(l *domain.Line) lineResponse {
	return lineResponse{
		ID:        l.ID,
		OrderID:   l.OrderID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Subtotal:  l.Subtotal,
		CreatedAt: l.CreatedAt.UTC().Format(timeLayout),
	}
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:     p.ID,
		Name:   p.Name,
		Code:   p.Code,
		Price:  p.Price,
		Stock:  p.Stock,
		Status: p.Status.String(),
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toLineResponses(lines []domain.Line) []lineResponse {
	out := make([]lineResponse, 0, len(lines))
	for i := range lines {
		out = append(out, toLineResponse(&lines[i]))
	}
	return out
}
