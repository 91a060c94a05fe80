package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Order statuses as the backend reports them.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	ShippingFee float64     `json:"shippingFee"`
	Address     string      `json:"address,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

type orderResponse struct {
	Order Order `json:"order"`
}

// ListOrders supports the orders toolbar: pagination plus a status filter.
func (c *Client) ListOrders(ctx context.Context, params ListParams, status string) (*OrderListResponse, error) {
	result := &OrderListResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		params.apply(r)
		if status != "" {
			r.SetQueryParam("status", status)
		}
		return r.Get("/orders")
	})

	return result, err
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (Order, error) {
	result := &orderResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderId", orderID).Get("/orders/{orderId}")
	})

	return result.Order, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (Order, error) {
	result := &orderResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("orderId", orderID).
			SetBody(map[string]string{"status": status}).
			Patch("/orders/{orderId}/status")
	})

	return result.Order, err
}
