package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"categoryId"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount,omitempty"`
	InStock     bool      `json:"inStock"`
	RequiresRx  bool      `json:"requiresPrescription"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput is the create/update payload.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	CategoryID  string  `json:"categoryId"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount,omitempty"`
	InStock     bool    `json:"inStock"`
	RequiresRx  bool    `json:"requiresPrescription"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type ProductListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

type productResponse struct {
	Product Product `json:"product"`
}

// ListProducts supports the catalog toolbar: pagination, free-text search
// and category filtering.
func (c *Client) ListProducts(ctx context.Context, params ListParams, categoryID string) (*ProductListResponse, error) {
	result := &ProductListResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		params.apply(r)
		if categoryID != "" {
			r.SetQueryParam("category", categoryID)
		}
		return r.Get("/products")
	})

	return result, err
}

func (c *Client) GetProduct(ctx context.Context, productID string) (Product, error) {
	result := &productResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("productId", productID).Get("/products/{productId}")
	})

	return result.Product, err
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (Product, error) {
	result := &productResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(input).Post("/products")
	})

	return result.Product, err
}

func (c *Client) UpdateProduct(ctx context.Context, productID string, input ProductInput) (Product, error) {
	result := &productResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("productId", productID).
			SetBody(input).
			Put("/products/{productId}")
	})

	return result.Product, err
}

// SetProductStock toggles the in-stock flag without touching other fields.
func (c *Client) SetProductStock(ctx context.Context, productID string, inStock bool) error {
	_, err := c.do(ctx, nil, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("productId", productID).
			SetBody(map[string]bool{"inStock": inStock}).
			Patch("/products/{productId}/stock")
	})

	return err
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	_, err := c.do(ctx, nil, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("productId", productID).Delete("/products/{productId}")
	})

	return err
}
