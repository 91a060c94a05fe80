package api

import (
	"context"

	"github.com/go-resty/resty/v2"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type categoryListResponse struct {
	Categories []Category `json:"categories"`
}

type categoryResponse struct {
	Category Category `json:"category"`
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	result := &categoryListResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/categories")
	})

	return result.Categories, err
}

func (c *Client) CreateCategory(ctx context.Context, name, description string) (Category, error) {
	result := &categoryResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]string{"name": name, "description": description}).
			Post("/categories")
	})

	return result.Category, err
}

func (c *Client) UpdateCategory(ctx context.Context, categoryID, name, description string) (Category, error) {
	result := &categoryResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("categoryId", categoryID).
			SetBody(map[string]string{"name": name, "description": description}).
			Put("/categories/{categoryId}")
	})

	return result.Category, err
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID string) error {
	_, err := c.do(ctx, nil, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("categoryId", categoryID).Delete("/categories/{categoryId}")
	})

	return err
}
