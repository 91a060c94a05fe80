package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserListResponse struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

type userResponse struct {
	User User `json:"user"`
}

func (c *Client) ListUsers(ctx context.Context, params ListParams) (*UserListResponse, error) {
	result := &UserListResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return params.apply(r).Get("/users")
	})

	return result, err
}

func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	result := &userResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("userId", userID).Get("/users/{userId}")
	})

	return result.User, err
}

// SetUserBlocked blocks or unblocks a customer account.
func (c *Client) SetUserBlocked(ctx context.Context, userID string, blocked bool) error {
	_, err := c.do(ctx, nil, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("userId", userID).
			SetBody(map[string]bool{"blocked": blocked}).
			Patch("/users/{userId}/blocked")
	})

	return err
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	_, err := c.do(ctx, nil, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("userId", userID).Delete("/users/{userId}")
	})

	return err
}
