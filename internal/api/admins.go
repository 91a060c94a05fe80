package api

import (
	"context"

	"github.com/go-resty/resty/v2"
)

type AdminAccount struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID string `json:"roleId"`
	Active bool   `json:"active"`
}

type AdminInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	RoleID   string `json:"roleId"`
}

type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type adminListResponse struct {
	Admins []AdminAccount `json:"admins"`
}

type adminResponse struct {
	Admin AdminAccount `json:"admin"`
}

type roleListResponse struct {
	Roles []Role `json:"roles"`
}

type roleResponse struct {
	Role Role `json:"role"`
}

func (c *Client) ListAdmins(ctx context.Context) ([]AdminAccount, error) {
	result := &adminListResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/admins")
	})

	return result.Admins, err
}

func (c *Client) CreateAdmin(ctx context.Context, input AdminInput) (AdminAccount, error) {
	result := &adminResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(input).Post("/admins")
	})

	return result.Admin, err
}

func (c *Client) UpdateAdmin(ctx context.Context, adminID string, input AdminInput) (AdminAccount, error) {
	result := &adminResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("adminId", adminID).
			SetBody(input).
			Put("/admins/{adminId}")
	})

	return result.Admin, err
}

func (c *Client) DeleteAdmin(ctx context.Context, adminID string) error {
	_, err := c.do(ctx, nil, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("adminId", adminID).Delete("/admins/{adminId}")
	})

	return err
}

func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	result := &roleListResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/roles")
	})

	return result.Roles, err
}

func (c *Client) CreateRole(ctx context.Context, name string, permissions []string) (Role, error) {
	result := &roleResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]any{"name": name, "permissions": permissions}).
			Post("/roles")
	})

	return result.Role, err
}

func (c *Client) UpdateRole(ctx context.Context, roleID, name string, permissions []string) (Role, error) {
	result := &roleResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("roleId", roleID).
			SetBody(map[string]any{"name": name, "permissions": permissions}).
			Put("/roles/{roleId}")
	})

	return result.Role, err
}
