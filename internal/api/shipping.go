package api

import (
	"context"

	"github.com/go-resty/resty/v2"
)

type ShippingZone struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

type ShippingSettings struct {
	BaseFee               float64        `json:"baseFee"`
	FreeShippingThreshold float64        `json:"freeShippingThreshold"`
	Zones                 []ShippingZone `json:"zones,omitempty"`
}

type shippingResponse struct {
	Settings ShippingSettings `json:"settings"`
}

func (c *Client) GetShippingSettings(ctx context.Context) (ShippingSettings, error) {
	result := &shippingResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/settings/shipping")
	})

	return result.Settings, err
}

func (c *Client) UpdateShippingSettings(ctx context.Context, settings ShippingSettings) (ShippingSettings, error) {
	result := &shippingResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(settings).Put("/settings/shipping")
	})

	return result.Settings, err
}
