package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	PrescriptionStatusPending  = "pending"
	PrescriptionStatusApproved = "approved"
	PrescriptionStatusRejected = "rejected"
)

type Prescription struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Status     string     `json:"status"`
	ImageURL   string     `json:"imageUrl"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
}

type PrescriptionListResponse struct {
	Prescriptions []Prescription `json:"prescriptions"`
	Pagination    Pagination     `json:"pagination"`
}

type prescriptionResponse struct {
	Prescription Prescription `json:"prescription"`
}

func (c *Client) ListPrescriptions(ctx context.Context, params ListParams, status string) (*PrescriptionListResponse, error) {
	result := &PrescriptionListResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		params.apply(r)
		if status != "" {
			r.SetQueryParam("status", status)
		}
		return r.Get("/prescriptions")
	})

	return result, err
}

func (c *Client) GetPrescription(ctx context.Context, prescriptionID string) (Prescription, error) {
	result := &prescriptionResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("prescriptionId", prescriptionID).Get("/prescriptions/{prescriptionId}")
	})

	return result.Prescription, err
}

// ReviewPrescription approves or rejects a prescription. The note is shown
// to the customer, so rejections should always carry one.
func (c *Client) ReviewPrescription(ctx context.Context, prescriptionID, status, note string) (Prescription, error) {
	result := &prescriptionResponse{}

	_, err := c.do(ctx, result, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("prescriptionId", prescriptionID).
			SetBody(map[string]string{"status": status, "note": note}).
			Patch("/prescriptions/{prescriptionId}/review")
	})

	return result.Prescription, err
}
