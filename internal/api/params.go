package api

import (
	"strconv"

	"github.com/go-resty/resty/v2"
)

// ListParams are the common pagination and search controls used by the
// back-office list endpoints.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Pagination echoes the backend's paging envelope.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

func (p ListParams) apply(r *resty.Request) *resty.Request {
	if p.Page > 0 {
		r.SetQueryParam("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		r.SetQueryParam("search", p.Search)
	}
	return r
}
