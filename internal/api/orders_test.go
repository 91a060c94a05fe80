package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrders(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[{"id":"o1","userId":"u1","status":"pending","total":24.90,"items":[{"productId":"p1","name":"Burana 400mg","quantity":2,"price":12.45}]}],"pagination":{"page":2,"limit":10,"totalPages":5,"totalItems":42}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	client.SetTokenSource(&fakeTokens{current: "tok"})

	resp, err := client.ListOrders(context.Background(), ListParams{Page: 2, Limit: 10}, OrderStatusPending)
	require.NoError(t, err)

	assert.Equal(t, "/orders", req.URL.Path)
	assert.Equal(t, "2", req.URL.Query().Get("page"))
	assert.Equal(t, "10", req.URL.Query().Get("limit"))
	assert.Equal(t, "pending", req.URL.Query().Get("status"))

	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "o1", resp.Orders[0].ID)
	assert.Equal(t, 24.90, resp.Orders[0].Total)
	assert.Equal(t, 42, resp.Pagination.TotalItems)
}

func TestUpdateOrderStatus(t *testing.T) {
	var req *http.Request
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order":{"id":"o1","status":"shipped"}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	client.SetTokenSource(&fakeTokens{current: "tok"})

	order, err := client.UpdateOrderStatus(context.Background(), "o1", OrderStatusShipped)
	require.NoError(t, err)

	assert.Equal(t, "/orders/o1/status", req.URL.Path)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "shipped", body["status"])
	assert.Equal(t, "shipped", order.Status)
}

func TestListProducts(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":"p1","name":"Burana 400mg","categoryId":"c1","price":8.90,"inStock":true,"requiresPrescription":false}],"pagination":{"page":1,"limit":20,"totalPages":1,"totalItems":1}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	client.SetTokenSource(&fakeTokens{current: "tok"})

	resp, err := client.ListProducts(context.Background(), ListParams{Search: "burana"}, "c1")
	require.NoError(t, err)

	assert.Equal(t, "/products", req.URL.Path)
	assert.Equal(t, "burana", req.URL.Query().Get("search"))
	assert.Equal(t, "c1", req.URL.Query().Get("category"))
	require.Len(t, resp.Products, 1)
	assert.True(t, resp.Products[0].InStock)
}

func TestReviewPrescription(t *testing.T) {
	var req *http.Request
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prescription":{"id":"rx1","status":"rejected","note":"image unreadable"}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	client.SetTokenSource(&fakeTokens{current: "tok"})

	rx, err := client.ReviewPrescription(context.Background(), "rx1", PrescriptionStatusRejected, "image unreadable")
	require.NoError(t, err)

	assert.Equal(t, "/prescriptions/rx1/review", req.URL.Path)
	assert.Equal(t, "rejected", body["status"])
	assert.Equal(t, "image unreadable", body["note"])
	assert.Equal(t, "rejected", rx.Status)
}

func TestSetUserBlocked(t *testing.T) {
	var req *http.Request
	var body map[string]bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	client.SetTokenSource(&fakeTokens{current: "tok"})

	err := client.SetUserBlocked(context.Background(), "u1", true)
	require.NoError(t, err)

	assert.Equal(t, "/users/u1/blocked", req.URL.Path)
	assert.True(t, body["blocked"])
}
