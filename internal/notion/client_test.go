package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-intake/internal/common"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:         "secret",
		BaseURL:        srv.URL,
		ProductsDB:     "db-products",
		CustomersDB:    "db-customers",
		OrdersDB:       "db-orders",
		OrderDetailsDB: "db-details",
	}, nil)
}

func pageJSON(w http.ResponseWriter, pages ...Page) {
	_ = json.NewEncoder(w).Encode(queryResponse{Results: pages})
}

func TestGetProductFallsBackToNameFilter(t *testing.T) {
	var filters []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, apiVersion, r.Header.Get("Notion-Version"))

		var req struct {
			Filter richTextFilter `json:"filter"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		filters = append(filters, req.Filter.Property)

		if req.Filter.Property == "name" {
			pageJSON(w, Page{ID: "page-1"})
			return
		}
		pageJSON(w)
	})

	page, err := client.GetProduct(context.Background(), "ウィジェットA")
	require.NoError(t, err)
	assert.Equal(t, "page-1", page.ID)
	assert.Equal(t, []string{"id", "name"}, filters)
}

func TestGetProductNotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		pageJSON(w)
	})

	_, err := client.GetProduct(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetProductStock(t *testing.T) {
	stock := 7.0
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		pageJSON(w, Page{
			ID:         "page-1",
			Properties: map[string]Property{"stock": {Number: &stock}},
		})
	})

	got, err := client.GetProductStock(context.Background(), "A001")
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestCreateOrderShapes(t *testing.T) {
	var lastReq createPageRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		lastReq = createPageRequest{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))
		_ = json.NewEncoder(w).Encode(Page{ID: "created"})
	})

	subTotal := 500.0
	_, err := client.CreateOrder(context.Background(), OrderPage{
		OrderID:       "ORD123",
		Quantity:      2,
		SubTotal:      &subTotal,
		OrderPageID:   "hdr-1",
		ProductPageID: "prod-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "db-details", lastReq.Parent.DatabaseID)
	assert.Equal(t, "ORD123", lastReq.Properties["id"].Title[0].Text.Content)
	require.NotNil(t, lastReq.Properties["sub_total"].Number)
	assert.Equal(t, 500.0, *lastReq.Properties["sub_total"].Number)

	total := 1200.0
	_, err = client.CreateOrder(context.Background(), OrderPage{
		OrderID:        "ORD124",
		TotalPrice:     &total,
		DeliveryDate:   "2025-08-01",
		Status:         "approved",
		CustomerPageID: "cust-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "db-orders", lastReq.Parent.DatabaseID)
	assert.Equal(t, "ORD124", lastReq.Properties["order_id"].Title[0].Text.Content)
	assert.Equal(t, "cust-1", lastReq.Properties["customers"].Relation[0].ID)

	_, err = client.CreateOrder(context.Background(), OrderPage{
		OrderID:      "ORD125",
		Quantity:     5,
		DeliveryDate: "2025-08-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "db-orders", lastReq.Parent.DatabaseID)
	require.NotNil(t, lastReq.Properties["quantity"].Number)
	assert.Equal(t, 5.0, *lastReq.Properties["quantity"].Number)
	assert.NotContains(t, lastReq.Properties, "customers")
}

func TestErrorResponseSurfacesStoreError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"validation_error"}`))
	})

	_, err := client.QueryDatabase(context.Background(), "db-products", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStore)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOTION_API", appErr.Code)
}
