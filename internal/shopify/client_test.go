package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	client := NewClient("demo.myshopify.com", "shpat_test", "2024-01", 5*time.Second, zap.NewNop())
	client.BaseURL = baseURL
	return client
}

func TestClient_FetchProducts_FollowsLinkCursorExhaustively(t *testing.T) {
	var requests []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		requests = append(requests, r.URL.RawQuery)

		pageInfo := r.URL.Query().Get("page_info")
		switch pageInfo {
		case "":
			// First page is full and advertises a next cursor
			w.Header().Set("Link",
				fmt.Sprintf(`<%s/products.json?page_info=cursor-2&limit=2>; rel="next"`, "https://demo.myshopify.com/admin/api/2024-01"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"products": []Product{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
			})
		case "cursor-2":
			// Last page happens to exactly match the limit but has no next
			// cursor; the client must stop here, not fetch an extra page
			json.NewEncoder(w).Encode(map[string]interface{}{
				"products": []Product{{ID: 3, Title: "C"}, {ID: 4, Title: "D"}},
			})
		default:
			t.Errorf("unexpected page_info %q", pageInfo)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	products, err := newTestClient(srv.URL).FetchProducts(context.Background(), 2)
	require.NoError(t, err)

	assert.Len(t, products, 4)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(4), products[3].ID)
	require.Len(t, requests, 2)
	assert.NotContains(t, requests[0], "page_info")
	assert.Contains(t, requests[1], "page_info=cursor-2")
}

func TestClient_FetchOrders_StatusFilterOnlyOnFirstPage(t *testing.T) {
	var queries []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		if r.URL.Query().Get("page_info") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/orders.json?page_info=next-page&limit=1>; rel="next"`, "https://demo.myshopify.com/admin/api/2024-01"))
			json.NewEncoder(w).Encode(map[string]interface{}{"orders": []Order{{ID: 10}}})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"orders": []Order{{ID: 11}}})
	}))
	defer srv.Close()

	orders, err := newTestClient(srv.URL).FetchOrders(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, orders, 2)
	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "status=any")
	// Shopify rejects filter params on cursor pages
	assert.NotContains(t, queries[1], "status=any")
	assert.Contains(t, queries[1], "page_info=next-page")
}

func TestClient_FetchCustomers_PermissionDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"[API] This action requires merchant approval for read_customers scope."}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchCustomers(context.Background(), 250)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "customers", apiErr.Entity)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.True(t, IsPermissionError(err))
}

func TestClient_FetchProducts_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"Internal Server Error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchProducts(context.Background(), 250)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "products", apiErr.Entity)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.False(t, IsPermissionError(err))
}

func TestNextPageInfo(t *testing.T) {
	t.Run("extracts the next cursor", func(t *testing.T) {
		header := `<https://demo.myshopify.com/admin/api/2024-01/products.json?page_info=abc123&limit=250>; rel="next"`
		assert.Equal(t, "abc123", nextPageInfo(header))
	})

	t.Run("ignores the previous cursor", func(t *testing.T) {
		header := `<https://demo.myshopify.com/admin/api/2024-01/products.json?page_info=prev111&limit=250>; rel="previous", ` +
			`<https://demo.myshopify.com/admin/api/2024-01/products.json?page_info=next222&limit=250>; rel="next"`
		assert.Equal(t, "next222", nextPageInfo(header))
	})

	t.Run("empty header means no more pages", func(t *testing.T) {
		assert.Equal(t, "", nextPageInfo(""))
	})

	t.Run("previous-only header means no more pages", func(t *testing.T) {
		header := `<https://demo.myshopify.com/admin/api/2024-01/products.json?page_info=prev111&limit=250>; rel="previous"`
		assert.Equal(t, "", nextPageInfo(header))
	})
}
