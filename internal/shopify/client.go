package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// APIError represents a non-2xx response from the Shopify Admin API. It
// carries the entity being fetched so the orchestrator can attribute the
// failure to one sync step.
type APIError struct {
	Entity     string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify %s request failed with status %d: %s", e.Entity, e.StatusCode, e.Message)
}

// IsPermissionError reports whether err is an upstream 401/403, i.e. the
// tenant's access token lacks the scope for the requested entity type.
func IsPermissionError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// Client is an authenticated HTTP client for one tenant's Shopify Admin
// REST API. It fetches full collections across pagination boundaries and
// performs no persistence and no retries.
type Client struct {
	ShopURL     string
	AccessToken string
	BaseURL     string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// NewClient creates a client for one tenant's store. BaseURL may be
// overridden afterwards to point at a different host.
func NewClient(shopURL, accessToken, apiVersion string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		ShopURL:     shopURL,
		AccessToken: accessToken,
		BaseURL:     fmt.Sprintf("https://%s/admin/api/%s", shopURL, apiVersion),
		HTTPClient:  &http.Client{Timeout: timeout},
		Logger:      logger,
	}
}

// fetchPage issues one authenticated GET for a collection page and returns
// the raw body plus the next-page cursor from the Link response header.
// An empty cursor means the collection is exhausted.
func (c *Client) fetchPage(ctx context.Context, entity string, query url.Values) ([]byte, string, error) {
	endpoint := fmt.Sprintf("%s/%s.json?%s", c.BaseURL, entity, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("shopify %s request failed: %w", entity, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Logger.Warn("Shopify API returned error status",
			zap.String("entity", entity),
			zap.String("shop_url", c.ShopURL),
			zap.Int("status", resp.StatusCode))
		return nil, "", &APIError{
			Entity:     entity,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return body, nextPageInfo(resp.Header.Get("Link")), nil
}

// nextPageInfo extracts the page_info cursor from the rel="next" entry of a
// Link header. Shopify sends entries like:
//
//	<https://shop.myshopify.com/admin/api/2024-01/products.json?page_info=abc&limit=250>; rel="next"
func nextPageInfo(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}
	for _, entry := range strings.Split(linkHeader, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}
		if !strings.Contains(parts[1], `rel="next"`) {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(parts[0]), "<>")
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return u.Query().Get("page_info")
	}
	return ""
}

// pageQuery builds the query for one page. Shopify rejects filter params on
// cursor pages, so extra params are only sent on the first request.
func pageQuery(limit int, pageInfo string, extra url.Values) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if pageInfo != "" {
		q.Set("page_info", pageInfo)
		return q
	}
	for key, values := range extra {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	return q
}

// FetchProducts retrieves every product for the tenant's store, following
// the Link-header cursor until no next page remains.
func (c *Client) FetchProducts(ctx context.Context, limit int) ([]Product, error) {
	var all []Product
	pageInfo := ""
	for {
		body, next, err := c.fetchPage(ctx, "products", pageQuery(limit, pageInfo, nil))
		if err != nil {
			return nil, err
		}
		var page struct {
			Products []Product `json:"products"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding products page: %w", err)
		}
		all = append(all, page.Products...)
		if next == "" {
			break
		}
		pageInfo = next
	}
	return all, nil
}

// FetchCustomers retrieves every customer for the tenant's store.
func (c *Client) FetchCustomers(ctx context.Context, limit int) ([]Customer, error) {
	var all []Customer
	pageInfo := ""
	for {
		body, next, err := c.fetchPage(ctx, "customers", pageQuery(limit, pageInfo, nil))
		if err != nil {
			return nil, err
		}
		var page struct {
			Customers []Customer `json:"customers"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding customers page: %w", err)
		}
		all = append(all, page.Customers...)
		if next == "" {
			break
		}
		pageInfo = next
	}
	return all, nil
}

// FetchOrders retrieves every order for the tenant's store regardless of
// status.
func (c *Client) FetchOrders(ctx context.Context, limit int) ([]Order, error) {
	var all []Order
	pageInfo := ""
	extra := url.Values{"status": []string{"any"}}
	for {
		body, next, err := c.fetchPage(ctx, "orders", pageQuery(limit, pageInfo, extra))
		if err != nil {
			return nil, err
		}
		var page struct {
			Orders []Order `json:"orders"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding orders page: %w", err)
		}
		all = append(all, page.Orders...)
		if next == "" {
			break
		}
		pageInfo = next
	}
	return all, nil
}
