package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPAPIClient reads the settings tables through the backend's REST API
// (PostgREST conventions: one resource per table, apikey header).
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string // e.g. https://project.example.co/rest/v1
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListShippingRates fetches the shipping_rates table.
// GET /shipping_rates?select=*&order=profile.asc,max_distance_km.asc,max_weight_g.asc
func (c *HTTPAPIClient) ListShippingRates(ctx context.Context) ([]ShippingRateRow, error) {
	var rows []ShippingRateRow
	if err := c.list(ctx, "shipping_rates", "profile.asc,max_distance_km.asc,max_weight_g.asc", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPackagingBoxes fetches the packaging_boxes table in catalog order.
// GET /packaging_boxes?select=*&order=id.asc
func (c *HTTPAPIClient) ListPackagingBoxes(ctx context.Context) ([]PackagingBoxRow, error) {
	var rows []PackagingBoxRow
	if err := c.list(ctx, "packaging_boxes", "id.asc", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWarehouses fetches the warehouses table. The order matters: the first
// warehouse with a location is the shipping anchor.
// GET /warehouses?select=*&order=id.asc
func (c *HTTPAPIClient) ListWarehouses(ctx context.Context) ([]WarehouseRow, error) {
	var rows []WarehouseRow
	if err := c.list(ctx, "warehouses", "id.asc", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPAPIClient) list(ctx context.Context, table, order string, out any) error {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", order)

	resp, err := c.doRequest(ctx, http.MethodGet, "/"+table+"?"+query.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", table, err)
	}
	return nil
}

// doRequest performs an HTTP request with proper headers and authentication.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "shipcost/1.0")

	return c.httpClient.Do(req)
}

// parseError extracts error information from an HTTP response.
func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		if apiErr.Code == "" {
			apiErr.Code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
		}
		return &apiErr
	}

	return &APIError{
		Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Message: string(body),
	}
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
