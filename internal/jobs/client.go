package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crm/internal/domain"
	"crm/internal/service"
)

// Client is a typed HTTP client for the CRM API, injected into every job.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) RestockLowStock(ctx context.Context, threshold, increment int64) ([]domain.Product, error) {
	var resp struct {
		UpdatedProducts []domain.Product `json:"updated_products"`
	}
	body := map[string]int64{"threshold": threshold, "increment": increment}
	if err := c.do(ctx, http.MethodPost, "/api/v1/products/restock", body, &resp); err != nil {
		return nil, err
	}
	return resp.UpdatedProducts, nil
}

func (c *Client) OrdersSince(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	var orders []domain.Order
	path := "/api/v1/orders?since=" + cutoff.Format("2006-01-02")
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Stats(ctx context.Context) (*service.Stats, error) {
	var stats service.Stats
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
