package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frostmart/storefront-service/internal/httpx"
	"github.com/frostmart/storefront-service/internal/httpx/ratelimit"
)

// Client fetches raw products from the upstream catalog API.
type Client struct {
	baseURL string
	http    *httpx.Client
}

// NewClient creates a catalog API client.
func NewClient(baseURL string, rateCfg ratelimit.Config, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpx.NewClient(rateCfg, timeout),
	}
}

// FetchAll returns every product the catalog exposes.
func (c *Client) FetchAll(ctx context.Context) ([]Product, error) {
	return c.fetchList(ctx, c.baseURL+"/products")
}

// FetchCategories returns the catalog's category names.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	data, err := c.http.GetBytes(ctx, c.baseURL+"/products/categories")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var categories []string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (c *Client) fetchList(ctx context.Context, fetchURL string) ([]Product, error) {
	data, err := c.http.GetBytes(ctx, fetchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
