// Package storefront holds the shopper-side state: the cached catalog, search,
// cart, wishlist and checkout handoff, plus the HTTP clients it talks through.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"

	models "shopfront/model"
)

const (
	maxErrorBody    = 64 << 10
	maxResponseBody = 8 << 20
)

// Client calls the product API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a client for the API rooted at baseURL. A zero timeout
// means 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ListProducts performs GET /products.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Product{}
	}
	return out, nil
}

// GetProduct performs GET /products/{id}.
func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

// CreateProduct performs POST /products.
func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, "/products", in, &out)
	return out, err
}

// BulkCreateProducts performs POST /products/bulk.
func (c *Client) BulkCreateProducts(ctx context.Context, in []models.ProductInput) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodPost, "/products/bulk", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	return doJSON(ctx, c.httpClient, method, c.baseURL+path, body, target)
}

// doJSON sends body as JSON and decodes a 2xx answer into target. Error
// answers become *APIError carrying the server's "error" message.
func doJSON(ctx context.Context, hc *http.Client, method, endpoint string, body, target interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request body")
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	return decodeResponse(resp, target)
}

func decodeResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return errors.Wrap(err, "read error response body")
		}
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if target == nil {
		_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return err
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(target); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// errorMessage pulls "error" (or "message") out of a JSON error body and
// falls back to the raw text.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
