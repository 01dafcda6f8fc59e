package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rl1809/order-service/internal/core/domain"
)

const availabilityPath = "/api/inventory"

type inventoryResponse struct {
	SKUCode string `json:"skuCode"`
	InStock bool   `json:"inStock"`
}

// HTTPClient performs the batched availability lookup against the inventory
// service. One request carries the full SKU set; the call blocks the caller
// until a response, a failure, or the configured timeout.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (c *HTTPClient) CheckAvailability(ctx context.Context, skuCodes []string) ([]domain.InventoryFact, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	for _, code := range skuCodes {
		query.Add("skuCode", code)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+availabilityPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build inventory request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("inventory service returned status %d", resp.StatusCode)
	}

	var body []inventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode inventory response: %w", err)
	}
	if body == nil {
		// A null body is a broken response. An empty array is valid: it
		// means the inventory service recognizes none of the SKUs.
		return nil, fmt.Errorf("inventory service returned null response")
	}

	facts := make([]domain.InventoryFact, 0, len(body))
	for _, r := range body {
		facts = append(facts, domain.InventoryFact{SKUCode: r.SKUCode, InStock: r.InStock})
	}
	return facts, nil
}
