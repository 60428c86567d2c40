package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const adminAPIVersion = "2024-01"

// PublishInput is one product to create through the storefront's admin API.
type PublishInput struct {
	Title       string
	Description string
	Price       string
	Image       string
}

type publishVariant struct {
	Price float64 `json:"price"`
}

type publishPayload struct {
	Product struct {
		Title    string           `json:"title"`
		BodyHTML string           `json:"body_html"`
		Variants []publishVariant `json:"variants"`
		Images   []image          `json:"images"`
	} `json:"product"`
}

// Publish creates a product on the storefront through the admin API. The
// outcome is success or a single error; publishing is never retried.
func (c *Client) Publish(ctx context.Context, storeURL string, input PublishInput) error {
	if c.accessToken == "" {
		return fmt.Errorf("no admin access token configured")
	}

	price, err := strconv.ParseFloat(input.Price, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %v", input.Price, err)
	}

	var payload publishPayload
	payload.Product.Title = input.Title
	payload.Product.BodyHTML = input.Description
	payload.Product.Variants = []publishVariant{{Price: price}}
	if input.Image != "" {
		payload.Product.Images = []image{{Src: input.Image}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal product payload: %v", err)
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/products.json", strings.TrimRight(storeURL, "/"), adminAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create publish request: %v", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push product: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to push product: status %d: %s", resp.StatusCode, drainBody(resp.Body))
	}

	c.logger.Info("product pushed to store", "store", storeURL, "title", input.Title)
	return nil
}
