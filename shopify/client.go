package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/malikusman1115/shopify-automation/store"
)

// ErrNotProductURL marks an input URL without a /products/ path segment.
var ErrNotProductURL = errors.New("url does not point at a product")

// ErrProductUnavailable marks a single-product fetch that failed or returned
// no product body. Non-fatal for callers.
var ErrProductUnavailable = errors.New("product unavailable")

// Client talks to a storefront's public catalog JSON API and, with an access
// token, to its admin product-creation endpoint.
type Client struct {
	http        *http.Client
	userAgent   string
	limiter     *rate.Limiter
	accessToken string
	logger      *log.Logger
}

type ClientOptions struct {
	UserAgent         string
	AccessToken       string
	RequestsPerSecond float64
	Timeout           time.Duration
	Logger            *log.Logger
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		userAgent:   opts.UserAgent,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		accessToken: opts.AccessToken,
		logger:      logger.With("component", "shopify"),
	}
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	return c.http.Do(req)
}

// allowedByRobots checks the storefront's robots.txt for the given path.
// Fails open: an unreachable or unparsable robots.txt allows the scrape.
func (c *Client) allowedByRobots(ctx context.Context, baseURL, path string) bool {
	resp, err := c.get(ctx, baseURL+"/robots.txt")
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return true
	}

	return robots.TestAgent(path, c.userAgent)
}

// fetchPage requests one page of the public catalog API.
func (c *Client) fetchPage(ctx context.Context, baseURL string, page int) ([]productRecord, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/products.json?page=%d", baseURL, page))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog page %d: %v", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog page %d returned status %d", page, resp.StatusCode)
	}

	var payload struct {
		Products []productRecord `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog page %d: %v", page, err)
	}

	return payload.Products, nil
}

// ScrapeAll walks the catalog from page 1 until the first empty page, which
// is the API's only termination signal. A failed page request also stops
// pagination; whatever was collected before it is still returned, so the
// result is best-effort.
func (c *Client) ScrapeAll(ctx context.Context, storeURL string) []store.Product {
	baseURL := strings.TrimRight(storeURL, "/")

	if !c.allowedByRobots(ctx, baseURL, "/products.json") {
		c.logger.Warn("robots.txt disallows catalog scraping", "store", baseURL)
		return nil
	}

	var products []store.Product
	for page := 1; ; page++ {
		c.logger.Info("fetching catalog page", "store", baseURL, "page", page)

		records, err := c.fetchPage(ctx, baseURL, page)
		if err != nil {
			c.logger.Warn("catalog page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}
		if len(records) == 0 {
			break
		}

		for _, record := range records {
			product, err := extractProduct(record, baseURL)
			if err != nil {
				c.logger.Warn("dropping catalog record", "handle", record.Handle, "error", err)
				continue
			}
			products = append(products, product)
		}
	}

	return products
}

// SplitProductURL derives a storefront base URL and product handle from a
// product-detail URL such as https://shop.example.com/products/blue-mug.
func SplitProductURL(productURL string) (baseURL, handle string, err error) {
	parsed, err := url.Parse(productURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrNotProductURL, productURL)
	}

	const marker = "/products/"
	idx := strings.Index(parsed.Path, marker)
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %q", ErrNotProductURL, productURL)
	}

	rest := parsed.Path[idx+len(marker):]
	handle = strings.SplitN(rest, "/", 2)[0]
	if handle == "" {
		return "", "", fmt.Errorf("%w: %q", ErrNotProductURL, productURL)
	}

	return parsed.Scheme + "://" + parsed.Host, handle, nil
}

// ScrapeOne resolves a single product-detail URL through the public JSON API
// and extracts it with the same field rules as catalog pagination.
func (c *Client) ScrapeOne(ctx context.Context, productURL string) (store.Product, error) {
	baseURL, handle, err := SplitProductURL(productURL)
	if err != nil {
		return store.Product{}, err
	}

	resp, err := c.get(ctx, fmt.Sprintf("%s/products/%s.json", baseURL, handle))
	if err != nil {
		return store.Product{}, fmt.Errorf("%w: %v", ErrProductUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return store.Product{}, fmt.Errorf("%w: status %d", ErrProductUnavailable, resp.StatusCode)
	}

	var payload struct {
		Product *productRecord `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return store.Product{}, fmt.Errorf("%w: %v", ErrProductUnavailable, err)
	}
	if payload.Product == nil {
		return store.Product{}, fmt.Errorf("%w: empty product body", ErrProductUnavailable)
	}

	product, err := extractProduct(*payload.Product, baseURL)
	if err != nil {
		return store.Product{}, err
	}

	return product, nil
}

func drainBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 2048))
	return string(body)
}
