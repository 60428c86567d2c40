// Package pipeline orchestrates the scrape → persist → rephrase → persist →
// publish chain. External failures (network, LLM, malformed records) degrade
// to best-available data; only internal consistency violations propagate.
package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/malikusman1115/shopify-automation/shopify"
	"github.com/malikusman1115/shopify-automation/store"
)

// Rephraser rewrites a (title, description) pair, falling back to the
// originals on failure. A non-nil error is a warning, not an abort: the
// returned pair is always usable.
type Rephraser interface {
	Rephrase(ctx context.Context, title, description string) (string, string, error)
}

// Warning records one non-fatal failure with enough structure for the
// presentation layer to render it.
type Warning struct {
	URL     string `json:"url"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Report summarizes one pipeline run.
type Report struct {
	StoreURL  string    `json:"store_url"`
	Scraped   int       `json:"scraped"`
	Inserted  int       `json:"inserted"`
	Skipped   int       `json:"skipped"`
	Rephrased int       `json:"rephrased"`
	Published int       `json:"published"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

type Pipeline struct {
	store     *store.Store
	client    *shopify.Client
	rephraser Rephraser
	logger    *log.Logger
}

func New(s *store.Store, client *shopify.Client, rephraser Rephraser, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		store:     s,
		client:    client,
		rephraser: rephraser,
		logger:    logger.With("component", "pipeline"),
	}
}

func (r *Report) warn(url, stage string, err error) {
	r.Warnings = append(r.Warnings, Warning{URL: url, Stage: stage, Message: err.Error()})
}

// ScrapeStore runs the full catalog pipeline for one storefront: paginate,
// persist each product, rephrase its copy and persist the rephrasing linked
// to the product row. Returns a best-effort report; the only hard failures
// are persistence-layer consistency violations.
func (p *Pipeline) ScrapeStore(ctx context.Context, storeURL, ownerID string) (*Report, error) {
	report := &Report{StoreURL: storeURL}

	products := p.client.ScrapeAll(ctx, storeURL)
	report.Scraped = len(products)
	if len(products) == 0 {
		p.logger.Warn("catalog scrape produced no products", "store", storeURL)
		return report, nil
	}

	// Products reference their store, so the registration must exist first.
	if _, err := p.store.RegisterStore(products[0].ShopifyURL, ownerID); err != nil {
		return report, fmt.Errorf("failed to register store %q: %v", storeURL, err)
	}

	for i := range products {
		if err := p.processProduct(ctx, &products[i], ownerID, report); err != nil {
			return report, err
		}
	}

	p.logger.Info("store scrape finished",
		"store", storeURL,
		"scraped", report.Scraped,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"rephrased", report.Rephrased,
		"warnings", len(report.Warnings))

	return report, nil
}

// ScrapeProduct runs the single-item pipeline: fetch one product by its
// detail URL, persist and rephrase it, and optionally publish the rephrased
// copy back to the originating storefront. A product that cannot be fetched
// is reported, not raised.
func (p *Pipeline) ScrapeProduct(ctx context.Context, productURL, ownerID string, publish bool) (*Report, error) {
	report := &Report{}

	product, err := p.client.ScrapeOne(ctx, productURL)
	if err != nil {
		report.warn(productURL, "fetch", err)
		return report, nil
	}
	report.StoreURL = product.ShopifyURL
	report.Scraped = 1

	if _, err := p.store.RegisterStore(product.ShopifyURL, ownerID); err != nil {
		return report, fmt.Errorf("failed to register store %q: %v", product.ShopifyURL, err)
	}

	if err := p.processProduct(ctx, &product, ownerID, report); err != nil {
		return report, err
	}

	if publish {
		input := shopify.PublishInput{
			Price: product.Price,
			Image: product.Image,
		}
		// Publish the rephrased copy when one was just stored, otherwise the
		// original.
		input.Title, input.Description = p.latestCopy(&product)
		if err := p.client.Publish(ctx, product.ShopifyURL, input); err != nil {
			report.warn(product.URL, "publish", err)
		} else {
			report.Published++
		}
	}

	return report, nil
}

// processProduct persists one product and its rephrasing. The product's
// description is normalized to plain text before insert. Mutates the product
// in place so callers see the stored copy.
func (p *Pipeline) processProduct(ctx context.Context, product *store.Product, ownerID string, report *Report) error {
	product.Description = renderText(product.Description)

	summary, err := p.store.InsertProducts([]store.Product{*product}, ownerID)
	if err != nil {
		return fmt.Errorf("failed to persist product %q: %v", product.URL, err)
	}
	report.Inserted += summary.Inserted
	report.Skipped += summary.Skipped

	rephrasedTitle, rephrasedDescription, err := p.rephraser.Rephrase(ctx, product.Title, product.Description)
	if err != nil {
		p.logger.Warn("rephrase fell back to original copy", "url", product.URL, "error", err)
		report.warn(product.URL, "rephrase", err)
	}

	productID, err := p.store.ResolveProductID(product.URL)
	if err != nil {
		return fmt.Errorf("failed to resolve product %q after insert: %v", product.URL, err)
	}
	product.ID = productID

	// Fallback copy is still an insertable pair: the history row records what
	// this run produced, rephrased or not.
	if _, err := p.store.InsertRephrased(productID, rephrasedTitle, rephrasedDescription, ownerID); err != nil {
		return fmt.Errorf("failed to persist rephrased product %q: %w", product.URL, err)
	}
	report.Rephrased++

	product.Rephrasings = []store.RephrasedProduct{{
		OriginalProductID:    productID,
		RephrasedTitle:       rephrasedTitle,
		RephrasedDescription: rephrasedDescription,
		OwnerID:              ownerID,
	}}

	return nil
}

func (p *Pipeline) latestCopy(product *store.Product) (string, string) {
	if len(product.Rephrasings) > 0 {
		latest := product.Rephrasings[len(product.Rephrasings)-1]
		return latest.RephrasedTitle, latest.RephrasedDescription
	}
	return product.Title, product.Description
}
