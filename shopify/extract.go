package shopify

import (
	"errors"
	"fmt"

	"github.com/malikusman1115/shopify-automation/store"
)

// ErrMalformedRecord marks a catalog record that cannot yield a product,
// currently only records with no variants (no price to extract).
var ErrMalformedRecord = errors.New("malformed catalog record")

// productRecord is the wire shape of one product in the public catalog API.
type productRecord struct {
	Title    string    `json:"title"`
	BodyHTML string    `json:"body_html"`
	Handle   string    `json:"handle"`
	Variants []variant `json:"variants"`
	Images   []image   `json:"images"`
}

type variant struct {
	Price string `json:"price"`
}

type image struct {
	Src string `json:"src"`
}

// extractProduct maps one catalog record onto the internal product shape.
// The description keeps the raw body_html; rendering to plain text happens
// downstream. A record with no images simply has no image.
func extractProduct(record productRecord, baseURL string) (store.Product, error) {
	if len(record.Variants) == 0 {
		return store.Product{}, fmt.Errorf("%w: product %q has no variants", ErrMalformedRecord, record.Handle)
	}

	product := store.Product{
		Title:       record.Title,
		Description: record.BodyHTML,
		Price:       record.Variants[0].Price,
		URL:         baseURL + "/products/" + record.Handle,
		ShopifyURL:  baseURL,
	}
	if len(record.Images) > 0 {
		product.Image = record.Images[0].Src
	}

	return product, nil
}
