package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/malikusman1115/shopify-automation/pipeline"
	"github.com/malikusman1115/shopify-automation/store"
)

type API struct {
	engine *gin.Engine
}

// ownerID reads the authenticated owner's identifier from the X-Owner-ID
// header. Authentication itself is handled upstream by the identity
// provider; this layer only validates the shape.
func ownerID(c *gin.Context) (string, bool) {
	raw := c.GetHeader("X-Owner-ID")
	if _, err := uuid.Parse(raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid X-Owner-ID header"})
		return "", false
	}
	return raw, true
}

func setupRouter(s *store.Store, p *pipeline.Pipeline) *gin.Engine {
	r := gin.Default()

	// Ping test
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Scrape, rephrase and store a whole catalog
	r.POST("/store/scrape", func(c *gin.Context) {
		owner, ok := ownerID(c)
		if !ok {
			return
		}

		var input ScrapeStoreInput
		if err := c.BindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		report, err := p.ScrapeStore(c.Request.Context(), input.StoreURL, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, report)
	})

	// Scrape, rephrase and optionally republish a single product
	r.POST("/product/scrape", func(c *gin.Context) {
		owner, ok := ownerID(c)
		if !ok {
			return
		}

		var input ScrapeProductInput
		if err := c.BindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		report, err := p.ScrapeProduct(c.Request.Context(), input.ProductURL, owner, input.Publish)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if report.Scraped == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "report": report})
			return
		}
		c.JSON(http.StatusOK, report)
	})

	// List the storefronts an owner has scraped
	r.GET("/store", func(c *gin.Context) {
		owner, ok := ownerID(c)
		if !ok {
			return
		}

		stores, err := s.StoresForOwner(owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, parseStoresResponse(stores))
	})

	// List an owner's products for one storefront
	r.GET("/store/products", func(c *gin.Context) {
		owner, ok := ownerID(c)
		if !ok {
			return
		}

		shopifyURL := c.Query("shopify_url")
		if shopifyURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shopify_url query parameter is required"})
			return
		}

		products, err := s.ProductsForStoreAndOwner(shopifyURL, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if len(products) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Products not found"})
			return
		}

		c.JSON(http.StatusOK, parseProductsResponse(s, products))
	})

	return r
}

func New(s *store.Store, p *pipeline.Pipeline) (*API, error) {
	return &API{
		engine: setupRouter(s, p),
	}, nil
}

func (a *API) Run(port string) {
	a.engine.Run(":" + port)
}

func parseStoresResponse(stores []store.ScrapedStore) StoreListResponse {
	response := StoreListResponse{Stores: []string{}}
	for _, s := range stores {
		response.Stores = append(response.Stores, s.ShopifyURL)
	}
	return response
}

func parseProductsResponse(s *store.Store, products []store.Product) ProductListResponse {
	var response ProductListResponse
	for _, product := range products {
		rephrasings, err := s.RephrasingsForProduct(product.ID)
		if err != nil {
			continue
		}

		response.Products = append(response.Products, ProductResponse{
			ID:          product.ID,
			Title:       product.Title,
			Description: product.Description,
			Price:       product.Price,
			Image:       product.Image,
			URL:         product.URL,
			ShopifyURL:  product.ShopifyURL,
			Rephrasings: parseRephrasedResponse(rephrasings),
		})
	}
	return response
}

func parseRephrasedResponse(rephrasings []store.RephrasedProduct) []RephrasedResponse {
	var response []RephrasedResponse
	for _, r := range rephrasings {
		response = append(response, RephrasedResponse{
			Title:       r.RephrasedTitle,
			Description: r.RephrasedDescription,
			CreatedAt:   r.CreatedAt.String(),
		})
	}
	return response
}
