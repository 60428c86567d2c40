package api

type ScrapeStoreInput struct {
	StoreURL string `json:"store_url" binding:"required"`
}

type ScrapeProductInput struct {
	ProductURL string `json:"product_url" binding:"required"`
	Publish    bool   `json:"publish"`
}

type StoreListResponse struct {
	Stores []string `json:"stores"`
}

type ProductResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       string              `json:"price"`
	Image       string              `json:"image,omitempty"`
	URL         string              `json:"url"`
	ShopifyURL  string              `json:"shopify_url"`
	Rephrasings []RephrasedResponse `json:"rephrasings,omitempty"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

type RephrasedResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}
