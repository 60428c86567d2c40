package store

import (
	"gorm.io/gorm"
)

// ScrapedStore records one (storefront, owner) pairing. Created lazily the
// first time a store is scraped for an owner, immutable afterwards.
type ScrapedStore struct {
	gorm.Model
	ShopifyURL string    `gorm:"uniqueIndex;not null"`
	OwnerID    string    `gorm:"index;not null"`
	Products   []Product `gorm:"foreignKey:ShopifyURL;references:ShopifyURL"`
}

type Product struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Price       string `gorm:"not null"`
	Image       string
	URL         string             `gorm:"uniqueIndex;not null"`
	ShopifyURL  string             `gorm:"index;not null"`
	OwnerID     string             `gorm:"index;not null"`
	Rephrasings []RephrasedProduct `gorm:"foreignKey:OriginalProductID"`
}

// RephrasedProduct is one rewritten variant of a product. Append-only; a
// product may accumulate any number of rephrasings over time.
type RephrasedProduct struct {
	gorm.Model
	OriginalProductID    uint `gorm:"index;not null"`
	RephrasedTitle       string
	RephrasedDescription string
	OwnerID              string `gorm:"index;not null"`
}
