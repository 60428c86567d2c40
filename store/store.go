package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProductNotFound is returned when a product URL has never been inserted.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrphanRephrase is returned when a rephrasing references a product id
	// that does not exist. This indicates a pipeline ordering bug and is the
	// one persistence failure that must not be absorbed.
	ErrOrphanRephrase = errors.New("rephrased product references missing product")
)

// InsertSummary reports how an InsertProducts call resolved: rows created
// versus rows skipped because their URL was already known.
type InsertSummary struct {
	Inserted int
	Skipped  int
}

type Store struct {
	ctx      context.Context
	database *gorm.DB
}

func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return NewWithDatabase(ctx, db)
}

// NewWithDatabase wraps an already-open gorm handle. Used directly by tests
// running against sqlite.
func NewWithDatabase(ctx context.Context, db *gorm.DB) (*Store, error) {
	// Migrate the schemas
	if err := db.AutoMigrate(&ScrapedStore{}, &Product{}, &RephrasedProduct{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return &Store{database: db, ctx: ctx}, nil
}

func (s *Store) Close() error {
	db, err := s.database.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %v", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %v", err)
	}
	return nil
}

// RegisterStore records a (storefront, owner) pairing. Registering the same
// storefront twice is a no-op; the bool reports whether a row was created.
func (s *Store) RegisterStore(shopifyURL, ownerID string) (bool, error) {
	tx := s.database.WithContext(s.ctx)

	registration := ScrapedStore{ShopifyURL: shopifyURL, OwnerID: ownerID}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&registration)
	if result.Error != nil {
		return false, fmt.Errorf("failed to register store: %v", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// InsertProducts inserts each product keyed by its unique URL. Products whose
// URL already exists are skipped, never updated. The owning store must have
// been registered beforehand.
func (s *Store) InsertProducts(products []Product, ownerID string) (InsertSummary, error) {
	tx := s.database.WithContext(s.ctx)

	var summary InsertSummary
	for i := range products {
		products[i].OwnerID = ownerID
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&products[i])
		if result.Error != nil {
			return summary, fmt.Errorf("failed to insert product %q: %v", products[i].URL, result.Error)
		}
		if result.RowsAffected > 0 {
			summary.Inserted++
		} else {
			summary.Skipped++
		}
	}

	return summary, nil
}

// ResolveProductID looks up a product's identity by its unique URL.
func (s *Store) ResolveProductID(url string) (uint, error) {
	var product Product
	if err := s.database.Select("id").First(&product, "url = ?", url).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to resolve product: %v", err)
	}

	return product.ID, nil
}

// InsertRephrased appends one rephrasing linked to an existing product.
// A missing product id fails with ErrOrphanRephrase.
func (s *Store) InsertRephrased(productID uint, rephrasedTitle, rephrasedDescription, ownerID string) (uint, error) {
	tx := s.database.WithContext(s.ctx)

	var count int64
	if err := tx.Model(&Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to check product %d: %v", productID, err)
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: id %d", ErrOrphanRephrase, productID)
	}

	rephrased := RephrasedProduct{
		OriginalProductID:    productID,
		RephrasedTitle:       rephrasedTitle,
		RephrasedDescription: rephrasedDescription,
		OwnerID:              ownerID,
	}
	if result := tx.Create(&rephrased); result.Error != nil {
		return 0, fmt.Errorf("failed to insert rephrased product: %v", result.Error)
	}

	return rephrased.ID, nil
}

// StoresForOwner lists every storefront an owner has scraped.
func (s *Store) StoresForOwner(ownerID string) ([]ScrapedStore, error) {
	var stores []ScrapedStore
	if err := s.database.Find(&stores, "owner_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get stores: %v", err)
	}

	return stores, nil
}

// ProductsForStoreAndOwner lists an owner's products for one storefront.
func (s *Store) ProductsForStoreAndOwner(shopifyURL, ownerID string) ([]Product, error) {
	var products []Product
	if err := s.database.Find(&products, "shopify_url = ? AND owner_id = ?", shopifyURL, ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %v", err)
	}

	return products, nil
}

// RephrasingsForProduct returns the append-only rewrite history of a product,
// newest first.
func (s *Store) RephrasingsForProduct(productID uint) ([]RephrasedProduct, error) {
	var rephrasings []RephrasedProduct
	if err := s.database.
		Order("created_at desc").
		Find(&rephrasings, "original_product_id = ?", productID).Error; err != nil {
		return nil, fmt.Errorf("failed to get rephrased products: %v", err)
	}

	return rephrasings, nil
}
