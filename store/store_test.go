package store

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testOwner = "5f1e1a7e-2a6e-4b8e-9b1a-0c9a3f6d2e4b"
	testStore = "https://shop.example.com"
)

func testDB(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	s, err := NewWithDatabase(context.Background(), db)
	if err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func sampleProduct(url string) Product {
	return Product{
		Title:       "Blue Mug",
		Description: "A mug.",
		Price:       "12.50",
		URL:         url,
		ShopifyURL:  testStore,
	}
}

func TestRegisterStore(t *testing.T) {
	s := testDB(t)

	created, err := s.RegisterStore(testStore, testOwner)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !created {
		t.Error("expected first registration to create a row")
	}

	created, err = s.RegisterStore(testStore, testOwner)
	if err != nil {
		t.Fatalf("expected duplicate registration to be absorbed, got %v", err)
	}
	if created {
		t.Error("expected duplicate registration to be a no-op")
	}

	stores, err := s.StoresForOwner(testOwner)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(stores) != 1 {
		t.Errorf("expected exactly one registration, got %d", len(stores))
	}
}

func TestInsertProducts(t *testing.T) {
	s := testDB(t)
	if _, err := s.RegisterStore(testStore, testOwner); err != nil {
		t.Fatalf("failed to register store: %v", err)
	}

	t.Run("First Insert", func(t *testing.T) {
		summary, err := s.InsertProducts([]Product{sampleProduct(testStore + "/products/blue-mug")}, testOwner)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if summary.Inserted != 1 || summary.Skipped != 0 {
			t.Errorf("expected 1 inserted / 0 skipped, got %+v", summary)
		}
	})

	t.Run("Duplicate URL Is Skipped", func(t *testing.T) {
		summary, err := s.InsertProducts([]Product{sampleProduct(testStore + "/products/blue-mug")}, testOwner)
		if err != nil {
			t.Fatalf("expected duplicate insert to be absorbed, got %v", err)
		}
		if summary.Inserted != 0 || summary.Skipped != 1 {
			t.Errorf("expected 0 inserted / 1 skipped, got %+v", summary)
		}

		products, err := s.ProductsForStoreAndOwner(testStore, testOwner)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(products) != 1 {
			t.Errorf("expected a single row after re-insert, got %d", len(products))
		}
	})
}

func TestResolveProductID(t *testing.T) {
	s := testDB(t)
	if _, err := s.RegisterStore(testStore, testOwner); err != nil {
		t.Fatalf("failed to register store: %v", err)
	}

	url := testStore + "/products/blue-mug"

	t.Run("Before Insert", func(t *testing.T) {
		_, err := s.ResolveProductID(url)
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("After Insert", func(t *testing.T) {
		if _, err := s.InsertProducts([]Product{sampleProduct(url)}, testOwner); err != nil {
			t.Fatalf("failed to insert product: %v", err)
		}

		id, err := s.ResolveProductID(url)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id == 0 {
			t.Error("expected a defined product id")
		}
	})
}

func TestInsertRephrased(t *testing.T) {
	s := testDB(t)
	if _, err := s.RegisterStore(testStore, testOwner); err != nil {
		t.Fatalf("failed to register store: %v", err)
	}

	url := testStore + "/products/blue-mug"
	if _, err := s.InsertProducts([]Product{sampleProduct(url)}, testOwner); err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
	productID, err := s.ResolveProductID(url)
	if err != nil {
		t.Fatalf("failed to resolve product: %v", err)
	}

	t.Run("Linked Insert", func(t *testing.T) {
		id, err := s.InsertRephrased(productID, "Azure Mug", "A rephrased mug.", testOwner)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id == 0 {
			t.Error("expected a rephrased row id")
		}
	})

	t.Run("History Is Append Only", func(t *testing.T) {
		if _, err := s.InsertRephrased(productID, "Cerulean Mug", "Another take.", testOwner); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		rephrasings, err := s.RephrasingsForProduct(productID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rephrasings) != 2 {
			t.Errorf("expected 2 history rows, got %d", len(rephrasings))
		}
	})

	t.Run("Orphan Rephrase Fails Loudly", func(t *testing.T) {
		_, err := s.InsertRephrased(productID+1000, "Ghost", "No such product.", testOwner)
		if !errors.Is(err, ErrOrphanRephrase) {
			t.Errorf("expected ErrOrphanRephrase, got %v", err)
		}
	})
}

func TestProjectionsAreOwnerScoped(t *testing.T) {
	s := testDB(t)
	otherOwner := "90b2cbb8-37d8-4a07-9e1c-6fb4f1b7a111"

	if _, err := s.RegisterStore(testStore, testOwner); err != nil {
		t.Fatalf("failed to register store: %v", err)
	}
	if _, err := s.InsertProducts([]Product{sampleProduct(testStore + "/products/blue-mug")}, testOwner); err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	stores, err := s.StoresForOwner(otherOwner)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(stores) != 0 {
		t.Errorf("expected no stores for another owner, got %d", len(stores))
	}

	products, err := s.ProductsForStoreAndOwner(testStore, otherOwner)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected no products for another owner, got %d", len(products))
	}
}
