package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/shop-scout/internal/db"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStoreUpsertAndLoad(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	products := []Product{
		{ID: 2, Name: "Adidas Ultraboost", Brand: "Adidas", Color: "Black", Price: 6000, Category: "sneakers"},
		{ID: 1, Name: "Nike Air Max", Brand: "Nike", Color: "White", Price: 4500, Category: "sneakers"},
	}
	for _, p := range products {
		if err := store.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != 1 || loaded[1].ID != 2 {
		t.Fatalf("expected products ordered by id, got %+v", loaded)
	}
	if loaded[0].Name != "Nike Air Max" || loaded[0].Price != 4500 {
		t.Errorf("unexpected product: %+v", loaded[0])
	}
}

func TestStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	if err := store.Upsert(ctx, Product{ID: 1, Name: "Old", Price: 100}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Upsert(ctx, Product{ID: 1, Name: "New", Price: 200}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "New" || loaded[0].Price != 200 {
		t.Fatalf("expected the replacement to win, got %+v", loaded)
	}
}

func TestStoreImport(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	source := NewStaticProvider([]Product{
		{ID: 1, Name: "Nike Air Max"},
		{ID: 2, Name: "Adidas Ultraboost"},
		{ID: 3, Name: "Sony WH-1000XM5"},
	})

	var seen int
	n, err := store.Import(ctx, source, func(p Product) { seen++ })
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 || seen != 3 {
		t.Errorf("expected 3 imported with 3 progress calls, got %d/%d", n, seen)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}

	// Re-import is idempotent.
	if _, err := store.Import(ctx, source, nil); err != nil {
		t.Fatalf("re-Import: %v", err)
	}
	if count, _ = store.Count(ctx); count != 3 {
		t.Errorf("expected count to stay 3, got %d", count)
	}
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[{"id":1,"name":"Nike Air Max","brand":"Nike","color":"White","price":4500,"category":"sneakers"}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	products, err := NewFileProvider(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Nike Air Max" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestFileProviderMissingFile(t *testing.T) {
	_, err := NewFileProvider("/nonexistent/catalog.json").Load(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestStaticProviderCopies(t *testing.T) {
	original := []Product{{ID: 1, Name: "Nike Air Max"}}
	p := NewStaticProvider(original)
	original[0].Name = "mutated"

	loaded, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded[0].Name != "Nike Air Max" {
		t.Error("expected the provider to hold its own copy")
	}

	loaded[0].Name = "mutated again"
	again, _ := p.Load(context.Background())
	if again[0].Name != "Nike Air Max" {
		t.Error("expected Load to return fresh copies")
	}
}
