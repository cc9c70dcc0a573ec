package similar

import (
	"context"
	"testing"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
)

var pool = []catalog.Product{
	{ID: 1, Name: "Nike Air Max"},
	{ID: 2, Name: "Nike Air Max 90"},
	{ID: 3, Name: "Nike Air Force 1"},
	{ID: 4, Name: "Sony WH-1000XM5"},
	{ID: 5, Name: "Nike Air Max Plus"},
}

func TestFuzzySimilar(t *testing.T) {
	f, err := NewFinder(nil, 0.6)
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}

	got := f.Similar(context.Background(), pool[0], pool, 5)

	ids := make(map[int]bool, len(got))
	for _, p := range got {
		ids[p.ID] = true
	}
	if !ids[1] || !ids[2] || !ids[5] {
		t.Errorf("expected the Air Max family, got %+v", got)
	}
	if ids[4] {
		t.Error("expected the headphones to be excluded")
	}
}

func TestSimilarLimit(t *testing.T) {
	f, err := NewFinder(nil, 0.1)
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}

	if got := f.Similar(context.Background(), pool[0], pool, 2); len(got) > 2 {
		t.Errorf("expected at most 2 results, got %d", len(got))
	}
}

func TestSimilarEmptyPool(t *testing.T) {
	f, err := NewFinder(nil, 0)
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}

	if got := f.Similar(context.Background(), pool[0], nil, 5); len(got) != 0 {
		t.Errorf("expected no results from an empty pool, got %+v", got)
	}
}

func TestIndexWithoutEmbedderIsNoop(t *testing.T) {
	f, err := NewFinder(nil, 0)
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}
	if err := f.Index(context.Background(), pool); err != nil {
		t.Fatalf("Index without an embedder must be a no-op, got %v", err)
	}
}
