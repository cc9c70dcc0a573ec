package similar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/embeddings"
	"github.com/ziadkadry99/shop-scout/internal/match"
)

const collectionName = "products"

// DefaultThreshold is the name-similarity cutoff for the fuzzy fallback.
const DefaultThreshold = 0.6

// Finder locates products similar to a seed product. With an embedder it
// searches a chromem-go vector collection of product names semantically;
// without one it falls back to fuzzy name matching over the catalog.
type Finder struct {
	collection *chromem.Collection
	threshold  float64
}

// NewFinder creates a finder. embedder may be nil, which disables the
// semantic path.
func NewFinder(embedder embeddings.Embedder, threshold float64) (*Finder, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	f := &Finder{threshold: threshold}

	if embedder != nil {
		db := chromem.NewDB()
		col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(embedder))
		if err != nil {
			return nil, fmt.Errorf("creating collection: %w", err)
		}
		f.collection = col
	}

	return f, nil
}

// Index adds the catalog's product names to the vector collection. It is a
// no-op without an embedder.
func (f *Finder) Index(ctx context.Context, products []catalog.Product) error {
	if f.collection == nil || len(products) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(products))
	for i, p := range products {
		docs[i] = chromem.Document{
			ID:      strconv.Itoa(p.ID),
			Content: p.Name,
			Metadata: map[string]string{
				"brand":    p.Brand,
				"category": p.Category,
			},
		}
	}

	if err := f.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("indexing products: %w", err)
	}
	return nil
}

// Similar returns up to limit products from all whose names resemble the
// seed product's name, seed included when it qualifies. The semantic path
// is tried first; any failure there degrades to the fuzzy fallback rather
// than erroring.
func (f *Finder) Similar(ctx context.Context, seed catalog.Product, all []catalog.Product, limit int) []catalog.Product {
	if limit <= 0 {
		limit = 5
	}

	if f.collection != nil && f.collection.Count() > 0 {
		if found, err := f.semantic(ctx, seed, all, limit); err == nil {
			return found
		}
	}

	return f.fuzzy(seed, all, limit)
}

func (f *Finder) semantic(ctx context.Context, seed catalog.Product, all []catalog.Product, limit int) ([]catalog.Product, error) {
	n := limit
	if count := f.collection.Count(); n > count {
		n = count
	}

	results, err := f.collection.Query(ctx, seed.Name, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	byID := make(map[int]catalog.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	var found []catalog.Product
	for _, r := range results {
		id, err := strconv.Atoi(r.ID)
		if err != nil {
			continue
		}
		if p, ok := byID[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

func (f *Finder) fuzzy(seed catalog.Product, all []catalog.Product, limit int) []catalog.Product {
	seedName := strings.ToLower(seed.Name)

	var found []catalog.Product
	for _, p := range all {
		name := strings.ToLower(p.Name)
		if strings.Contains(name, seedName) || match.Ratio(seedName, name) > f.threshold {
			found = append(found, p)
			if len(found) == limit {
				break
			}
		}
	}
	return found
}
