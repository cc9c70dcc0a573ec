package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnavailable is returned when the catalog cannot be loaded. Callers must
// treat it as fatal for recommendation; it is never a valid empty result.
var ErrUnavailable = errors.New("catalog unavailable")

// Provider is a read-only source of product records. Implementations must be
// safe for concurrent reads across sessions.
type Provider interface {
	// Load returns all catalog products in stable iteration order.
	Load(ctx context.Context) ([]Product, error)
}

// FileProvider loads the catalog from a JSON file containing an array of
// products.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider reading from the given JSON file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Load(ctx context.Context) ([]Product, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, p.path, err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrUnavailable, p.path, err)
	}

	return products, nil
}

// StaticProvider serves a fixed in-memory product list. Useful for tests and
// for serving an already-loaded catalog.
type StaticProvider struct {
	products []Product
}

// NewStaticProvider creates a provider over the given products. The slice is
// copied so later mutation by the caller cannot leak into sessions.
func NewStaticProvider(products []Product) *StaticProvider {
	cp := make([]Product, len(products))
	copy(cp, products)
	return &StaticProvider{products: cp}
}

func (p *StaticProvider) Load(ctx context.Context) ([]Product, error) {
	cp := make([]Product, len(p.products))
	copy(cp, p.products)
	return cp, nil
}
