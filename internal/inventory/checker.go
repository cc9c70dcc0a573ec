package inventory

import (
	"context"
	"math/rand"
	"sync"
)

// Checker answers whether a product is currently in stock. It models an
// external real-time inventory read; the session never writes through it.
type Checker interface {
	InStock(ctx context.Context, productID int) (bool, error)
}

// SimulatedChecker fakes an inventory API: each lookup is in stock with
// probability 3/4. A fixed seed makes a session reproducible.
type SimulatedChecker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedChecker creates a simulated checker with the given seed.
func NewSimulatedChecker(seed int64) *SimulatedChecker {
	return &SimulatedChecker{rng: rand.New(rand.NewSource(seed))}
}

func (c *SimulatedChecker) InStock(ctx context.Context, productID int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Intn(4) != 0, nil
}

// FixedChecker serves a fixed stock table. Products missing from the table
// are treated as in stock.
type FixedChecker struct {
	Stock map[int]bool
}

func (c *FixedChecker) InStock(ctx context.Context, productID int) (bool, error) {
	if inStock, ok := c.Stock[productID]; ok {
		return inStock, nil
	}
	return true, nil
}
