package catalog

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/shop-scout/internal/db"
)

// Store persists the product catalog in SQLite and implements Provider.
type Store struct {
	db *db.DB
}

// NewStore creates a catalog store over the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Load returns all products ordered by id, matching the import order.
func (s *Store) Load(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, brand, color, price, category FROM products ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Color, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrUnavailable, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating products: %v", ErrUnavailable, err)
	}

	return products, nil
}

// Upsert inserts or replaces a single product.
func (s *Store) Upsert(ctx context.Context, p Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, brand, color, price, category)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, brand = excluded.brand, color = excluded.color,
		   price = excluded.price, category = excluded.category`,
		p.ID, p.Name, p.Brand, p.Color, p.Price, p.Category,
	)
	if err != nil {
		return fmt.Errorf("upserting product %d: %w", p.ID, err)
	}
	return nil
}

// Import loads products from the given provider into the store. It reports
// progress through the optional callback (called once per product).
func (s *Store) Import(ctx context.Context, from Provider, progress func(p Product)) (int, error) {
	products, err := from.Load(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (id, name, brand, color, price, category)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, brand = excluded.brand, color = excluded.color,
		   price = excluded.price, category = excluded.category`)
	if err != nil {
		return 0, fmt.Errorf("preparing import: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Brand, p.Color, p.Price, p.Category); err != nil {
			return 0, fmt.Errorf("importing product %d: %w", p.ID, err)
		}
		if progress != nil {
			progress(p)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(products), nil
}

// Count returns the number of products in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}
