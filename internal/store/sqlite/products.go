package sqlite

import (
	"context"
	"fmt"

	"github.com/noah-isme/toko-pos/internal/catalog"
)

// GetProduct implements catalog.Store.
func (d *DB) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, price, category FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Category)
	if err != nil {
		return catalog.Product{}, mapError(err)
	}
	return p, nil
}

// ListProducts implements catalog.Store.
func (d *DB) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name, price, category FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertProducts implements catalog.Store. The batch is inserted atomically.
func (d *DB) InsertProducts(ctx context.Context, products []catalog.Product) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO products (id, name, price, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Price, p.Category); err != nil {
			return fmt.Errorf("sqlite: insert product %d: %w", p.ID, mapError(err))
		}
	}
	return tx.Commit()
}

// CountProducts implements catalog.Store.
func (d *DB) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count products: %w", err)
	}
	return n, nil
}
