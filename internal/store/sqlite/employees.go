package sqlite

import (
	"context"
	"fmt"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/leave"
)

// GetEmployee implements leave.Store.
func (d *DB) GetEmployee(ctx context.Context, id int64) (leave.Employee, error) {
	var e leave.Employee
	err := d.db.QueryRowContext(ctx,
		`SELECT emp_id, name, balance FROM employees WHERE emp_id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Balance)
	if err != nil {
		return leave.Employee{}, mapError(err)
	}
	return e, nil
}

// ListEmployees implements leave.Store.
func (d *DB) ListEmployees(ctx context.Context) ([]leave.Employee, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT emp_id, name, balance FROM employees ORDER BY emp_id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list employees: %w", err)
	}
	defer rows.Close()

	var out []leave.Employee
	for rows.Next() {
		var e leave.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Balance); err != nil {
			return nil, fmt.Errorf("sqlite: scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertEmployee implements leave.Store.
func (d *DB) InsertEmployee(ctx context.Context, e leave.Employee) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO employees (emp_id, name, balance) VALUES (?, ?, ?)`, e.ID, e.Name, e.Balance)
	return mapError(err)
}

// InsertEmployees implements leave.Store.
func (d *DB) InsertEmployees(ctx context.Context, es []leave.Employee) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range es {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO employees (emp_id, name, balance) VALUES (?, ?, ?)`, e.ID, e.Name, e.Balance); err != nil {
			return fmt.Errorf("sqlite: insert employee %d: %w", e.ID, mapError(err))
		}
	}
	return tx.Commit()
}

// UpdateBalance implements leave.Store.
func (d *DB) UpdateBalance(ctx context.Context, id int64, balance int) error {
	res, err := d.db.ExecContext(ctx, `UPDATE employees SET balance = ? WHERE emp_id = ?`, balance, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// AccrueAll implements leave.Store in a single statement.
func (d *DB) AccrueAll(ctx context.Context, days, maxCap int) (int64, error) {
	res, err := d.db.ExecContext(ctx, `UPDATE employees SET balance = MIN(balance + ?, ?)`, days, maxCap)
	if err != nil {
		return 0, fmt.Errorf("sqlite: accrue: %w", err)
	}
	return res.RowsAffected()
}

// CountEmployees implements leave.Store.
func (d *DB) CountEmployees(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.QueryRowContext(ctx, `SELECT count(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count employees: %w", err)
	}
	return n, nil
}
