package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/toko-pos/internal/catalog"
	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/events"
	"github.com/noah-isme/toko-pos/internal/leave"
	"github.com/noah-isme/toko-pos/internal/parking"
)

// GetProduct implements catalog.Store.
func (d *DB) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	err := d.pool.QueryRow(ctx,
		`SELECT id, name, price, category FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Category)
	if err != nil {
		return catalog.Product{}, mapError(err)
	}
	return p, nil
}

// ListProducts implements catalog.Store.
func (d *DB) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name, price, category FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Product, error) {
		var p catalog.Product
		err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category)
		return p, err
	})
}

// InsertProducts implements catalog.Store. The batch is inserted atomically.
func (d *DB) InsertProducts(ctx context.Context, products []catalog.Product) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		for _, p := range products {
			if _, err := tx.Exec(ctx,
				`INSERT INTO products (id, name, price, category) VALUES ($1, $2, $3, $4)`,
				p.ID, p.Name, p.Price, p.Category); err != nil {
				return fmt.Errorf("postgres: insert product %d: %w", p.ID, mapError(err))
			}
		}
		return nil
	})
}

// CountProducts implements catalog.Store.
func (d *DB) CountProducts(ctx context.Context) (int64, error) {
	return d.count(ctx, `SELECT count(*) FROM products`)
}

// GetEmployee implements leave.Store.
func (d *DB) GetEmployee(ctx context.Context, id int64) (leave.Employee, error) {
	var e leave.Employee
	err := d.pool.QueryRow(ctx,
		`SELECT emp_id, name, balance FROM employees WHERE emp_id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Balance)
	if err != nil {
		return leave.Employee{}, mapError(err)
	}
	return e, nil
}

// ListEmployees implements leave.Store.
func (d *DB) ListEmployees(ctx context.Context) ([]leave.Employee, error) {
	rows, err := d.pool.Query(ctx, `SELECT emp_id, name, balance FROM employees ORDER BY emp_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list employees: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (leave.Employee, error) {
		var e leave.Employee
		err := row.Scan(&e.ID, &e.Name, &e.Balance)
		return e, err
	})
}

// InsertEmployee implements leave.Store.
func (d *DB) InsertEmployee(ctx context.Context, e leave.Employee) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO employees (emp_id, name, balance) VALUES ($1, $2, $3)`, e.ID, e.Name, e.Balance)
	return mapError(err)
}

// InsertEmployees implements leave.Store.
func (d *DB) InsertEmployees(ctx context.Context, es []leave.Employee) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		for _, e := range es {
			if _, err := tx.Exec(ctx,
				`INSERT INTO employees (emp_id, name, balance) VALUES ($1, $2, $3)`, e.ID, e.Name, e.Balance); err != nil {
				return fmt.Errorf("postgres: insert employee %d: %w", e.ID, mapError(err))
			}
		}
		return nil
	})
}

// UpdateBalance implements leave.Store.
func (d *DB) UpdateBalance(ctx context.Context, id int64, balance int) error {
	tag, err := d.pool.Exec(ctx, `UPDATE employees SET balance = $1 WHERE emp_id = $2`, balance, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// AccrueAll implements leave.Store in a single statement.
func (d *DB) AccrueAll(ctx context.Context, days, maxCap int) (int64, error) {
	tag, err := d.pool.Exec(ctx, `UPDATE employees SET balance = LEAST(balance + $1, $2)`, days, maxCap)
	if err != nil {
		return 0, fmt.Errorf("postgres: accrue: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountEmployees implements leave.Store.
func (d *DB) CountEmployees(ctx context.Context) (int64, error) {
	return d.count(ctx, `SELECT count(*) FROM employees`)
}

// GetVehicle implements parking.Store.
func (d *DB) GetVehicle(ctx context.Context, plate string) (parking.Vehicle, error) {
	var (
		v    parking.Vehicle
		kind string
	)
	err := d.pool.QueryRow(ctx,
		`SELECT plate, v_type, entry_time, is_vip FROM parking WHERE plate = $1`, plate,
	).Scan(&v.Plate, &kind, &v.EntryTime, &v.VIP)
	if err != nil {
		return parking.Vehicle{}, mapError(err)
	}
	v.Kind = parking.Kind(kind)
	v.EntryTime = v.EntryTime.UTC()
	return v, nil
}

// InsertVehicle implements parking.Store.
func (d *DB) InsertVehicle(ctx context.Context, v parking.Vehicle) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO parking (plate, v_type, entry_time, is_vip) VALUES ($1, $2, $3, $4)`,
		v.Plate, string(v.Kind), v.EntryTime.UTC(), v.VIP)
	return mapError(err)
}

// DeleteVehicle implements parking.Store.
func (d *DB) DeleteVehicle(ctx context.Context, plate string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM parking WHERE plate = $1`, plate)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountVehicles implements parking.Store.
func (d *DB) CountVehicles(ctx context.Context) (int64, error) {
	return d.count(ctx, `SELECT count(*) FROM parking`)
}

// Stats implements parking.Store.
func (d *DB) Stats(ctx context.Context) (parking.Counts, error) {
	var c parking.Counts
	err := d.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE v_type = 'Car'),
		       count(*) FILTER (WHERE v_type = 'Bike'),
		       count(*) FILTER (WHERE is_vip)
		FROM parking`).Scan(&c.Total, &c.Cars, &c.Bikes, &c.VIPs)
	if err != nil {
		return parking.Counts{}, fmt.Errorf("postgres: parking stats: %w", err)
	}
	return c, nil
}

// InsertEvent implements events.Store.
func (d *DB) InsertEvent(ctx context.Context, ev events.Event) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO domain_events (id, topic, aggregate_id, payload, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.Topic, ev.AggregateID, []byte(ev.Payload), ev.OccurredAt)
	return mapError(err)
}

// ListEvents implements events.Store, newest first. A blank topic matches all.
func (d *DB) ListEvents(ctx context.Context, topic string, limit int) ([]events.Event, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, topic, aggregate_id, payload, occurred_at
		FROM domain_events
		WHERE $1 = '' OR topic = $1
		ORDER BY occurred_at DESC
		LIMIT $2`, topic, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list events: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (events.Event, error) {
		var (
			ev      events.Event
			payload []byte
		)
		err := row.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &payload, &ev.OccurredAt)
		ev.Payload = payload
		ev.OccurredAt = ev.OccurredAt.UTC()
		return ev, err
	})
}

func (d *DB) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := d.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}
