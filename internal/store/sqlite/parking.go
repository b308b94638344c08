package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/parking"
)

// GetVehicle implements parking.Store.
func (d *DB) GetVehicle(ctx context.Context, plate string) (parking.Vehicle, error) {
	var (
		v     parking.Vehicle
		kind  string
		entry string
		vip   int
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT plate, v_type, entry_time, is_vip FROM parking WHERE plate = ?`, plate,
	).Scan(&v.Plate, &kind, &entry, &vip)
	if err != nil {
		return parking.Vehicle{}, mapError(err)
	}
	t, err := time.ParseInLocation(parking.TimeLayout, entry, time.UTC)
	if err != nil {
		return parking.Vehicle{}, fmt.Errorf("sqlite: parse entry time %q: %w", entry, err)
	}
	v.Kind = parking.Kind(kind)
	v.EntryTime = t
	v.VIP = vip == 1
	return v, nil
}

// InsertVehicle implements parking.Store.
func (d *DB) InsertVehicle(ctx context.Context, v parking.Vehicle) error {
	vip := 0
	if v.VIP {
		vip = 1
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO parking (plate, v_type, entry_time, is_vip) VALUES (?, ?, ?, ?)`,
		v.Plate, string(v.Kind), v.EntryTime.UTC().Format(parking.TimeLayout), vip)
	return mapError(err)
}

// DeleteVehicle implements parking.Store.
func (d *DB) DeleteVehicle(ctx context.Context, plate string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM parking WHERE plate = ?`, plate)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountVehicles implements parking.Store.
func (d *DB) CountVehicles(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.QueryRowContext(ctx, `SELECT count(*) FROM parking`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count vehicles: %w", err)
	}
	return n, nil
}

// Stats implements parking.Store.
func (d *DB) Stats(ctx context.Context) (parking.Counts, error) {
	var c parking.Counts
	err := d.db.QueryRowContext(ctx, `
		SELECT count(*),
		       coalesce(sum(CASE WHEN v_type = 'Car' THEN 1 ELSE 0 END), 0),
		       coalesce(sum(CASE WHEN v_type = 'Bike' THEN 1 ELSE 0 END), 0),
		       coalesce(sum(CASE WHEN is_vip = 1 THEN 1 ELSE 0 END), 0)
		FROM parking`).Scan(&c.Total, &c.Cars, &c.Bikes, &c.VIPs)
	if err != nil {
		return parking.Counts{}, fmt.Errorf("sqlite: parking stats: %w", err)
	}
	return c, nil
}
