package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/toko-pos/internal/events"
)

// fixed width so the TEXT column sorts chronologically
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z"

// InsertEvent implements events.Store.
func (d *DB) InsertEvent(ctx context.Context, ev events.Event) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO domain_events (id, topic, aggregate_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.Topic, ev.AggregateID, string(ev.Payload), ev.OccurredAt.UTC().Format(eventTimeLayout))
	return mapError(err)
}

// ListEvents implements events.Store, newest first. A blank topic matches all.
func (d *DB) ListEvents(ctx context.Context, topic string, limit int) ([]events.Event, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, topic, aggregate_id, payload, occurred_at
		FROM domain_events
		WHERE ? = '' OR topic = ?
		ORDER BY occurred_at DESC, rowid DESC
		LIMIT ?`, topic, topic, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			ev       events.Event
			payload  string
			occurred string
		)
		if err := rows.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &payload, &occurred); err != nil {
			return nil, fmt.Errorf("sqlite: scan event: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, occurred)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse time %q: %w", occurred, err)
		}
		ev.Payload = []byte(payload)
		ev.OccurredAt = t
		out = append(out, ev)
	}
	return out, rows.Err()
}
