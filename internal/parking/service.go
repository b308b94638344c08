package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/events"
	"github.com/noah-isme/toko-pos/internal/obs"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

var (
	// ErrNotFound indicates the vehicle is not parked.
	ErrNotFound = common.ErrNotFound
	// ErrConflict indicates the vehicle is already inside.
	ErrConflict = common.ErrConflict
	// ErrCapacity is returned when every slot is taken.
	ErrCapacity = common.NewAppError("parking_full", "Parking Full!", common.KindInvalidInput, fmt.Errorf("parking full: %w", common.ErrInvalidInput))
)

// DefaultSlots is the lot capacity when none is configured.
const DefaultSlots = 10

// Vehicle is a parked vehicle row.
type Vehicle struct {
	Plate     string    `json:"plate"`
	Kind      Kind      `json:"kind"`
	EntryTime time.Time `json:"entry_time"`
	VIP       bool      `json:"vip"`
}

// Counts are the occupancy figures the store aggregates.
type Counts struct {
	Total int64
	Cars  int64
	Bikes int64
	VIPs  int64
}

// Store defines the persistence operations required by the parking service.
type Store interface {
	GetVehicle(ctx context.Context, plate string) (Vehicle, error)
	InsertVehicle(ctx context.Context, v Vehicle) error
	DeleteVehicle(ctx context.Context, plate string) error
	CountVehicles(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (Counts, error)
}

// Entry is the result of parking a vehicle.
type Entry struct {
	Vehicle Vehicle `json:"vehicle"`
	Notice  string  `json:"notice"`
}

// Ticket is the exit receipt.
type Ticket struct {
	Vehicle  Vehicle       `json:"vehicle"`
	ExitTime time.Time     `json:"exit_time"`
	Duration time.Duration `json:"duration"`
	Policy   Policy        `json:"-"`
	Amount   pricing.Money `json:"amount"`
}

// Stats is the live analytics view.
type Stats struct {
	Total int64 `json:"total"`
	Slots int   `json:"slots"`
	Cars  int64 `json:"cars"`
	Bikes int64 `json:"bikes"`
	VIPs  int64 `json:"vips"`
}

// Service allocates slots and bills stays.
type Service struct {
	Store   Store
	Slots   int
	Guard   Guard
	Now     func() time.Time
	Events  events.Emitter
	Metrics *obs.DomainMetrics
	Logger  zerolog.Logger
}

// Guard serialises lot mutations between terminals sharing a store.
type Guard interface {
	Do(ctx context.Context, name string, fn func(context.Context) error) error
}

const lotLock = "parking:lot"

func (s *Service) locked(ctx context.Context, fn func(context.Context) error) error {
	if s.Guard == nil {
		return fn(ctx)
	}
	return s.Guard.Do(ctx, lotLock, fn)
}

func (s *Service) slots() int {
	if s.Slots <= 0 {
		return DefaultSlots
	}
	return s.Slots
}

func (s *Service) now() time.Time {
	t := time.Now()
	if s.Now != nil {
		t = s.Now()
	}
	return t.UTC().Truncate(time.Second)
}

func (s *Service) ready() error {
	if s == nil || s.Store == nil {
		return errors.New("parking service not configured")
	}
	return nil
}

// Park admits a vehicle when a slot is free and it is not already inside.
func (s *Service) Park(ctx context.Context, plate string, kind Kind, vip bool) (Entry, error) {
	if err := s.ready(); err != nil {
		return Entry{}, err
	}
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return Entry{}, fmt.Errorf("plate number is required: %w", common.ErrInvalidInput)
	}
	if kind != KindCar && kind != KindBike {
		return Entry{}, fmt.Errorf("unknown vehicle type %q: %w", kind, common.ErrInvalidInput)
	}
	policy := PolicyFor(vip)
	v := Vehicle{Plate: plate, Kind: kind, VIP: vip}
	err := s.locked(ctx, func(ctx context.Context) error {
		count, err := s.Store.CountVehicles(ctx)
		if err != nil {
			return fmt.Errorf("parking: count vehicles: %w", err)
		}
		if count >= int64(s.slots()) {
			return ErrCapacity
		}
		if _, err := s.Store.GetVehicle(ctx, plate); err == nil {
			return fmt.Errorf("vehicle %s already inside: %w", plate, ErrConflict)
		} else if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("parking: get vehicle: %w", err)
		}
		v.EntryTime = s.now()
		if err := s.Store.InsertVehicle(ctx, v); err != nil {
			if errors.Is(err, common.ErrConflict) {
				return fmt.Errorf("vehicle %s already inside: %w", plate, ErrConflict)
			}
			return fmt.Errorf("parking: insert vehicle: %w", err)
		}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	s.Metrics.ObserveParking("entry", policy.Name, 0)
	s.emit(ctx, events.TopicParkingEntered, plate, v)
	logger := obs.Logger(ctx, s.Logger)
	logger.Debug().Str("plate", plate).Str("kind", string(kind)).Str("policy", policy.Name).Msg("vehicle parked")
	return Entry{Vehicle: v, Notice: policy.Notice(plate)}, nil
}

// Exit bills the stay and frees the slot.
func (s *Service) Exit(ctx context.Context, plate string) (Ticket, error) {
	if err := s.ready(); err != nil {
		return Ticket{}, err
	}
	plate = strings.TrimSpace(plate)
	var ticket Ticket
	err := s.locked(ctx, func(ctx context.Context) error {
		v, err := s.Store.GetVehicle(ctx, plate)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("vehicle %q: %w", plate, ErrNotFound)
			}
			return fmt.Errorf("parking: get vehicle: %w", err)
		}
		exit := s.now()
		duration := exit.Sub(v.EntryTime)
		if duration < 0 {
			duration = 0
		}
		policy := PolicyFor(v.VIP)
		ticket = Ticket{
			Vehicle:  v,
			ExitTime: exit,
			Duration: duration,
			Policy:   policy,
			Amount:   policy.Bill(v.Kind, duration),
		}
		if err := s.Store.DeleteVehicle(ctx, plate); err != nil {
			return fmt.Errorf("parking: delete vehicle: %w", err)
		}
		return nil
	})
	if err != nil {
		return Ticket{}, err
	}
	v, policy, duration, exit := ticket.Vehicle, ticket.Policy, ticket.Duration, ticket.ExitTime
	s.Metrics.ObserveParking("exit", policy.Name, ticket.Amount)
	s.emit(ctx, events.TopicParkingExited, plate, map[string]any{
		"plate":    plate,
		"kind":     v.Kind,
		"policy":   policy.Name,
		"seconds":  int64(duration / time.Second),
		"amount":   ticket.Amount,
		"exit_utc": exit.Format(TimeLayout),
	})
	logger := obs.Logger(ctx, s.Logger)
	logger.Debug().Str("plate", plate).Dur("duration", duration).Int64("amount", ticket.Amount).Msg("vehicle exited")
	return ticket, nil
}

// Analytics reports current occupancy.
func (s *Service) Analytics(ctx context.Context) (Stats, error) {
	if err := s.ready(); err != nil {
		return Stats{}, err
	}
	c, err := s.Store.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("parking: stats: %w", err)
	}
	return Stats{Total: c.Total, Slots: s.slots(), Cars: c.Cars, Bikes: c.Bikes, VIPs: c.VIPs}, nil
}

func (s *Service) emit(ctx context.Context, topic, aggregateID string, payload any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, aggregateID, payload); err != nil {
		logger := obs.Logger(ctx, s.Logger)
		logger.Warn().Err(err).Str("topic", topic).Msg("parking event not recorded")
	}
}
