package leave_test

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/events"
	"github.com/noah-isme/toko-pos/internal/leave"
	"github.com/noah-isme/toko-pos/internal/obs"
)

type memoryStore struct {
	rows map[int64]leave.Employee
}

func newMemoryStore(es ...leave.Employee) *memoryStore {
	s := &memoryStore{rows: map[int64]leave.Employee{}}
	for _, e := range es {
		s.rows[e.ID] = e
	}
	return s
}

func (s *memoryStore) GetEmployee(_ context.Context, id int64) (leave.Employee, error) {
	e, ok := s.rows[id]
	if !ok {
		return leave.Employee{}, common.ErrNotFound
	}
	return e, nil
}

func (s *memoryStore) ListEmployees(context.Context) ([]leave.Employee, error) {
	out := make([]leave.Employee, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) InsertEmployee(_ context.Context, e leave.Employee) error {
	if _, ok := s.rows[e.ID]; ok {
		return common.ErrConflict
	}
	s.rows[e.ID] = e
	return nil
}

func (s *memoryStore) UpdateBalance(_ context.Context, id int64, balance int) error {
	e, ok := s.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	e.Balance = balance
	s.rows[id] = e
	return nil
}

func (s *memoryStore) AccrueAll(_ context.Context, days, maxCap int) (int64, error) {
	for id, e := range s.rows {
		e.Balance = min(e.Balance+days, maxCap)
		s.rows[id] = e
	}
	return int64(len(s.rows)), nil
}

func (s *memoryStore) CountEmployees(context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

func (s *memoryStore) InsertEmployees(ctx context.Context, es []leave.Employee) error {
	for _, e := range es {
		if err := s.InsertEmployee(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

type captureEmitter struct {
	topics []string
	err    error
}

func (c *captureEmitter) Emit(_ context.Context, topic, aggregateID string, _ any) (events.Event, error) {
	c.topics = append(c.topics, topic)
	if c.err != nil {
		return events.Event{}, c.err
	}
	return events.Event{Topic: topic, AggregateID: aggregateID}, nil
}

func seededService(t *testing.T) (*leave.Service, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	svc := &leave.Service{Store: store, MaxCap: 30, Accrual: 2}
	seeded, err := svc.Seed(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)
	return svc, store
}

func TestApplyApprovesAndDeducts(t *testing.T) {
	svc, store := seededService(t)
	emitter := &captureEmitter{}
	metrics := obs.NewDomainMetrics("pos", prometheus.NewRegistry())
	svc.Events = emitter
	svc.Metrics = metrics

	d, err := svc.Apply(context.Background(), 101, 5)
	require.NoError(t, err)
	require.True(t, d.Approved)
	require.Equal(t, 7, d.Balance)
	require.Equal(t, 7, store.rows[101].Balance)
	require.Equal(t, []string{events.TopicLeaveApplied}, emitter.topics)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.LeaveRequests.WithLabelValues("approved")))
}

func TestApplyExactBalanceIsApproved(t *testing.T) {
	svc, store := seededService(t)
	d, err := svc.Apply(context.Background(), 103, 5)
	require.NoError(t, err)
	require.True(t, d.Approved)
	require.Zero(t, store.rows[103].Balance)
}

func TestApplyDeniesInsufficientBalance(t *testing.T) {
	svc, store := seededService(t)
	d, err := svc.Apply(context.Background(), 104, 1)
	require.NoError(t, err)
	require.False(t, d.Approved)
	require.Zero(t, d.Balance)
	require.Equal(t, "Diana", d.Employee.Name)
	require.Zero(t, store.rows[104].Balance)
}

func TestApplyErrors(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, 999, 1)
	require.ErrorIs(t, err, leave.ErrNotFound)

	_, err = svc.Apply(ctx, 101, 0)
	require.ErrorIs(t, err, leave.ErrInvalidInput)
	_, err = svc.Apply(ctx, 101, -3)
	require.ErrorIs(t, err, leave.ErrInvalidInput)

	// unknown employees are reported before the day count is checked
	_, err = svc.Apply(ctx, 999, 0)
	require.ErrorIs(t, err, leave.ErrNotFound)
}

func TestRolloverCapsBalances(t *testing.T) {
	svc, store := seededService(t)
	res, err := svc.Rollover(context.Background())
	require.NoError(t, err)
	require.Equal(t, leave.RolloverResult{Accrual: 2, Cap: 30, Affected: 4}, res)
	require.Equal(t, 14, store.rows[101].Balance)
	require.Equal(t, 30, store.rows[102].Balance)
	require.Equal(t, 7, store.rows[103].Balance)
	require.Equal(t, 2, store.rows[104].Balance)

	_, err = svc.Rollover(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30, store.rows[102].Balance)
}

func TestRolloverDefaults(t *testing.T) {
	store := newMemoryStore(leave.Employee{ID: 1, Name: "Eve", Balance: 29})
	svc := &leave.Service{Store: store}
	res, err := svc.Rollover(context.Background())
	require.NoError(t, err)
	require.Equal(t, leave.DefaultMaxCap, res.Cap)
	require.Zero(t, res.Accrual)
	require.Equal(t, 29, store.rows[1].Balance)
}

func TestAddEmployee(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, leave.Employee{ID: 105, Name: "Eve", Balance: 10}))
	err := svc.Add(ctx, leave.Employee{ID: 105, Name: "Eve again", Balance: 1})
	require.ErrorIs(t, err, leave.ErrConflict)
	require.Contains(t, common.Describe(err), "Warning:")

	require.ErrorIs(t, svc.Add(ctx, leave.Employee{ID: 0, Name: "Zero"}), leave.ErrInvalidInput)
	require.ErrorIs(t, svc.Add(ctx, leave.Employee{ID: 106, Name: ""}), leave.ErrInvalidInput)
	require.ErrorIs(t, svc.Add(ctx, leave.Employee{ID: 107, Name: "Neg", Balance: -1}), leave.ErrInvalidInput)

	roster, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 5)
	require.Equal(t, int64(105), roster[4].ID)
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	svc, _ := seededService(t)
	seeded, err := svc.Seed(context.Background())
	require.NoError(t, err)
	require.False(t, seeded)

	var empty *leave.Service
	_, err = empty.List(context.Background())
	require.Error(t, err)
}

func TestServiceLogsCarrySession(t *testing.T) {
	var buf bytes.Buffer
	svc := &leave.Service{
		Store:  newMemoryStore(leave.Employee{ID: 101, Name: "Alice", Balance: 12}),
		Events: &captureEmitter{err: errors.New("store down")},
		Logger: obs.NewLoggerTo(&buf, "json", "debug"),
	}
	ctx := obs.WithSession(context.Background(), "hr-1")

	_, err := svc.Apply(ctx, 101, 2)
	require.NoError(t, err)
	_, err = svc.Rollover(ctx)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"message":"leave request"`)
	require.Contains(t, out, `"message":"leave rollover"`)
	require.Contains(t, out, `"message":"leave event not recorded"`)
	require.Equal(t, strings.Count(out, "\n"), strings.Count(out, `"session_id":"hr-1"`))
}
