package leave

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/events"
	"github.com/noah-isme/toko-pos/internal/obs"
)

var (
	// ErrNotFound indicates the employee does not exist.
	ErrNotFound = common.ErrNotFound
	// ErrInvalidInput is returned for malformed employees or requests.
	ErrInvalidInput = common.ErrInvalidInput
	// ErrConflict is returned when an employee ID is already taken.
	ErrConflict = common.ErrConflict
)

const (
	// DefaultMaxCap is the most days a balance may hold after rollover.
	DefaultMaxCap = 30
	// DefaultAccrual is the days granted to every employee per rollover.
	DefaultAccrual = 2
)

// Employee is a roster row.
type Employee struct {
	ID      int64  `json:"id" validate:"gt=0"`
	Name    string `json:"name" validate:"required"`
	Balance int    `json:"balance" validate:"gte=0"`
}

// Store defines the persistence operations required by the leave service.
type Store interface {
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	InsertEmployee(ctx context.Context, e Employee) error
	UpdateBalance(ctx context.Context, id int64, balance int) error
	// AccrueAll sets balance = min(balance+days, maxCap) for every employee and
	// returns the number of rows touched.
	AccrueAll(ctx context.Context, days, maxCap int) (int64, error)
	CountEmployees(ctx context.Context) (int64, error)
	InsertEmployees(ctx context.Context, es []Employee) error
}

// DefaultEmployees is the roster loaded into an empty table.
var DefaultEmployees = []Employee{
	{ID: 101, Name: "Alice", Balance: 12},
	{ID: 102, Name: "Bob", Balance: 29},
	{ID: 103, Name: "Charlie", Balance: 5},
	{ID: 104, Name: "Diana", Balance: 0},
}

// Decision is the outcome of a leave request.
type Decision struct {
	Employee  Employee `json:"employee"`
	Requested int      `json:"requested"`
	Approved  bool     `json:"approved"`
	Balance   int      `json:"balance"`
}

// RolloverResult describes a month end accrual run.
type RolloverResult struct {
	Accrual  int   `json:"accrual"`
	Cap      int   `json:"cap"`
	Affected int64 `json:"affected"`
}

// Service applies leave rules on top of a Store.
type Service struct {
	Store    Store
	MaxCap   int
	Accrual  int
	Events   events.Emitter
	Metrics  *obs.DomainMetrics
	Logger   zerolog.Logger
	Validate *validator.Validate
}

func (s *Service) maxCap() int {
	if s.MaxCap <= 0 {
		return DefaultMaxCap
	}
	return s.MaxCap
}

func (s *Service) accrual() int {
	if s.Accrual < 0 {
		return 0
	}
	return s.Accrual
}

func (s *Service) validator() *validator.Validate {
	if s.Validate == nil {
		s.Validate = validator.New()
	}
	return s.Validate
}

func (s *Service) ready() error {
	if s == nil || s.Store == nil {
		return errors.New("leave service not configured")
	}
	return nil
}

// Add inserts a new employee.
func (s *Service) Add(ctx context.Context, e Employee) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.validator().Struct(e); err != nil {
		return fmt.Errorf("employee %d: %v: %w", e.ID, err, ErrInvalidInput)
	}
	if err := s.Store.InsertEmployee(ctx, e); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return fmt.Errorf("employee ID %d already exists: %w", e.ID, ErrConflict)
		}
		return fmt.Errorf("leave: insert employee: %w", err)
	}
	s.emit(ctx, events.TopicEmployeeAdded, strconv.FormatInt(e.ID, 10), e)
	return nil
}

// List returns the roster ordered by ID.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Store.ListEmployees(ctx)
}

// Apply deducts days from an employee when the balance covers them.
// An insufficient balance is reported through Decision.Approved, not an error.
func (s *Service) Apply(ctx context.Context, id int64, days int) (Decision, error) {
	if err := s.ready(); err != nil {
		return Decision{}, err
	}
	emp, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Decision{}, fmt.Errorf("employee %d: %w", id, ErrNotFound)
		}
		return Decision{}, fmt.Errorf("leave: get employee: %w", err)
	}
	if days <= 0 {
		return Decision{}, fmt.Errorf("invalid days %d: %w", days, ErrInvalidInput)
	}

	decision := Decision{Employee: emp, Requested: days, Balance: emp.Balance}
	if emp.Balance >= days {
		decision.Approved = true
		decision.Balance = emp.Balance - days
		if err := s.Store.UpdateBalance(ctx, id, decision.Balance); err != nil {
			return Decision{}, fmt.Errorf("leave: update balance: %w", err)
		}
		decision.Employee.Balance = decision.Balance
	}

	result := "denied"
	if decision.Approved {
		result = "approved"
	}
	s.Metrics.ObserveLeave(result)
	s.emit(ctx, events.TopicLeaveApplied, strconv.FormatInt(id, 10), decision)
	logger := obs.Logger(ctx, s.Logger)
	logger.Debug().Int64("employee_id", id).Int("days", days).Str("result", result).Int("balance", decision.Balance).Msg("leave request")
	return decision, nil
}

// Rollover grants the monthly accrual to every employee, capped at MaxCap.
func (s *Service) Rollover(ctx context.Context) (RolloverResult, error) {
	if err := s.ready(); err != nil {
		return RolloverResult{}, err
	}
	res := RolloverResult{Accrual: s.accrual(), Cap: s.maxCap()}
	affected, err := s.Store.AccrueAll(ctx, res.Accrual, res.Cap)
	if err != nil {
		return RolloverResult{}, fmt.Errorf("leave: accrue: %w", err)
	}
	res.Affected = affected
	s.Metrics.ObserveRollover()
	s.emit(ctx, events.TopicLeaveRollover, "all", res)
	logger := obs.Logger(ctx, s.Logger)
	logger.Info().Int("accrual", res.Accrual).Int("cap", res.Cap).Int64("affected", affected).Msg("leave rollover")
	return res, nil
}

// Seed loads DefaultEmployees when the roster is empty.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	count, err := s.Store.CountEmployees(ctx)
	if err != nil {
		return false, fmt.Errorf("leave: count employees: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := s.Store.InsertEmployees(ctx, DefaultEmployees); err != nil {
		return false, fmt.Errorf("leave: seed employees: %w", err)
	}
	s.Logger.Info().Int("employees", len(DefaultEmployees)).Msg("roster seeded")
	return true, nil
}

func (s *Service) emit(ctx context.Context, topic, aggregateID string, payload any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, aggregateID, payload); err != nil {
		logger := obs.Logger(ctx, s.Logger)
		logger.Warn().Err(err).Str("topic", topic).Msg("leave event not recorded")
	}
}
