package resilience

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrOpenCircuit is returned when the circuit breaker refuses a call.
var ErrOpenCircuit = errors.New("resilience: circuit breaker open")

// State represents the current breaker state.
type State int

const (
	// Closed accepts all calls and counts consecutive failures.
	Closed State = iota
	// Open rejects calls until the cool-off period expires.
	Open
	// HalfOpen lets a single probe through to test recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker opens after a run of consecutive failures and stays open for a
// cool-off period. A nil *Breaker allows every call.
type Breaker struct {
	mu        sync.Mutex
	state     State
	failures  int
	threshold int
	openedAt  time.Time
	openFor   time.Duration
	target    string
	logger    zerolog.Logger
	metrics   *Metrics
	now       func() time.Time
}

// Options configures a Breaker.
type Options struct {
	Target    string
	Threshold int
	OpenFor   time.Duration
	Logger    zerolog.Logger
	Metrics   *Metrics
	Now       func() time.Time
}

// NewBreaker constructs a breaker from opts, defaulting to three failures and a 30s cool-off.
func NewBreaker(opts Options) *Breaker {
	if opts.Threshold <= 0 {
		opts.Threshold = 3
	}
	if opts.OpenFor <= 0 {
		opts.OpenFor = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	target := strings.TrimSpace(opts.Target)
	if target == "" {
		target = "default"
	}
	b := &Breaker{
		state:     Closed,
		threshold: opts.Threshold,
		openFor:   opts.OpenFor,
		target:    target,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	b.metrics.setState(target, Closed)
	return b
}

// State returns the current state.
func (b *Breaker) State() State {
	if b == nil {
		return Closed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may proceed. After the cool-off an open breaker
// moves to half-open and admits one probe.
func (b *Breaker) Allow() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) >= b.openFor {
			b.changeStateLocked(HalfOpen)
			return true
		}
		return false
	case HalfOpen:
		// a probe is already in flight
		return false
	default:
		return true
	}
}

// Report records the outcome of an admitted call.
func (b *Breaker) Report(success bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		return
	case HalfOpen:
		if success {
			b.changeStateLocked(Closed)
		} else {
			b.changeStateLocked(Open)
		}
		return
	}
	if success {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.changeStateLocked(Open)
	}
}

// Do runs fn when the breaker allows it. fn reports whether its error counts
// as a dependency failure through the failed predicate; nil means any error does.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error, failed func(error) bool) error {
	if !b.Allow() {
		return ErrOpenCircuit
	}
	err := fn(ctx)
	isFailure := err != nil
	if err != nil && failed != nil {
		isFailure = failed(err)
	}
	b.Report(!isFailure)
	return err
}

func (b *Breaker) changeStateLocked(next State) {
	prev := b.state
	if prev == next {
		return
	}
	b.state = next
	switch next {
	case Open:
		b.openedAt = b.now()
	case Closed:
		b.openedAt = time.Time{}
	}
	b.failures = 0
	b.metrics.setState(b.target, next)
	b.metrics.transition(b.target, prev, next)
	b.logger.Info().Str("target", b.target).Str("from_state", prev.String()).Str("to_state", next.String()).Msg("breaker_transition")
}
