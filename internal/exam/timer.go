package exam

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State of an exam timer. Transitions are linear: Idle -> Running -> Stopped.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason records why a timer reached StateStopped.
type StopReason string

const (
	ReasonNone      StopReason = ""
	ReasonManual    StopReason = "manual"
	ReasonExpired   StopReason = "expired"
	ReasonCancelled StopReason = "cancelled"
)

// PerQuestion is the time budget granted for each question.
const PerQuestion = time.Minute

// ErrNotIdle is returned when Start is called on a timer that already ran.
var ErrNotIdle = errors.New("exam timer is not idle")

// Option customises a Timer.
type Option func(*Timer)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(t *Timer) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithOnExpire registers a callback invoked once, from the timer goroutine, when time runs out.
func WithOnExpire(fn func()) Option {
	return func(t *Timer) { t.onExpire = fn }
}

// Timer counts down an exam in whole seconds.
type Timer struct {
	mu        sync.Mutex
	clock     Clock
	onExpire  func()
	duration  int
	remaining int
	state     State
	reason    StopReason
	startedAt time.Time
	stoppedAt time.Time
	cancel    context.CancelFunc
	run       uint64
	expired   chan struct{}
	done      chan struct{}
}

// NewTimer grants one minute per question.
func NewTimer(questionCount int, opts ...Option) *Timer {
	if questionCount < 0 {
		questionCount = 0
	}
	return NewTimerWithDuration(time.Duration(questionCount)*PerQuestion, opts...)
}

// NewTimerWithDuration builds a timer for an explicit budget, truncated to whole seconds.
func NewTimerWithDuration(d time.Duration, opts ...Option) *Timer {
	seconds := int(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	t := &Timer{
		clock:     SystemClock,
		duration:  seconds,
		remaining: seconds,
		expired:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start records the start instant and begins ticking once per second.
func (t *Timer) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateIdle {
		return ErrNotIdle
	}
	t.state = StateRunning
	t.startedAt = t.clock.Now()

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.run++
	ticker := t.clock.NewTicker(time.Second)
	go t.loop(runCtx, t.run, ticker, t.done)
	return nil
}

// loop drives one run. A run only touches the timer while it is still the current run.
func (t *Timer) loop(ctx context.Context, run uint64, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	if t.tick(run, 0) {
		t.fireExpire()
		return
	}
	for {
		select {
		case <-ctx.Done():
			t.finish(run, ReasonCancelled)
			return
		case <-ticker.C():
			if t.tick(run, 1) {
				t.fireExpire()
				return
			}
		}
	}
}

// tick decrements by step and reports whether the timer just expired.
func (t *Timer) tick(run uint64, step int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.run != run || t.state != StateRunning {
		return false
	}
	t.remaining -= step
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	t.state = StateStopped
	t.reason = ReasonExpired
	t.stoppedAt = t.clock.Now()
	close(t.expired)
	return true
}

func (t *Timer) fireExpire() {
	if t.onExpire != nil {
		t.onExpire()
	}
}

func (t *Timer) finish(run uint64, reason StopReason) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.run != run || t.state != StateRunning {
		return false
	}
	t.state = StateStopped
	t.reason = reason
	t.stoppedAt = t.clock.Now()
	return true
}

// Stop halts a running timer. It reports false when the timer was not running.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	run := t.run
	cancel := t.cancel
	t.mu.Unlock()
	stopped := t.finish(run, ReasonManual)
	if cancel != nil {
		cancel()
	}
	return stopped
}

// Reset returns a stopped or idle timer to its full budget in StateIdle. Ticks still
// pending from the previous run are discarded.
func (t *Timer) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateRunning {
		return errors.New("exam timer is running")
	}
	if t.state == StateIdle {
		return nil
	}
	t.state = StateIdle
	t.reason = ReasonNone
	t.remaining = t.duration
	t.startedAt = time.Time{}
	t.stoppedAt = time.Time{}
	t.cancel = nil
	t.run++
	t.expired = make(chan struct{})
	t.done = make(chan struct{})
	return nil
}

// Expired is closed when the countdown reaches zero.
func (t *Timer) Expired() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expired
}

// Done is closed once the ticking goroutine has exited.
func (t *Timer) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reason returns why the timer stopped, or ReasonNone.
func (t *Timer) Reason() StopReason {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

// Remaining returns the seconds left, never negative.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Duration is the full budget in seconds.
func (t *Timer) Duration() int {
	return t.duration
}

// Elapsed is the wall-clock time since Start, capped at the budget.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateIdle {
		return 0
	}
	end := t.stoppedAt
	if t.state == StateRunning {
		end = t.clock.Now()
	}
	elapsed := int(end.Sub(t.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > t.duration {
		elapsed = t.duration
	}
	return elapsed
}

// FormatRemaining renders the remaining time as MM:SS.
func (t *Timer) FormatRemaining() string {
	return FormatSeconds(t.Remaining())
}

// FormatElapsed renders the elapsed time as MM:SS.
func (t *Timer) FormatElapsed() string {
	return FormatSeconds(t.Elapsed())
}
