package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

// Schedule holds the polling interval and the wake flag shared by the
// keyboard and the poller. All methods are safe for concurrent use.
type Schedule struct {
	floor   time.Duration
	ceiling time.Duration

	mu       sync.Mutex
	interval time.Duration
	woken    bool
	wakeCh   chan struct{} // Holds a token while woken is set
}

// NewSchedule creates a schedule. The interval is always kept within
// [floor, ceiling]; a non-positive floor is raised to one millisecond.
func NewSchedule(interval, floor, ceiling time.Duration) *Schedule {
	if floor <= 0 {
		floor = time.Millisecond
	}
	if ceiling < floor {
		ceiling = floor
	}

	s := &Schedule{
		floor:   floor,
		ceiling: ceiling,
		wakeCh:  make(chan struct{}, 1),
	}
	s.interval = s.clamp(interval)

	return s
}

// Interval returns the current polling interval
func (s *Schedule) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Floor returns the smallest interval the schedule allows
func (s *Schedule) Floor() time.Duration {
	return s.floor
}

// SetInterval replaces the interval and returns the value actually stored
func (s *Schedule) SetInterval(d time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = s.clamp(d)
	return s.interval
}

// Halve polls twice as often, stopping at the floor
func (s *Schedule) Halve() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = s.clamp(s.interval / 2)
	return s.interval
}

// Double polls half as often, stopping at the ceiling
func (s *Schedule) Double() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interval > s.ceiling/2 {
		s.interval = s.ceiling
	} else {
		s.interval = s.clamp(s.interval * 2)
	}
	return s.interval
}

// RequestWake asks the poller to re-evaluate the schedule now. The request
// stays pending until ConsumeWake, so it is not lost if the poller is busy.
func (s *Schedule) RequestWake() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.woken = true
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// WakeRequested reports whether a wake is pending
func (s *Schedule) WakeRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.woken
}

// WaitOrWake blocks for d, until a wake is requested or until ctx is done.
// It returns true when a wake ended the wait, including one that was already
// pending on entry.
func (s *Schedule) WaitOrWake(ctx context.Context, d time.Duration) bool {
	if s.WakeRequested() {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-s.wakeCh:
		return true
	case <-timer.C:
		return s.WakeRequested()
	case <-ctx.Done():
		return false
	}
}

// ConsumeWake clears a pending wake request
func (s *Schedule) ConsumeWake() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.woken = false
	select {
	case <-s.wakeCh:
	default:
	}
}

func (s *Schedule) clamp(d time.Duration) time.Duration {
	if d < s.floor {
		return s.floor
	}
	if d > s.ceiling {
		return s.ceiling
	}
	return d
}

// Ensure Schedule implements ports.Schedule
var _ ports.Schedule = (*Schedule)(nil)
