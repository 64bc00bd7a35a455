package retry

import "time"

// Config defines how polling backs off while fetches keep failing
type Config struct {
	Floor   time.Duration // Shortest delay ever returned
	Divisor int64         // Normal interval is divided by this while failing
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Floor:   time.Second,
		Divisor: 10,
	}
}

// Streak tracks consecutive failed attempts. It is owned by a single
// goroutine and is not safe for concurrent use.
type Streak struct {
	cfg      Config
	failures uint
	reported bool
}

// NewStreak creates an empty failure streak
func NewStreak(cfg Config) *Streak {
	if cfg.Divisor < 1 {
		cfg.Divisor = 1
	}
	return &Streak{cfg: cfg}
}

// Fail records a failed attempt. It returns true only for the first failure
// of a streak, which is the one worth reporting.
func (s *Streak) Fail() bool {
	s.failures++
	if s.reported {
		return false
	}
	s.reported = true
	return true
}

// Succeed clears the streak. It returns the number of failures that preceded
// the success.
func (s *Streak) Succeed() uint {
	n := s.failures
	s.failures = 0
	s.reported = false
	return n
}

// Failures returns the length of the current streak
func (s *Streak) Failures() uint {
	return s.failures
}

// Failing reports whether the last attempt failed
func (s *Streak) Failing() bool {
	return s.failures > 0
}

// Delay returns how long to wait before the next attempt given the normal
// interval: the interval itself after a success, a fraction of it (never
// below the floor) while failing.
func (s *Streak) Delay(interval time.Duration) time.Duration {
	if !s.Failing() {
		return interval
	}
	return calculateBackoff(s.cfg, interval)
}

func calculateBackoff(cfg Config, interval time.Duration) time.Duration {
	backoff := interval / time.Duration(cfg.Divisor)

	// Apply floor
	if backoff < cfg.Floor {
		backoff = cfg.Floor
	}

	// Never wait longer than the normal interval
	if backoff > interval && interval > 0 {
		backoff = interval
	}

	return backoff
}
