package ports

import (
	"context"
	"time"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
)

// Schedule is the polling interval and wake signal shared between the
// keyboard and the poller
type Schedule interface {
	// Interval returns the current polling interval
	Interval() time.Duration

	// Floor returns the smallest interval the schedule allows
	Floor() time.Duration

	// WaitOrWake blocks for d or until a wake is requested, returning true
	// when woken early
	WaitOrWake(ctx context.Context, d time.Duration) bool

	// ConsumeWake clears a pending wake request
	ConsumeWake()
}

// TickerService runs one fetch, derive and render cycle
type TickerService interface {
	// Poll fetches a reading and writes its ticker line to the display
	Poll(ctx context.Context) error
}

// MetricsService records session statistics
type MetricsService interface {
	// RecordPollSuccess records a successful poll and its reading
	RecordPollSuccess(duration time.Duration, reading domain.PriceReading)

	// RecordPollError records a failed poll
	RecordPollError(duration time.Duration)

	// Stats returns a snapshot of the session statistics
	Stats() domain.SessionStats
}
