package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

// TickerService implements the ports.TickerService interface. It remembers
// the last successful reading, so it must only be driven by one goroutine.
type TickerService struct {
	fetcher   ports.PriceFetcher
	presenter ports.Presenter
	display   ports.Display
	metrics   ports.MetricsService
	logger    logrus.FieldLogger

	base     *float64
	previous *domain.PriceReading
}

// NewTickerService creates a new ticker service. base may be nil.
func NewTickerService(
	fetcher ports.PriceFetcher,
	presenter ports.Presenter,
	display ports.Display,
	metrics ports.MetricsService,
	base *float64,
	logger logrus.FieldLogger,
) *TickerService {
	return &TickerService{
		fetcher:   fetcher,
		presenter: presenter,
		display:   display,
		metrics:   metrics,
		base:      base,
		logger:    logger.WithField("component", "ticker_service"),
	}
}

// Poll fetches the current price, derives its changes and writes the
// ticker line. On failure nothing is written and the error is returned.
func (s *TickerService) Poll(ctx context.Context) error {
	start := time.Now()

	reading, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.metrics.RecordPollError(time.Since(start))
		return err
	}

	view := domain.Derive(reading, s.previous, s.base)
	s.previous = &reading

	duration := time.Since(start)
	s.metrics.RecordPollSuccess(duration, reading)

	s.display.Println(s.presenter.RenderPrice(view))

	s.logger.WithFields(logrus.Fields{
		"asset":       reading.Asset,
		"price":       reading.PriceUSD,
		"duration_ms": duration.Milliseconds(),
	}).Debug("poll completed")

	return nil
}

// Ensure TickerService implements ports.TickerService
var _ ports.TickerService = (*TickerService)(nil)
