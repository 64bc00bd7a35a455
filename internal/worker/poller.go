package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prxgr4mmer/price-ticker/internal/ports"
	"github.com/prxgr4mmer/price-ticker/pkg/retry"
)

// Poller fetches and renders prices on the cadence held by the schedule
type Poller struct {
	service   ports.TickerService
	schedule  ports.Schedule
	display   ports.Display
	presenter ports.Presenter
	streak    *retry.Streak
	logger    logrus.FieldLogger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// NewPoller creates a new price poller. Failed polls are retried after the
// interval divided by backoff.Divisor, never sooner than backoff.Floor.
func NewPoller(
	service ports.TickerService,
	schedule ports.Schedule,
	display ports.Display,
	presenter ports.Presenter,
	backoff retry.Config,
	logger logrus.FieldLogger,
) *Poller {
	return &Poller{
		service:   service,
		schedule:  schedule,
		display:   display,
		presenter: presenter,
		streak:    retry.NewStreak(backoff),
		logger:    logger.WithField("component", "poller"),
		doneCh:    make(chan struct{}),
	}
}

// Start polls until ctx is cancelled or Stop is called
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	p.running = true
	p.cancel = cancel
	p.doneCh = make(chan struct{})
	doneCh := p.doneCh
	p.mu.Unlock()

	defer func() {
		cancel()
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		close(doneCh)
	}()

	p.logger.WithField("interval", p.schedule.Interval().String()).Info("starting poller")

	for {
		p.poll(ctx)

		wait := p.streak.Delay(p.schedule.Interval())
		woken := p.schedule.WaitOrWake(ctx, wait)
		p.schedule.ConsumeWake()

		if ctx.Err() != nil {
			p.logger.Info("poller stopped")
			return ctx.Err()
		}

		if woken {
			p.logger.Debug("woken before interval elapsed")
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	err := p.service.Poll(ctx)
	if err == nil {
		if failures := p.streak.Succeed(); failures > 0 {
			p.logger.WithField("failures", failures).Info("price updates recovered")
			p.display.Println(p.presenter.RenderNotice(
				fmt.Sprintf("Price updates restored after %d failed attempts.", failures)))
		}
		return
	}

	// A fetch aborted by shutdown is not a failure
	if ctx.Err() != nil {
		return
	}

	if !p.streak.Fail() {
		p.logger.WithError(err).WithField("failures", p.streak.Failures()).Debug("poll failed again")
		return
	}

	retryIn := p.streak.Delay(p.schedule.Interval())
	p.logger.WithError(err).Warn("poll failed")
	p.display.Println(p.presenter.RenderNotice(
		fmt.Sprintf("Price update failed: %v. Retrying every %s until it recovers.", err, retryIn.Round(time.Millisecond))))
}

// Stop cancels polling and waits for the loop to exit
func (p *Poller) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	cancel := p.cancel
	doneCh := p.doneCh
	p.mu.Unlock()

	p.logger.Info("stopping poller")
	cancel()

	// Wait for poller to finish with timeout
	select {
	case <-doneCh:
		return nil
	case <-time.After(10 * time.Second):
		return context.DeadlineExceeded
	}
}

// IsRunning returns whether the poller is currently running
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
