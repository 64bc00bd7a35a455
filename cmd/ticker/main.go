package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prxgr4mmer/price-ticker/internal/adapters/coincap"
	"github.com/prxgr4mmer/price-ticker/internal/adapters/console"
	"github.com/prxgr4mmer/price-ticker/internal/adapters/terminal"
	"github.com/prxgr4mmer/price-ticker/internal/config"
	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/internal/services"
	"github.com/prxgr4mmer/price-ticker/internal/worker"
	"github.com/prxgr4mmer/price-ticker/pkg/logger"
	"github.com/prxgr4mmer/price-ticker/pkg/retry"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	// Parse the command line before touching the terminal
	args, err := config.ParseArgs(argv)
	if errors.Is(err, config.ErrHelp) {
		fmt.Println(config.Usage)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ticker: %v\n\n%s\n", err, config.Usage)
		return exitUsage
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ticker: failed to load configuration: %v\n", err)
		return exitError
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ticker: invalid configuration: %v\n", err)
		return exitError
	}

	// Initialize logger
	log, logCloser, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputFile: cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
		Compress:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ticker: failed to open log: %v\n", err)
		return exitError
	}
	defer logCloser.Close()

	log.WithField("url", cfg.Exchange.URL).Info("starting price ticker")

	app, err := buildApplication(cfg, args, log)
	if err != nil {
		log.WithError(err).Error("failed to build application")
		fmt.Fprintf(os.Stderr, "ticker: %v\n", err)
		return exitError
	}
	// Runs on every exit path below
	defer app.Restore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Start(ctx)
	app.Wait(ctx)
	app.Shutdown()

	return exitOK
}

// Application holds all components
type Application struct {
	cfg       *config.Config
	args      *config.Args
	terminal  *terminal.Terminal
	display   *console.Display
	presenter *console.Presenter
	metrics   *services.MetricsService
	schedule  *worker.Schedule
	poller    *worker.Poller
	keyboard  *worker.Keyboard
	logger    *logrus.Logger

	keyboardDone chan error
}

func buildApplication(cfg *config.Config, args *config.Args, log *logrus.Logger) (*Application, error) {
	log.Info("building application")

	// 1. Infrastructure Layer - Terminal
	term, err := terminal.Open(os.Stdin)
	if err != nil {
		return nil, err
	}

	display := console.NewDisplay(os.Stdout)
	presenter := console.NewPresenter(console.WithColor(cfg.Display.Color))

	// 2. Infrastructure Layer - Exchange Client
	client := coincap.NewClient(
		coincap.WithURL(cfg.Exchange.URL),
		coincap.WithTimeout(cfg.Exchange.Timeout),
		coincap.WithLogger(log),
	)

	// 3. Service Layer
	metrics := services.NewMetricsService()

	ticker := services.NewTickerService(
		client,
		presenter,
		display,
		metrics,
		args.BasePrice,
		log,
	)

	// 4. Background Workers
	schedule := worker.NewSchedule(cfg.Ticker.Interval, cfg.Ticker.MinInterval, cfg.Ticker.MaxInterval)

	poller := worker.NewPoller(
		ticker,
		schedule,
		display,
		presenter,
		retry.Config{Floor: cfg.Ticker.MinInterval, Divisor: cfg.Ticker.DegradedDivisor},
		log,
	)

	keyboard := worker.NewKeyboard(term, schedule, display, presenter, log)

	log.WithField("raw_input", term.Raw()).Info("application built successfully")

	return &Application{
		cfg:          cfg,
		args:         args,
		terminal:     term,
		display:      display,
		presenter:    presenter,
		metrics:      metrics,
		schedule:     schedule,
		poller:       poller,
		keyboard:     keyboard,
		logger:       log,
		keyboardDone: make(chan error, 1),
	}, nil
}

// Start prints the banner and launches the poller and keyboard loops
func (a *Application) Start(ctx context.Context) {
	a.logger.Info("starting application components")

	a.display.Println(fmt.Sprintf("Using default polling frequency of %.1f seconds.",
		a.schedule.Interval().Seconds()))
	a.display.Println(a.presenter.RenderHint(
		"Press + to poll twice as often, - to poll half as often, r to refresh, Ctrl+C to exit."))
	if a.args.BasePrice == nil {
		a.display.Println(a.presenter.RenderHint(
			"Pass a base price as the first argument to track the change against it."))
	}

	if a.cfg.Display.HideCursor {
		a.display.HideCursor()
	}

	// Start poller in background
	go func() {
		if err := a.poller.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.WithError(err).Error("poller error")
		}
	}()

	// The read blocks until the next key, so this goroutine is never joined
	go func() {
		a.keyboardDone <- a.keyboard.Run(ctx)
	}()
}

// Wait blocks until a shutdown signal arrives or Ctrl+C is read as a key
func (a *Application) Wait(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("received shutdown signal")
			return

		case err := <-a.keyboardDone:
			a.keyboardDone = nil // Polling continues without keyboard controls
			switch {
			case errors.Is(err, domain.ErrInterrupted):
				a.logger.Info("interrupted from keyboard")
				return
			case err != nil:
				a.logger.WithError(err).Warn("keyboard stopped")
			}
		}
	}
}

// Shutdown stops polling and prints the session summary
func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	a.display.Println("Exiting..")

	if err := a.poller.Stop(); err != nil {
		a.logger.WithError(err).Error("failed to stop poller")
	}

	a.display.Println(a.presenter.RenderSummary(a.metrics.Stats()))

	a.logger.Info("application shutdown complete")
}

// Restore gives the terminal back in the state it was found
func (a *Application) Restore() {
	if a.cfg.Display.HideCursor {
		a.display.ShowCursor()
	}
	if err := a.terminal.Restore(); err != nil {
		a.logger.WithError(err).Error("failed to restore terminal")
	}
}
