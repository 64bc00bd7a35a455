package worker

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

// Key bindings
const (
	KeyFaster  = '+'
	KeySlower  = '-'
	KeyRefresh = 'r'
	KeyCtrlC   = 0x03 // Arrives as a byte when raw mode disables signals
)

// Keyboard turns keystrokes into schedule changes
type Keyboard struct {
	reader    ports.KeyReader
	schedule  *Schedule
	display   ports.Display
	presenter ports.Presenter
	logger    logrus.FieldLogger
}

// NewKeyboard creates a new keyboard listener
func NewKeyboard(
	reader ports.KeyReader,
	schedule *Schedule,
	display ports.Display,
	presenter ports.Presenter,
	logger logrus.FieldLogger,
) *Keyboard {
	return &Keyboard{
		reader:    reader,
		schedule:  schedule,
		display:   display,
		presenter: presenter,
		logger:    logger.WithField("component", "keyboard"),
	}
}

// Run reads keys until input ends, Ctrl+C is read or ctx is done. It returns
// domain.ErrInterrupted for Ctrl+C and nil when input is exhausted. Reads
// block, so cancelling ctx only takes effect after the next key.
func (k *Keyboard) Run(ctx context.Context) error {
	for {
		key, err := k.reader.ReadKey()
		if err != nil {
			if errors.Is(err, io.EOF) {
				k.logger.Info("input closed, keyboard controls disabled")
				return nil
			}
			return errors.Wrap(err, "read key")
		}

		if ctx.Err() != nil {
			return nil
		}

		if key == KeyCtrlC {
			return domain.ErrInterrupted
		}

		k.handle(key)
	}
}

func (k *Keyboard) handle(key rune) {
	switch key {
	case KeyFaster:
		k.confirm(k.schedule.Halve())
		k.schedule.RequestWake()

	case KeySlower:
		k.confirm(k.schedule.Double())
		k.schedule.RequestWake()

	case KeyRefresh, 'R':
		k.logger.Debug("manual refresh requested")
		k.schedule.RequestWake()
	}
}

func (k *Keyboard) confirm(interval time.Duration) {
	k.logger.WithField("interval", interval.String()).Info("polling interval changed")
	k.display.Println(k.presenter.RenderInterval(interval))
}
