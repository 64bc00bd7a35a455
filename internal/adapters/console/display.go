package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"

	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

// Display serialises line writes from both loops onto one writer
type Display struct {
	mu     sync.Mutex
	out    io.Writer
	output *termenv.Output
}

// NewDisplay creates a display writing to w
func NewDisplay(w io.Writer) *Display {
	return &Display{
		out:    w,
		output: termenv.NewOutput(w),
	}
}

// Println writes one whole line
func (d *Display) Println(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintln(d.out, line)
}

// HideCursor hides the terminal cursor
func (d *Display) HideCursor() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.output.HideCursor()
}

// ShowCursor makes the terminal cursor visible again
func (d *Display) ShowCursor() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.output.ShowCursor()
}

// Ensure Display implements ports.Display
var _ ports.Display = (*Display)(nil)
