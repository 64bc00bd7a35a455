package ports

import (
	"time"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
)

// KeyReader reads single keystrokes from a terminal without line buffering or echo
type KeyReader interface {
	// ReadKey blocks until one key is available
	ReadKey() (rune, error)

	// Restore puts the terminal back into its original mode
	Restore() error
}

// Display is the append-only line sink shared by both loops
type Display interface {
	// Println writes one whole line; concurrent calls never interleave
	Println(line string)
}

// Presenter turns domain values into display lines
type Presenter interface {
	// RenderPrice formats a price view as a single ticker line
	RenderPrice(view domain.PriceView) string

	// RenderInterval formats the confirmation of a new polling interval
	RenderInterval(interval time.Duration) string

	// RenderNotice formats a diagnostic message
	RenderNotice(msg string) string
}
