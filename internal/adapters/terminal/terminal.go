package terminal

import (
	"bufio"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

// Terminal reads single keystrokes from an input file. When the file is a
// terminal it is switched to unbuffered, no-echo mode until Restore.
type Terminal struct {
	reader *bufio.Reader

	mu       sync.Mutex
	restore  func() error
	restored bool
}

// Open prepares f for key-at-a-time reads. Input that is not a terminal
// (a pipe or a file) is read as-is.
func Open(f *os.File) (*Terminal, error) {
	t := &Terminal{reader: bufio.NewReader(f)}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return t, nil
	}

	restore, err := makeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "enable raw input")
	}
	t.restore = restore

	return t, nil
}

// Raw reports whether the terminal mode was changed by Open
func (t *Terminal) Raw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.restore != nil && !t.restored
}

// ReadKey blocks until a key is available
func (t *Terminal) ReadKey() (rune, error) {
	r, _, err := t.reader.ReadRune()
	return r, err
}

// Restore puts the terminal back into the mode it had before Open.
// Calling it more than once is safe.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.restore == nil || t.restored {
		return nil
	}
	t.restored = true

	return errors.Wrap(t.restore(), "restore terminal")
}

// Ensure Terminal implements ports.KeyReader
var _ ports.KeyReader = (*Terminal)(nil)
