//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package terminal

import "golang.org/x/term"

// makeRaw uses the full raw mode of x/term. Ctrl+C then arrives as a key
// instead of a signal and is handled by the keyboard loop.
func makeRaw(fd int) (func() error, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	return func() error {
		return term.Restore(fd, state)
	}, nil
}
