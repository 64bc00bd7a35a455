package domain

import "errors"

var (
	// Fetch errors
	ErrNetwork = errors.New("network error")
	ErrParse   = errors.New("malformed price response")

	// Startup errors
	ErrUsage = errors.New("invalid usage")

	// Shutdown
	ErrInterrupted = errors.New("interrupted")
)

// FetchError classifies a failed price fetch. Kind is ErrNetwork or ErrParse,
// Err is the underlying cause.
type FetchError struct {
	Kind error
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewNetworkError wraps a transport failure
func NewNetworkError(err error) *FetchError {
	return &FetchError{Kind: ErrNetwork, Err: err}
}

// NewParseError wraps a payload decoding failure
func NewParseError(err error) *FetchError {
	return &FetchError{Kind: ErrParse, Err: err}
}

// IsFetchError checks if the error came from a price fetch
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
