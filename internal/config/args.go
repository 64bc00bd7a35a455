package config

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
)

// Usage is printed when the command line cannot be parsed
const Usage = `usage: ticker [BASE_PRICE]

Polls the price endpoint and prints a ticker line on every update.

  BASE_PRICE  optional reference price in USD (a decimal number > 0);
              every line then also shows the change against it

keys:  +  poll twice as often     -  poll half as often
       r  refresh now             Ctrl+C  exit`

// ErrHelp is returned when help was requested explicitly
var ErrHelp = errors.New("help requested")

// Args holds the parsed command line
type Args struct {
	BasePrice *float64
}

// ParseArgs parses the positional arguments (without the program name).
// Invalid input returns an error wrapping domain.ErrUsage.
func ParseArgs(args []string) (*Args, error) {
	switch len(args) {
	case 0:
		return &Args{}, nil
	case 1:
	default:
		return nil, usageError("expected at most one argument, got %d", len(args))
	}

	if args[0] == "-h" || args[0] == "--help" {
		return nil, ErrHelp
	}

	base, err := decimal.NewFromString(args[0])
	if err != nil {
		return nil, usageError("base price %q is not a decimal number", args[0])
	}

	if !base.IsPositive() {
		return nil, usageError("base price must be greater than zero, got %s", base.String())
	}

	value := base.InexactFloat64()
	return &Args{BasePrice: &value}, nil
}

func usageError(format string, args ...any) error {
	return errors.Wrap(domain.ErrUsage, fmt.Sprintf(format, args...))
}
