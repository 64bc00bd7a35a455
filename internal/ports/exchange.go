package ports

import (
	"context"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
)

// PriceFetcher defines the contract for fetching a quote from the price endpoint
type PriceFetcher interface {
	// Fetch performs one request and returns the parsed reading.
	// Failures are *domain.FetchError of kind ErrNetwork or ErrParse.
	Fetch(ctx context.Context) (domain.PriceReading, error)
}
