package coincap

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

const (
	defaultURL       = "https://api.coincap.io/v2/assets/bitcoin"
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.67 Safari/537.36"
)

// Client implements the PriceFetcher interface for the CoinCap asset endpoint
type Client struct {
	http   *resty.Client
	url    string
	logger logrus.FieldLogger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithURL sets the asset endpoint URL
func WithURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", userAgent)
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.logger = logger.WithField("component", "coincap_client")
	}
}

// NewClient creates a new CoinCap client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(10*time.Second).
			SetRetryCount(0).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", defaultUserAgent),
		url:    defaultURL,
		logger: logrus.StandardLogger().WithField("component", "coincap_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// assetResponse represents the CoinCap asset response
type assetResponse struct {
	Timestamp *int64 `json:"timestamp"`
	Data      *struct {
		Name     *string `json:"name"`
		PriceUSD *string `json:"priceUsd"`
	} `json:"data"`
}

// Fetch performs a single request for the current quote. It never retries;
// the caller owns the retry policy.
func (c *Client) Fetch(ctx context.Context) (domain.PriceReading, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		c.logger.WithError(err).Debug("request failed")
		return domain.PriceReading{}, domain.NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode(),
			"body":   truncate(resp.String(), 256),
		}).Warn("unexpected response")
		return domain.PriceReading{}, domain.NewNetworkError(
			errors.Errorf("unexpected status %s", resp.Status()))
	}

	reading, err := parseAsset(resp.Body())
	if err != nil {
		c.logger.WithError(err).Warn("failed to parse response")
		return domain.PriceReading{}, domain.NewParseError(err)
	}

	return reading, nil
}

func parseAsset(body []byte) (domain.PriceReading, error) {
	var asset assetResponse
	if err := json.Unmarshal(body, &asset); err != nil {
		return domain.PriceReading{}, errors.Wrap(err, "decode response")
	}

	if asset.Timestamp == nil {
		return domain.PriceReading{}, errors.New("missing timestamp")
	}
	if asset.Data == nil {
		return domain.PriceReading{}, errors.New("missing data")
	}
	if asset.Data.Name == nil || strings.TrimSpace(*asset.Data.Name) == "" {
		return domain.PriceReading{}, errors.New("missing asset name")
	}
	if asset.Data.PriceUSD == nil {
		return domain.PriceReading{}, errors.New("missing priceUsd")
	}

	price, err := decimal.NewFromString(*asset.Data.PriceUSD)
	if err != nil {
		return domain.PriceReading{}, errors.Wrapf(err, "parse priceUsd %q", *asset.Data.PriceUSD)
	}
	if price.IsNegative() {
		return domain.PriceReading{}, errors.Errorf("negative priceUsd %s", price.String())
	}

	return domain.NewPriceReading(*asset.Timestamp, *asset.Data.Name, price.InexactFloat64()), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Ensure Client implements PriceFetcher
var _ ports.PriceFetcher = (*Client)(nil)
