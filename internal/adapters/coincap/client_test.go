package coincap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prxgr4mmer/price-ticker/internal/adapters/coincap"
	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/pkg/logger"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(url string, opts ...coincap.ClientOption) *coincap.Client {
	opts = append([]coincap.ClientOption{
		coincap.WithURL(url),
		coincap.WithLogger(logger.Discard()),
	}, opts...)
	return coincap.NewClient(opts...)
}

func TestClient_Fetch(t *testing.T) {
	t.Run("successfully fetches price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v2/assets/bitcoin", r.URL.Path)
			assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"data": {"id": "bitcoin", "name": "Bitcoin", "priceUsd": "45900.1234", "symbol": "BTC"},
				"timestamp": 1634567890123
			}`))
		}))
		defer server.Close()

		client := newClient(server.URL + "/v2/assets/bitcoin")

		reading, err := client.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bitcoin", reading.Asset)
		assert.InDelta(t, 45900.1234, reading.PriceUSD, 1e-9)
		assert.Equal(t, time.UnixMilli(1634567890123), reading.Timestamp)
	})

	t.Run("sends custom user agent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ticker-test", r.Header.Get("User-Agent"))
			w.Write([]byte(`{"data": {"name": "Bitcoin", "priceUsd": "1"}, "timestamp": 1}`))
		}))
		defer server.Close()

		_, err := newClient(server.URL, coincap.WithUserAgent("ticker-test")).Fetch(context.Background())
		require.NoError(t, err)
	})

	t.Run("server error is a network error", func(t *testing.T) {
		server := newServer(t, http.StatusServiceUnavailable, `{"error": "down"}`)

		_, err := newClient(server.URL).Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.NotErrorIs(t, err, domain.ErrParse)
	})

	t.Run("rate limiting is a network error", func(t *testing.T) {
		callCount := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callCount++
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newClient(server.URL).Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Equal(t, 1, callCount) // No retries inside a fetch
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		server := newServer(t, http.StatusOK, `{}`)
		url := server.URL
		server.Close()

		_, err := newClient(url).Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})

	t.Run("timeout is a network error", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := newClient(server.URL, coincap.WithTimeout(50*time.Millisecond))

		start := time.Now()
		_, err := client.Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestClient_Fetch_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>oops</html>`},
		{name: "missing timestamp", body: `{"data": {"name": "Bitcoin", "priceUsd": "1.0"}}`},
		{name: "missing data", body: `{"timestamp": 1634567890123}`},
		{name: "missing name", body: `{"data": {"priceUsd": "1.0"}, "timestamp": 1}`},
		{name: "empty name", body: `{"data": {"name": " ", "priceUsd": "1.0"}, "timestamp": 1}`},
		{name: "missing price", body: `{"data": {"name": "Bitcoin"}, "timestamp": 1}`},
		{name: "price not a string", body: `{"data": {"name": "Bitcoin", "priceUsd": 45000}, "timestamp": 1}`},
		{name: "price not decimal", body: `{"data": {"name": "Bitcoin", "priceUsd": "lots"}, "timestamp": 1}`},
		{name: "negative price", body: `{"data": {"name": "Bitcoin", "priceUsd": "-1"}, "timestamp": 1}`},
		{name: "timestamp not a number", body: `{"data": {"name": "Bitcoin", "priceUsd": "1"}, "timestamp": "now"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, http.StatusOK, tt.body)

			_, err := newClient(server.URL).Fetch(context.Background())
			assert.ErrorIs(t, err, domain.ErrParse)
			assert.NotErrorIs(t, err, domain.ErrNetwork)
		})
	}
}
