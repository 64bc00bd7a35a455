package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/internal/services"
	"github.com/prxgr4mmer/price-ticker/pkg/logger"
)

// Mock implementations for testing

type mockFetcher struct {
	readings []domain.PriceReading
	errs     []error
	calls    int
}

func (m *mockFetcher) Fetch(ctx context.Context) (domain.PriceReading, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return domain.PriceReading{}, m.errs[i]
	}
	return m.readings[i], nil
}

type mockPresenter struct {
	views []domain.PriceView
}

func (m *mockPresenter) RenderPrice(view domain.PriceView) string {
	m.views = append(m.views, view)
	return view.Reading.Asset
}

func (m *mockPresenter) RenderInterval(interval time.Duration) string { return interval.String() }
func (m *mockPresenter) RenderNotice(msg string) string              { return msg }

type mockDisplay struct {
	mu    sync.Mutex
	lines []string
}

func (m *mockDisplay) Println(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
}

func reading(price float64) domain.PriceReading {
	return domain.NewPriceReading(1634567890123, "Bitcoin", price)
}

func TestTickerService_Poll(t *testing.T) {
	t.Run("derives changes from previous reading and base", func(t *testing.T) {
		base := 50000.0
		fetcher := &mockFetcher{readings: []domain.PriceReading{reading(45000), reading(45900)}}
		presenter := &mockPresenter{}
		display := &mockDisplay{}
		metrics := services.NewMetricsService()

		svc := services.NewTickerService(fetcher, presenter, display, metrics, &base, logger.Discard())

		require.NoError(t, svc.Poll(context.Background()))
		require.NoError(t, svc.Poll(context.Background()))

		require.Len(t, presenter.views, 2)

		first := presenter.views[0]
		assert.Nil(t, first.ChangeVsPrevious)
		require.NotNil(t, first.ChangeVsBase)
		assert.InDelta(t, -10.0, *first.ChangeVsBase, 1e-9)

		second := presenter.views[1]
		require.NotNil(t, second.ChangeVsPrevious)
		assert.InDelta(t, 2.0, *second.ChangeVsPrevious, 1e-9)

		assert.Equal(t, []string{"Bitcoin", "Bitcoin"}, display.lines)

		stats := metrics.Stats()
		assert.Equal(t, int64(2), stats.PollCount)
		assert.Equal(t, int64(0), stats.FailureCount)
		assert.Equal(t, 45000.0, stats.First.PriceUSD)
		assert.Equal(t, 45900.0, stats.Last.PriceUSD)
	})

	t.Run("failure writes nothing and keeps previous reading", func(t *testing.T) {
		fetchErr := domain.NewNetworkError(errors.New("connection refused"))
		fetcher := &mockFetcher{
			readings: []domain.PriceReading{reading(45000), {}, reading(45900)},
			errs:     []error{nil, fetchErr, nil},
		}
		presenter := &mockPresenter{}
		display := &mockDisplay{}
		metrics := services.NewMetricsService()

		svc := services.NewTickerService(fetcher, presenter, display, metrics, nil, logger.Discard())

		require.NoError(t, svc.Poll(context.Background()))
		assert.ErrorIs(t, svc.Poll(context.Background()), domain.ErrNetwork)
		require.NoError(t, svc.Poll(context.Background()))

		require.Len(t, presenter.views, 2)
		assert.Len(t, display.lines, 2)
		assert.Nil(t, presenter.views[1].ChangeVsBase)
		require.NotNil(t, presenter.views[1].ChangeVsPrevious)
		assert.InDelta(t, 2.0, *presenter.views[1].ChangeVsPrevious, 1e-9)

		stats := metrics.Stats()
		assert.Equal(t, int64(2), stats.PollCount)
		assert.Equal(t, int64(1), stats.FailureCount)
	})
}

func TestMetricsService(t *testing.T) {
	m := services.NewMetricsService()

	stats := m.Stats()
	assert.Nil(t, stats.LastPollTime)
	assert.Nil(t, stats.First)
	assert.GreaterOrEqual(t, stats.Uptime, time.Duration(0))

	m.RecordPollError(30 * time.Millisecond)
	assert.Equal(t, 30*time.Millisecond, m.LastPollDuration())

	m.RecordPollSuccess(10*time.Millisecond, reading(100))
	m.RecordPollSuccess(20*time.Millisecond, reading(110))

	stats = m.Stats()
	assert.NotNil(t, stats.LastPollTime)
	assert.Equal(t, int64(2), stats.PollCount)
	assert.Equal(t, int64(1), stats.FailureCount)
	assert.Equal(t, 100.0, stats.First.PriceUSD)
	assert.Equal(t, 110.0, stats.Last.PriceUSD)
	assert.Equal(t, 20*time.Millisecond, m.LastPollDuration())

	change := stats.SessionChange()
	require.NotNil(t, change)
	assert.InDelta(t, 10.0, *change, 1e-9)
}
