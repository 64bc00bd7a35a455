package services

import (
	"sync"
	"time"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

// MetricsService implements the ports.MetricsService interface
type MetricsService struct {
	startTime time.Time

	mu               sync.RWMutex
	lastPollTime     *time.Time
	lastPollDuration time.Duration
	pollSuccessCount int64
	pollErrorCount   int64
	first            *domain.PriceReading
	last             *domain.PriceReading
}

// NewMetricsService creates a new metrics service
func NewMetricsService() *MetricsService {
	return &MetricsService{
		startTime: time.Now(),
	}
}

// RecordPollSuccess records a successful poll
func (m *MetricsService) RecordPollSuccess(duration time.Duration, reading domain.PriceReading) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastPollTime = &now
	m.lastPollDuration = duration
	m.pollSuccessCount++

	if m.first == nil {
		first := reading
		m.first = &first
	}
	m.last = &reading
}

// RecordPollError records a failed poll
func (m *MetricsService) RecordPollError(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastPollTime = &now
	m.lastPollDuration = duration
	m.pollErrorCount++
}

// LastPollDuration returns how long the most recent poll took
func (m *MetricsService) LastPollDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastPollDuration
}

// Stats returns a snapshot of the session statistics
func (m *MetricsService) Stats() domain.SessionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return domain.SessionStats{
		Started:      m.startTime,
		Uptime:       time.Now().Sub(m.startTime),
		PollCount:    m.pollSuccessCount,
		FailureCount: m.pollErrorCount,
		LastPollTime: m.lastPollTime,
		First:        m.first,
		Last:         m.last,
	}
}

// Ensure MetricsService implements ports.MetricsService
var _ ports.MetricsService = (*MetricsService)(nil)
