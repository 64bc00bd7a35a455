package worker_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
)

// Mock implementations for testing

type mockDisplay struct {
	mu    sync.Mutex
	lines []string
}

func (m *mockDisplay) Println(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
}

func (m *mockDisplay) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

func (m *mockDisplay) Count(substr string) int {
	n := 0
	for _, line := range m.Lines() {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

type mockPresenter struct{}

func (mockPresenter) RenderPrice(view domain.PriceView) string {
	return fmt.Sprintf("price %.2f", view.Reading.PriceUSD)
}

func (mockPresenter) RenderInterval(interval time.Duration) string {
	return fmt.Sprintf("interval %s", interval)
}

func (mockPresenter) RenderNotice(msg string) string {
	return "notice: " + msg
}

// mockService returns the queued results in order, then succeeds forever
type mockService struct {
	mu      sync.Mutex
	results []error
	calls   int
	polled  chan struct{}
}

func newMockService(results ...error) *mockService {
	return &mockService{results: results, polled: make(chan struct{}, 100)}
}

func (m *mockService) Poll(ctx context.Context) error {
	m.mu.Lock()
	i := m.calls
	m.calls++
	m.mu.Unlock()

	select {
	case m.polled <- struct{}{}:
	default:
	}

	if i < len(m.results) {
		return m.results[i]
	}
	return nil
}

func (m *mockService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// recordingSchedule returns from every wait immediately and records its
// duration; it cancels the run after the configured number of waits
type recordingSchedule struct {
	mu       sync.Mutex
	interval time.Duration
	floor    time.Duration
	waits    []time.Duration
	consumed int
	stopAt   int
	cancel   context.CancelFunc
}

func (s *recordingSchedule) Interval() time.Duration { return s.interval }
func (s *recordingSchedule) Floor() time.Duration    { return s.floor }

func (s *recordingSchedule) WaitOrWake(ctx context.Context, d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	if len(s.waits) >= s.stopAt {
		s.cancel()
	}
	return false
}

func (s *recordingSchedule) ConsumeWake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumed++
}

// scriptedReader replays keys and then reports end of input
type scriptedReader struct {
	keys     []rune
	pos      int
	err      error
	restored bool
}

func (r *scriptedReader) ReadKey() (rune, error) {
	if r.pos >= len(r.keys) {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	k := r.keys[r.pos]
	r.pos++
	return k, nil
}

func (r *scriptedReader) Restore() error {
	r.restored = true
	return nil
}
