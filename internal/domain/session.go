package domain

import "time"

// SessionStats summarises what the ticker observed since startup
type SessionStats struct {
	Started      time.Time     `json:"started"`
	Uptime       time.Duration `json:"uptime"`
	PollCount    int64         `json:"poll_count"`
	FailureCount int64         `json:"failure_count"`
	LastPollTime *time.Time    `json:"last_poll_time,omitempty"`
	First        *PriceReading `json:"first,omitempty"`
	Last         *PriceReading `json:"last,omitempty"`
}

// SessionChange returns the change of the last reading against the first
func (s SessionStats) SessionChange() *float64 {
	if s.First == nil || s.Last == nil {
		return nil
	}
	return PercentChange(s.Last.PriceUSD, s.First.PriceUSD)
}
