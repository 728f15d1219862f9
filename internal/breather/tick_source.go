package breather

import "time"

// TickSource delivers the session's timer pulses. It is only ever driven from
// the SessionManager's loop goroutine.
type TickSource interface {
	// C returns the channel ticks arrive on
	C() <-chan time.Time
	// Start begins (or restarts) delivering ticks
	Start()
	// Stop halts delivery; a tick already in flight may still arrive
	Stop()
}

// tickerSource is a TickSource backed by time.Ticker
type tickerSource struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewTickerSource returns a stopped wall-clock tick source
func NewTickerSource(interval time.Duration) TickSource {
	ticker := time.NewTicker(interval)
	ticker.Stop() // Start stopped, will be started when a session starts
	return &tickerSource{ticker: ticker, interval: interval}
}

func (s *tickerSource) C() <-chan time.Time {
	return s.ticker.C
}

func (s *tickerSource) Start() {
	s.ticker.Reset(s.interval)
}

func (s *tickerSource) Stop() {
	s.ticker.Stop()
}
