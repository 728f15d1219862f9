package breather

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lowaak/zen-breath/internal/breathing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

var (
	relaxing = breathing.Pattern{Name: breathing.PatternRelaxing478, Inhale: 4, Hold: 7, Exhale: 8, Cycles: 4}
	box      = breathing.Pattern{Name: breathing.PatternBox, Inhale: 4, Hold: 4, Exhale: 4, HoldAfterExhale: 4, Cycles: 6}
	tiny     = breathing.Pattern{Name: "tiny", Inhale: 1, Hold: 1, Exhale: 1, Cycles: 1}
)

// manualTicks is a TickSource driven by the test
type manualTicks struct {
	ch      chan time.Time
	started atomic.Bool
	starts  atomic.Int32
}

func newManualTicks() *manualTicks {
	return &manualTicks{ch: make(chan time.Time)}
}

func (m *manualTicks) C() <-chan time.Time { return m.ch }

func (m *manualTicks) Start() {
	m.started.Store(true)
	m.starts.Add(1)
}

func (m *manualTicks) Stop() { m.started.Store(false) }

// tick delivers n ticks; each send returns once the loop has taken it
func (m *manualTicks) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case m.ch <- time.Now():
		case <-time.After(waitTimeout):
			t.Fatalf("tick %d of %d not consumed", i+1, n)
		}
	}
}

// syncBuffer collects log output from several goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type rig struct {
	model   *UIModel
	manager *SessionManager
	ticks   *manualTicks
	logs    *syncBuffer
	logger  *log.Logger
	logChan chan string
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		ticks:   newManualTicks(),
		logs:    &syncBuffer{},
		logChan: make(chan string, 16),
	}
	r.logger = log.New(r.logs, "", 0)
	r.model = NewUIModel(breathing.DefaultCatalog(), "", r.logger, r.logChan)
	r.manager = NewSessionManager(r.model, r.ticks, r.logger)
	t.Cleanup(func() {
		r.manager.Shutdown()
		r.model.Shutdown()
	})
	return r
}

// selectPattern selects p and waits until the loop has applied it
func (r *rig) selectPattern(t *testing.T, p breathing.Pattern) {
	t.Helper()
	require.NoError(t, r.manager.SelectPattern(p))
	r.waitFor(t, func(s SessionState) bool {
		return s.Pattern == p && s.Phase == breathing.PhaseReady
	})
}

// start starts the selected pattern and waits for the first Inhale
func (r *rig) start(t *testing.T) SessionState {
	t.Helper()
	previous := r.manager.Snapshot().RunID
	r.manager.Start()
	return r.waitFor(t, func(s SessionState) bool {
		return s.Active && s.RunID != previous
	})
}

// waitFor polls the manager until cond holds and returns the matching state
func (r *rig) waitFor(t *testing.T, cond func(SessionState) bool) SessionState {
	t.Helper()
	var state SessionState
	require.Eventually(t, func() bool {
		state = r.manager.Snapshot()
		return cond(state)
	}, waitTimeout, time.Millisecond, "last state: %+v", state)
	return state
}

func (r *rig) waitForLog(t *testing.T, substr string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return strings.Contains(r.logs.String(), substr)
	}, waitTimeout, time.Millisecond, "log never contained %q", substr)
}

// recorder collects values delivered to a callback
type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *recorder[T]) add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) get() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}
