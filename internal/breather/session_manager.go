package breather

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/lowaak/zen-breath/internal/breathing"
	"github.com/lowaak/zen-breath/internal/events"
	"github.com/lowaak/zen-breath/internal/go_func_utils"
)

// ErrSessionManagerShutdown is returned by SelectPattern after Shutdown
var ErrSessionManagerShutdown = errors.New("session manager is shut down")

// sessionCommandKind identifies commands sent to the session goroutine
type sessionCommandKind int

const (
	cmdSelect sessionCommandKind = iota
	cmdStart
	cmdPause
	cmdResume
	cmdReset
	cmdToggle
)

func (k sessionCommandKind) String() string {
	switch k {
	case cmdSelect:
		return "select"
	case cmdStart:
		return "start"
	case cmdPause:
		return "pause"
	case cmdResume:
		return "resume"
	case cmdReset:
		return "reset"
	case cmdToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

type sessionCommand struct {
	kind    sessionCommandKind
	pattern breathing.Pattern // cmdSelect only
	reply   chan error        // Receives the loop's verdict when non-nil; buffered 1
}

// SessionManager runs one breathing session against a TickSource and
// publishes every state change to the UIModel. All controller mutations
// happen on its loop goroutine, so ticks are never processed concurrently.
type SessionManager struct {
	model  *UIModel
	ticks  TickSource
	logger *log.Logger

	// Session state (protected by mu)
	mu         sync.RWMutex
	controller *breathing.Controller
	runID      string

	phaseChangeEvent *events.CallbackEvent[SessionState]

	// Goroutine management
	cmdChan      chan sessionCommand
	doneChan     chan struct{} // Closed to signal shutdown
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewSessionManager creates a SessionManager and starts its loop goroutine
func NewSessionManager(model *UIModel, ticks TickSource, logger *log.Logger) *SessionManager {
	if model == nil {
		panic("SessionManager: model cannot be nil")
	}
	if ticks == nil {
		panic("SessionManager: ticks cannot be nil")
	}
	if logger == nil {
		panic("SessionManager: logger cannot be nil")
	}

	sm := &SessionManager{
		model:            model,
		ticks:            ticks,
		logger:           logger,
		controller:       breathing.NewController(),
		phaseChangeEvent: events.NewCallbackEvent[SessionState](false),
		cmdChan:          make(chan sessionCommand, 1),
		doneChan:         make(chan struct{}),
	}

	sm.wg.Add(1)
	go_func_utils.SafeGo(logger, "SessionManager", func() { sm.runSessionLoop() })

	return sm
}

// ListenToPhaseChange registers a callback fired on the loop goroutine whenever
// the phase changes, including entering Complete and returning to Ready.
// Returns a deregistration function.
func (sm *SessionManager) ListenToPhaseChange(callback func(SessionState)) func() {
	return sm.phaseChangeEvent.Listen(callback)
}

// Snapshot returns the current session state
func (sm *SessionManager) Snapshot() SessionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.buildState()
}

// SelectPattern validates p and makes it the selected pattern, resetting the
// session. Refused with breathing.ErrSessionInProgress while a session is
// running or paused. The verdict comes from the loop goroutine, after every
// command queued before it has run.
func (sm *SessionManager) SelectPattern(p breathing.Pattern) error {
	if err := breathing.Validate(p); err != nil {
		sm.logger.Printf("SessionManager: Rejected pattern %q: %v", p.Name, err)
		return err
	}

	reply := make(chan error, 1)
	select {
	case sm.cmdChan <- sessionCommand{kind: cmdSelect, pattern: p, reply: reply}:
	case <-sm.doneChan:
		return ErrSessionManagerShutdown
	}

	select {
	case err := <-reply:
		return err
	case <-sm.doneChan:
		return ErrSessionManagerShutdown
	}
}

// Start begins a fresh session with the selected pattern, restarting any
// session in progress
func (sm *SessionManager) Start() {
	sm.send(sessionCommand{kind: cmdStart})
}

// Pause stops the running session from advancing
func (sm *SessionManager) Pause() {
	sm.send(sessionCommand{kind: cmdPause})
}

// Resume continues a paused session
func (sm *SessionManager) Resume() {
	sm.send(sessionCommand{kind: cmdResume})
}

// Reset abandons any session and returns to Ready
func (sm *SessionManager) Reset() {
	sm.send(sessionCommand{kind: cmdReset})
}

// Toggle starts, pauses or resumes depending on the state when it is processed
func (sm *SessionManager) Toggle() {
	sm.send(sessionCommand{kind: cmdToggle})
}

// Shutdown stops the session loop and its tick source.
// Safe to call multiple times - only the first call has effect
func (sm *SessionManager) Shutdown() {
	sm.shutdownOnce.Do(func() {
		sm.logger.Printf("SessionManager: Shutting down")
		close(sm.doneChan)
		sm.wg.Wait()
		sm.logger.Printf("SessionManager: Shutdown complete")
	})
}

// --- Private Methods ---

// send queues a command unless the manager has shut down
func (sm *SessionManager) send(cmd sessionCommand) {
	select {
	case sm.cmdChan <- cmd:
	case <-sm.doneChan:
	}
}

// buildState computes the UI state from the controller.
// MUST be called with mu held (at least read lock).
func (sm *SessionManager) buildState() SessionState {
	state := SessionState{
		Snapshot: sm.controller.Snapshot(),
		RunID:    sm.runID,
	}
	if p, ok := sm.controller.Selected(); ok {
		state.Pattern = p
	}
	return state
}

// transition applies fn to the controller under lock and reports the state
// before and after
func (sm *SessionManager) transition(fn func(c *breathing.Controller) error) (before, after SessionState, err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	before = sm.buildState()
	err = fn(sm.controller)
	after = sm.buildState()
	return before, after, err
}

// refusal explains why cmd cannot apply to the current state, or returns ""
func refusal(cmd sessionCommandKind, c *breathing.Controller) string {
	state := c.State()
	_, selected := c.Selected()
	switch {
	case cmd == cmdStart && !selected:
		return "No pattern selected"
	case cmd == cmdPause && !state.Active:
		return "Cannot pause - session not running"
	case cmd == cmdResume && (state.Active || !state.Phase.InProgress()):
		return "Cannot resume - no paused session"
	}
	return ""
}

// resolveToggle picks the command Toggle stands for. Only called from the loop
// goroutine, which is the only writer.
func (sm *SessionManager) resolveToggle() sessionCommandKind {
	state := sm.Snapshot()
	switch {
	case state.Active:
		return cmdPause
	case state.Paused():
		return cmdResume
	default:
		return cmdStart
	}
}

func (sm *SessionManager) handleCommand(cmd sessionCommand) {
	err := sm.applyCommand(cmd)
	if cmd.reply != nil {
		cmd.reply <- err
	}
}

// applyCommand runs cmd against the controller, logs the outcome and publishes
// any change
func (sm *SessionManager) applyCommand(cmd sessionCommand) error {
	if cmd.kind == cmdToggle {
		cmd.kind = sm.resolveToggle()
	}

	var refused string
	before, after, err := sm.transition(func(c *breathing.Controller) error {
		if refused = refusal(cmd.kind, c); refused != "" {
			return nil
		}
		switch cmd.kind {
		case cmdSelect:
			return c.SelectPattern(cmd.pattern)
		case cmdStart:
			p, _ := c.Selected()
			if err := c.Start(p); err != nil {
				return err
			}
			sm.runID = uuid.New().String()
		case cmdPause:
			c.Pause()
		case cmdResume:
			c.Resume()
		case cmdReset:
			c.Reset()
		}
		return nil
	})
	if refused != "" {
		sm.logger.Printf("SessionManager: %s", refused)
		return nil
	}
	if err != nil {
		sm.logger.Printf("SessionManager: %s failed: %v", cmd.kind, err)
		return err
	}

	switch cmd.kind {
	case cmdSelect:
		sm.logger.Printf("SessionManager: Pattern '%s' selected (%s)", after.Pattern.Name, after.Pattern.Summary())
	case cmdStart:
		sm.logger.Printf("SessionManager: Session %s started with '%s' (%d ticks)", after.RunID, after.Pattern.Name, after.Pattern.TotalTicks())
	case cmdPause:
		sm.logger.Printf("SessionManager: Session paused")
	case cmdResume:
		sm.logger.Printf("SessionManager: Session resumed")
	case cmdReset:
		sm.logger.Printf("SessionManager: Session reset")
	}

	if before != after {
		sm.publish(before, after)
	}
	return nil
}

func (sm *SessionManager) handleTick() {
	before, after, _ := sm.transition(func(c *breathing.Controller) error {
		c.Tick()
		return nil
	})
	if before.Snapshot == after.Snapshot {
		// Inactive: the tick was ignored
		return
	}
	if after.Phase == breathing.PhaseComplete {
		sm.logger.Printf("SessionManager: Session %s complete!", after.RunID)
	}
	sm.publish(before, after)
}

// publish syncs the tick source with the session's activity, then notifies
// the model and phase listeners. Only called from the loop goroutine.
func (sm *SessionManager) publish(before, after SessionState) {
	if after.Active && (!before.Active || after.RunID != before.RunID) {
		sm.ticks.Start()
	} else if !after.Active && before.Active {
		sm.ticks.Stop()
	}

	sm.model.SetSessionState(after)

	if after.Phase != before.Phase || after.RunID != before.RunID {
		sm.phaseChangeEvent.Notify(after)
	}
}

// runSessionLoop is the goroutine that serialises commands and ticks
func (sm *SessionManager) runSessionLoop() {
	defer sm.wg.Done()

	for {
		select {
		case <-sm.doneChan:
			sm.ticks.Stop()
			sm.logger.Printf("SessionManager: Goroutine exiting")
			return

		case cmd := <-sm.cmdChan:
			sm.handleCommand(cmd)

		case <-sm.ticks.C():
			sm.handleTick()
		}
	}
}
