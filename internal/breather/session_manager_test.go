package breather

import (
	"strings"
	"testing"
	"time"

	"github.com/lowaak/zen-breath/internal/breathing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionManager_NilArgsPanic(t *testing.T) {
	r := newRig(t)
	assert.Panics(t, func() { NewSessionManager(nil, r.ticks, r.logger) })
	assert.Panics(t, func() { NewSessionManager(r.model, nil, r.logger) })
	assert.Panics(t, func() { NewSessionManager(r.model, r.ticks, nil) })
}

func TestSessionManager_InitialState(t *testing.T) {
	r := newRig(t)

	state := r.manager.Snapshot()
	assert.Equal(t, breathing.PhaseReady, state.Phase)
	assert.False(t, state.Active)
	assert.False(t, state.HasPattern())
	assert.Empty(t, state.RunID)
	assert.False(t, r.ticks.started.Load())
}

func TestSessionManager_SelectPattern(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, relaxing)

	state := r.manager.Snapshot()
	assert.Equal(t, relaxing.Name, state.PatternName)
	assert.Equal(t, 4, state.TotalCycles)
	assert.Eventually(t, func() bool {
		return r.model.GetSessionState().Pattern == relaxing
	}, waitTimeout, time.Millisecond)
}

func TestSessionManager_SelectInvalidPattern(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, box)

	err := r.manager.SelectPattern(breathing.Pattern{Name: "broken", Inhale: 4, Hold: 4, Exhale: 0, Cycles: 2})
	assert.ErrorIs(t, err, breathing.ErrInvalidPatternConfig)
	assert.Equal(t, box, r.manager.Snapshot().Pattern)
}

func TestSessionManager_SelectWhileInProgress(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, relaxing)
	r.start(t)

	assert.ErrorIs(t, r.manager.SelectPattern(box), breathing.ErrSessionInProgress)

	r.manager.Pause()
	r.waitFor(t, func(s SessionState) bool { return s.Paused() })
	assert.ErrorIs(t, r.manager.SelectPattern(box), breathing.ErrSessionInProgress)
	assert.Equal(t, relaxing, r.manager.Snapshot().Pattern)
}

func TestSessionManager_SelectRightAfterStart(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, relaxing)

	// Start is still queued when the selection arrives
	r.manager.Start()
	err := r.manager.SelectPattern(box)

	assert.ErrorIs(t, err, breathing.ErrSessionInProgress)
	state := r.waitFor(t, func(s SessionState) bool { return s.Active })
	assert.Equal(t, relaxing, state.Pattern)
}

func TestSessionManager_SelectAfterShutdown(t *testing.T) {
	r := newRig(t)
	r.manager.Shutdown()

	assert.ErrorIs(t, r.manager.SelectPattern(box), ErrSessionManagerShutdown)
	assert.False(t, r.manager.Snapshot().HasPattern())
}

func TestSessionManager_StartWithoutPattern(t *testing.T) {
	r := newRig(t)
	r.manager.Start()

	r.waitForLog(t, "No pattern selected")
	assert.Equal(t, breathing.PhaseReady, r.manager.Snapshot().Phase)
	assert.False(t, r.ticks.started.Load())
}

func TestSessionManager_RelaxingSession(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, relaxing)

	state := r.start(t)
	assert.Equal(t, breathing.PhaseInhale, state.Phase)
	assert.Equal(t, 4, state.TimeRemaining)
	assert.Equal(t, 0, state.CycleIndex)
	assert.NotEmpty(t, state.RunID)
	assert.True(t, r.ticks.started.Load())

	r.ticks.tick(t, 4)
	state = r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseHold })
	assert.Equal(t, 7, state.TimeRemaining)

	r.ticks.tick(t, 7)
	state = r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseExhale })
	assert.Equal(t, 8, state.TimeRemaining)

	r.ticks.tick(t, 8)
	state = r.waitFor(t, func(s SessionState) bool { return s.CycleIndex == 1 })
	assert.Equal(t, breathing.PhaseInhale, state.Phase)
	assert.Equal(t, 19, state.ElapsedTicks())

	r.ticks.tick(t, 76-19)
	state = r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseComplete })
	assert.False(t, state.Active)
	assert.Equal(t, 0, state.CycleIndex)
	assert.Equal(t, 0, state.TimeRemaining)
	assert.Equal(t, relaxing.TotalTicks(), state.ElapsedTicks())
	assert.False(t, r.ticks.started.Load())
	r.waitForLog(t, "complete!")
}

func TestSessionManager_BoxSession(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, box)
	r.start(t)

	r.ticks.tick(t, 16)
	state := r.waitFor(t, func(s SessionState) bool { return s.CycleIndex == 1 })
	assert.Equal(t, breathing.PhaseInhale, state.Phase)
	assert.Equal(t, 4, state.TimeRemaining)

	r.ticks.tick(t, 96-16)
	r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseComplete })

	// Ticks after completion change nothing
	r.ticks.tick(t, 3)
	assert.Equal(t, breathing.PhaseComplete, r.manager.Snapshot().Phase)
}

func TestSessionManager_PauseResume(t *testing.T) {
	r := newRig(t)
	sessionStates := make(chan SessionState, 16)
	unregister := r.model.ListenToSessionState(sessionStates)
	defer unregister()

	r.selectPattern(t, relaxing)
	r.start(t)

	r.ticks.tick(t, 3)
	r.waitFor(t, func(s SessionState) bool { return s.TimeRemaining == 1 })

	r.manager.Pause()
	paused := r.waitFor(t, func(s SessionState) bool { return s.Paused() })
	assert.False(t, r.ticks.started.Load())

	// Drain up to the published pause
	for s := range sessionStates {
		if s.Paused() {
			break
		}
	}

	// A tick already in flight while paused is ignored and not published
	r.ticks.tick(t, 5)
	assert.Equal(t, paused, r.manager.Snapshot())
	assert.Empty(t, sessionStates)

	r.manager.Resume()
	r.waitFor(t, func(s SessionState) bool { return s.Active })
	assert.True(t, r.ticks.started.Load())

	r.ticks.tick(t, 1)
	state := r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseHold })
	assert.Equal(t, 7, state.TimeRemaining)
	assert.Equal(t, paused.RunID, state.RunID)
}

func TestSessionManager_RefusedCommands(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, tiny)

	r.manager.Pause()
	r.waitForLog(t, "Cannot pause - session not running")

	r.manager.Resume()
	r.waitForLog(t, "Cannot resume - no paused session")

	r.start(t)
	r.manager.Resume()
	assert.Eventually(t, func() bool {
		return strings.Count(r.logs.String(), "Cannot resume - no paused session") == 2
	}, waitTimeout, time.Millisecond)
	assert.True(t, r.manager.Snapshot().Active)
}

func TestSessionManager_Reset(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, box)
	r.start(t)
	r.ticks.tick(t, 6)
	r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseHold })

	r.manager.Reset()
	state := r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseReady })
	assert.False(t, state.Active)
	assert.Equal(t, 0, state.CycleIndex)
	assert.Equal(t, box, state.Pattern)
	assert.False(t, r.ticks.started.Load())
}

func TestSessionManager_StartWhileActiveRestarts(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, relaxing)
	first := r.start(t)

	r.ticks.tick(t, 5)
	r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseHold })

	second := r.start(t)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, breathing.PhaseInhale, second.Phase)
	assert.Equal(t, 4, second.TimeRemaining)
	assert.Equal(t, int32(2), r.ticks.starts.Load())
}

func TestSessionManager_Toggle(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, tiny)

	r.manager.Toggle()
	r.waitFor(t, func(s SessionState) bool { return s.Active })

	r.manager.Toggle()
	r.waitFor(t, func(s SessionState) bool { return s.Paused() })

	r.manager.Toggle()
	r.waitFor(t, func(s SessionState) bool { return s.Active })

	r.ticks.tick(t, 3)
	done := r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseComplete })

	// From Complete, toggle breathes again
	r.manager.Toggle()
	r.waitFor(t, func(s SessionState) bool { return s.Active && s.RunID != done.RunID })
}

func TestSessionManager_PhaseChangeListener(t *testing.T) {
	r := newRig(t)
	phases := &recorder[breathing.Phase]{}
	unregister := r.manager.ListenToPhaseChange(func(s SessionState) { phases.add(s.Phase) })
	defer unregister()

	r.selectPattern(t, breathing.Pattern{Name: "square", Inhale: 1, Hold: 1, Exhale: 1, HoldAfterExhale: 1, Cycles: 2})
	r.start(t)
	r.ticks.tick(t, 8)
	r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseComplete })
	r.manager.Reset()
	r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseReady })

	assert.Eventually(t, func() bool { return len(phases.get()) == 10 }, waitTimeout, time.Millisecond)
	assert.Equal(t, []breathing.Phase{
		breathing.PhaseInhale, breathing.PhaseHold, breathing.PhaseExhale, breathing.PhaseHoldAfterExhale,
		breathing.PhaseInhale, breathing.PhaseHold, breathing.PhaseExhale, breathing.PhaseHoldAfterExhale,
		breathing.PhaseComplete,
		breathing.PhaseReady,
	}, phases.get())
}

func TestSessionManager_PublishesToModel(t *testing.T) {
	r := newRig(t)
	states := make(chan SessionState, 64)
	unregister := r.model.ListenToSessionState(states)
	defer unregister()

	r.selectPattern(t, tiny)
	r.start(t)
	r.ticks.tick(t, 3)
	r.waitFor(t, func(s SessionState) bool { return s.Phase == breathing.PhaseComplete })

	var phases []breathing.Phase
	require.Eventually(t, func() bool {
		for {
			select {
			case s := <-states:
				phases = append(phases, s.Phase)
			default:
				return len(phases) > 0 && phases[len(phases)-1] == breathing.PhaseComplete
			}
		}
	}, waitTimeout, time.Millisecond)
	assert.Equal(t, []breathing.Phase{
		breathing.PhaseReady, breathing.PhaseInhale, breathing.PhaseHold, breathing.PhaseExhale, breathing.PhaseComplete,
	}, phases)
	assert.Equal(t, breathing.PhaseComplete, r.model.GetSessionState().Phase)
}

func TestSessionManager_Shutdown(t *testing.T) {
	r := newRig(t)
	r.selectPattern(t, relaxing)
	r.start(t)

	r.manager.Shutdown()
	assert.False(t, r.ticks.started.Load())

	// Idempotent, and commands after shutdown return immediately
	r.manager.Shutdown()
	done := make(chan struct{})
	go func() {
		r.manager.Start()
		r.manager.Reset()
		r.manager.Toggle()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("commands blocked after shutdown")
	}
}
