package breathing

import "errors"

// ErrSessionInProgress is returned by SelectPattern while a session is running or paused
var ErrSessionInProgress = errors.New("cannot change pattern while a session is in progress")

// State is the complete state of a breathing session. It is a value: every
// transition returns a new State and never mutates the receiver or the pattern.
type State struct {
	Phase         Phase
	CycleIndex    int // 0-based; meaningful only while Phase.InProgress()
	TimeRemaining int // Seconds left in the current phase
	Active        bool
	Pattern       *Pattern // Selected pattern, shared and read-only
}

// initialState is the Ready state for the given selection
func initialState(p *Pattern) State {
	return State{Phase: PhaseReady, Pattern: p}
}

// Tick advances the state by one tick. Inactive states are returned unchanged.
func (s State) Tick() State {
	if !s.Active || s.Pattern == nil {
		return s
	}
	if s.TimeRemaining > 1 {
		s.TimeRemaining--
		return s
	}
	return s.nextPhase()
}

// nextPhase applies the phase transition table
func (s State) nextPhase() State {
	switch s.Phase {
	case PhaseInhale:
		return s.enter(PhaseHold)
	case PhaseHold:
		return s.enter(PhaseExhale)
	case PhaseExhale:
		if s.Pattern.HasHoldAfterExhale() {
			return s.enter(PhaseHoldAfterExhale)
		}
		return s.completeCycle()
	case PhaseHoldAfterExhale:
		return s.completeCycle()
	default:
		// Ready and Complete are never active
		return s
	}
}

func (s State) enter(phase Phase) State {
	s.Phase = phase
	s.TimeRemaining = s.Pattern.PhaseDuration(phase)
	return s
}

func (s State) completeCycle() State {
	s.CycleIndex++
	if s.CycleIndex < s.Pattern.Cycles {
		return s.enter(PhaseInhale)
	}
	s.Phase = PhaseComplete
	s.Active = false
	s.CycleIndex = 0
	s.TimeRemaining = 0
	return s
}

// Snapshot is a read-only view of the session for renderers
type Snapshot struct {
	Phase         Phase
	CycleIndex    int
	TimeRemaining int
	Active        bool
	TotalCycles   int
	PatternName   string
}

// Paused reports whether a session is in progress but not advancing
func (s Snapshot) Paused() bool {
	return s.Phase.InProgress() && !s.Active
}

// Controller drives a single breathing session. It is not safe for concurrent
// use: the caller serialises every call, including Tick.
type Controller struct {
	selected *Pattern
	state    State
}

// NewController returns a controller in the Ready state with no pattern selected
func NewController() *Controller {
	return &Controller{state: initialState(nil)}
}

// Start validates p and begins a fresh session with it. Any session already in
// progress is discarded. On error the controller is left untouched.
func (c *Controller) Start(p Pattern) error {
	if err := Validate(p); err != nil {
		return err
	}
	pattern := p
	c.selected = &pattern
	c.state = State{
		Phase:         PhaseInhale,
		CycleIndex:    0,
		TimeRemaining: pattern.Inhale,
		Active:        true,
		Pattern:       c.selected,
	}
	return nil
}

// SelectPattern changes the selected pattern and resets the session.
// Only allowed from Ready or Complete.
func (c *Controller) SelectPattern(p Pattern) error {
	if err := Validate(p); err != nil {
		return err
	}
	if c.state.Phase.InProgress() {
		return ErrSessionInProgress
	}
	pattern := p
	c.selected = &pattern
	c.state = initialState(c.selected)
	return nil
}

// Selected returns the selected pattern, if any
func (c *Controller) Selected() (Pattern, bool) {
	if c.selected == nil {
		return Pattern{}, false
	}
	return *c.selected, true
}

// Tick advances the session by one tick; ignored while inactive
func (c *Controller) Tick() {
	c.state = c.state.Tick()
}

// Pause stops the session from advancing without changing phase or timing
func (c *Controller) Pause() {
	c.state.Active = false
}

// Resume continues a paused session; ignored from Ready and Complete
func (c *Controller) Resume() {
	if !c.state.Phase.InProgress() {
		return
	}
	c.state.Active = true
}

// Reset returns to Ready, keeping the selected pattern
func (c *Controller) Reset() {
	c.state = initialState(c.selected)
}

// State returns the raw session state. Its Pattern is a copy, so callers
// cannot alter the selected pattern through it.
func (c *Controller) State() State {
	s := c.state
	if s.Pattern != nil {
		p := *s.Pattern
		s.Pattern = &p
	}
	return s
}

// Snapshot returns the current state for display
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:         c.state.Phase,
		CycleIndex:    c.state.CycleIndex,
		TimeRemaining: c.state.TimeRemaining,
		Active:        c.state.Active,
	}
	if c.selected != nil {
		snap.TotalCycles = c.selected.Cycles
		snap.PatternName = c.selected.Name
	}
	return snap
}
