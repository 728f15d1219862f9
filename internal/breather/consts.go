package breather

import "github.com/lowaak/zen-breath/internal/breathing"

// UIMode represents the current UI mode/screen
type UIMode int

const (
	UIModePatternSelection UIMode = iota // Choose a breathing pattern
	UIModeSession                        // Guided breathing session
)

// UIModeInfo contains display information for a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune // The number key to activate this mode (1-9)
}

// AllUIModes defines all available UI modes in order
var AllUIModes = []UIModeInfo{
	{Mode: UIModePatternSelection, DisplayName: "Pattern Selection", KeyBinding: '1'},
	{Mode: UIModeSession, DisplayName: "Breathing Session", KeyBinding: '2'},
}

// GetUIModeByKey returns the mode for a given key binding
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetUIModeInfo returns the info for a given mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

// SessionState is what the UI renders: the controller snapshot plus the
// selected pattern and the id of the current run
type SessionState struct {
	breathing.Snapshot
	Pattern breathing.Pattern // Selected pattern (zero value if none)
	RunID   string            // Changes on every Start; empty before the first
}

// HasPattern reports whether a pattern has been selected
func (s SessionState) HasPattern() bool {
	return s.Pattern.Name != ""
}

// ElapsedTicks returns how many ticks of the session have been consumed
func (s SessionState) ElapsedTicks() int {
	if !s.HasPattern() {
		return 0
	}
	switch s.Phase {
	case breathing.PhaseReady:
		return 0
	case breathing.PhaseComplete:
		return s.Pattern.TotalTicks()
	}
	elapsed := s.CycleIndex * s.Pattern.CycleTicks()
	for _, phase := range []breathing.Phase{breathing.PhaseInhale, breathing.PhaseHold, breathing.PhaseExhale, breathing.PhaseHoldAfterExhale} {
		if phase == s.Phase {
			return elapsed + s.Pattern.PhaseDuration(phase) - s.TimeRemaining
		}
		elapsed += s.Pattern.PhaseDuration(phase)
	}
	return elapsed
}

// maxLogLines caps the in-memory log tail
const maxLogLines = 1000
