package breathing

// Phase is one step of a breathing session
type Phase int

const (
	PhaseReady           Phase = iota // No session started
	PhaseInhale                       // Breathing in
	PhaseHold                         // Holding after inhale
	PhaseExhale                       // Breathing out
	PhaseHoldAfterExhale              // Optional hold after exhale
	PhaseComplete                     // All cycles done
)

// Guide sizes used by renderers to scale the breathing indicator
const (
	GuideSizeExpanded   = 200
	GuideSizeContracted = 120
	GuideSizeResting    = 160
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseInhale:
		return "inhale"
	case PhaseHold:
		return "hold"
	case PhaseExhale:
		return "exhale"
	case PhaseHoldAfterExhale:
		return "holdAfterExhale"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Prompt returns the instruction shown to the user during the phase
func (p Phase) Prompt() string {
	switch p {
	case PhaseReady:
		return "Ready to begin"
	case PhaseInhale:
		return "Breathe in..."
	case PhaseHold, PhaseHoldAfterExhale:
		return "Hold..."
	case PhaseExhale:
		return "Breathe out..."
	case PhaseComplete:
		return "Complete! Well done."
	default:
		return ""
	}
}

// GuideSize returns the size hint for the breathing indicator
func (p Phase) GuideSize() int {
	switch p {
	case PhaseInhale, PhaseHold, PhaseHoldAfterExhale:
		return GuideSizeExpanded
	case PhaseExhale:
		return GuideSizeContracted
	default:
		return GuideSizeResting
	}
}

// InProgress reports whether the phase belongs to a running or paused session
func (p Phase) InProgress() bool {
	return p != PhaseReady && p != PhaseComplete
}
