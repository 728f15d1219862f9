package breathing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPatternConfig is returned (wrapped in a *PatternError) when a pattern
// is missing a required duration or has a non-positive duration or cycle count
var ErrInvalidPatternConfig = errors.New("invalid pattern config")

// PatternError describes which field of a pattern failed validation
type PatternError struct {
	Pattern string // Name of the offending pattern (may be empty)
	Field   string // Field that failed validation, e.g. "hold"
	Value   int    // The rejected value
	Message string
}

func (e *PatternError) Error() string {
	name := e.Pattern
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("%s: pattern %q: %s: %s (got: %d)", ErrInvalidPatternConfig, name, e.Field, e.Message, e.Value)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidPatternConfig)
func (e *PatternError) Unwrap() error {
	return ErrInvalidPatternConfig
}

// Pattern is a named breathing configuration. Durations are in seconds (ticks).
type Pattern struct {
	Name        string
	Description string
	Inhale      int
	Hold        int
	Exhale      int
	// HoldAfterExhale is optional; zero means the phase is skipped
	HoldAfterExhale int
	Cycles          int
}

// HasHoldAfterExhale reports whether the pattern includes the second hold phase
func (p Pattern) HasHoldAfterExhale() bool {
	return p.HoldAfterExhale > 0
}

// CycleTicks returns the number of ticks one full cycle takes
func (p Pattern) CycleTicks() int {
	total := p.Inhale + p.Hold + p.Exhale
	if p.HasHoldAfterExhale() {
		total += p.HoldAfterExhale
	}
	return total
}

// TotalTicks returns the number of ticks from Start to Complete
func (p Pattern) TotalTicks() int {
	return p.Cycles * p.CycleTicks()
}

// PhaseDuration returns the configured duration of a phase for this pattern.
// Ready, Complete and a skipped HoldAfterExhale have duration 0.
func (p Pattern) PhaseDuration(phase Phase) int {
	switch phase {
	case PhaseInhale:
		return p.Inhale
	case PhaseHold:
		return p.Hold
	case PhaseExhale:
		return p.Exhale
	case PhaseHoldAfterExhale:
		return p.HoldAfterExhale
	default:
		return 0
	}
}

// Summary formats the pattern for list display, e.g.
// "4 cycles • 4s inhale • 7s hold • 8s exhale"
func (p Pattern) Summary() string {
	parts := []string{
		fmt.Sprintf("%d cycles", p.Cycles),
		fmt.Sprintf("%ds inhale", p.Inhale),
		fmt.Sprintf("%ds hold", p.Hold),
		fmt.Sprintf("%ds exhale", p.Exhale),
	}
	if p.HasHoldAfterExhale() {
		parts = append(parts, fmt.Sprintf("%ds hold", p.HoldAfterExhale))
	}
	return strings.Join(parts, " • ")
}

// Validate checks that every required duration and the cycle count are positive.
// It must be applied to any externally supplied pattern before it is started.
func Validate(p Pattern) error {
	required := []struct {
		field string
		value int
	}{
		{"inhale", p.Inhale},
		{"hold", p.Hold},
		{"exhale", p.Exhale},
	}
	for _, r := range required {
		if r.value <= 0 {
			return &PatternError{Pattern: p.Name, Field: r.field, Value: r.value, Message: "duration must be positive"}
		}
	}
	if p.HoldAfterExhale < 0 {
		return &PatternError{Pattern: p.Name, Field: "hold_after_exhale", Value: p.HoldAfterExhale, Message: "duration must be positive when present"}
	}
	if p.Cycles <= 0 {
		return &PatternError{Pattern: p.Name, Field: "cycles", Value: p.Cycles, Message: "cycle count must be positive"}
	}
	return nil
}
