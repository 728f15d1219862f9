package breather

import (
	"errors"
	"log"

	"github.com/lowaak/zen-breath/internal/breathing"
)

// UIController handles UI events and coordinates with the UIModel
type UIController struct {
	model               *UIModel
	sessionManager      *SessionManager
	logger              *log.Logger
	unregisterPhaseLogs func()
}

// NewUIController creates a new UIController with the given dependencies
func NewUIController(model *UIModel, sessionManager *SessionManager, logger *log.Logger) *UIController {
	if model == nil {
		panic("UIController: model cannot be nil")
	}
	if sessionManager == nil {
		panic("UIController: sessionManager cannot be nil")
	}
	if logger == nil {
		panic("UIController: logger cannot be nil")
	}

	c := &UIController{
		model:          model,
		sessionManager: sessionManager,
		logger:         logger,
	}
	c.unregisterPhaseLogs = sessionManager.ListenToPhaseChange(c.logPhaseChange)

	return c
}

// logPhaseChange narrates the session in the log pane
func (c *UIController) logPhaseChange(state SessionState) {
	switch state.Phase {
	case breathing.PhaseInhale:
		if state.CycleIndex == 0 && state.ElapsedTicks() == 0 {
			c.logger.Printf("Breathing with %s (%s)", state.Pattern.Name, state.Pattern.Summary())
		}
		c.logger.Printf("Cycle %d of %d: %s", state.CycleIndex+1, state.TotalCycles, state.Phase.Prompt())
	case breathing.PhaseComplete:
		c.logger.Printf("%s", state.Phase.Prompt())
	case breathing.PhaseReady:
		// Reset or newly selected pattern; SessionManager already logged it
	default:
		c.logger.Printf("%s (%ds)", state.Phase.Prompt(), state.TimeRemaining)
	}
}

// RestoreSelection selects the remembered pattern, falling back to
// defaultName when nothing valid was remembered
func (c *UIController) RestoreSelection(defaultName string) {
	name := c.model.GetPreferredPattern()
	if _, ok := c.model.LookupPattern(name); !ok {
		if name != "" {
			c.logger.Printf("Remembered pattern %q is no longer available", name)
		}
		name = defaultName
	}

	pattern, ok := c.model.LookupPattern(name)
	if !ok {
		c.logger.Printf("Unknown pattern: %q", name)
		return
	}
	if err := c.sessionManager.SelectPattern(pattern); err != nil {
		c.logger.Printf("Failed to select %s: %v", pattern.Name, err)
	}
}

// OnPatternSelected handles when a pattern is chosen from the list
func (c *UIController) OnPatternSelected(index int) {
	pattern, ok := c.model.GetPattern(index)
	if !ok {
		c.logger.Printf("Invalid pattern index: %d", index)
		return
	}

	err := c.sessionManager.SelectPattern(pattern)
	if errors.Is(err, breathing.ErrSessionInProgress) {
		c.logger.Printf("Reset the current session (press 'r') before choosing another pattern")
		return
	}
	if err != nil {
		c.logger.Printf("Failed to select %s: %v", pattern.Name, err)
		return
	}

	c.model.SetPreferredPattern(pattern.Name)
	c.model.SetMode(UIModeSession)
}

// StartSession starts a fresh session with the selected pattern
func (c *UIController) StartSession() {
	c.sessionManager.Start()
}

// PauseSession pauses the running session
func (c *UIController) PauseSession() {
	c.sessionManager.Pause()
}

// ResumeSession continues a paused session
func (c *UIController) ResumeSession() {
	c.sessionManager.Resume()
}

// ResetSession abandons the session and returns to Ready
func (c *UIController) ResetSession() {
	c.sessionManager.Reset()
}

// ToggleSession starts, pauses, or resumes the session based on current state
func (c *UIController) ToggleSession() {
	state := c.sessionManager.Snapshot()
	if !state.HasPattern() {
		c.logger.Printf("No pattern selected - choose one in Pattern Selection mode (press 1)")
		return
	}
	c.sessionManager.Toggle()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	c.model.SetMode(mode)
}

// OnEscapeKey handles when the Escape key is pressed
func (c *UIController) OnEscapeKey() {
	c.model.RequestCloseApplication()
}

// Shutdown stops the session manager and cleans up resources
func (c *UIController) Shutdown() {
	c.unregisterPhaseLogs()
	c.sessionManager.Shutdown()
}
