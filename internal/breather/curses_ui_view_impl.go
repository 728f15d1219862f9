package breather

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lowaak/zen-breath/internal/breathing"
	"github.com/rivo/tview"
)

// Page names for tview.Pages
const (
	pagePatternSelection = "pattern_selection"
	pageSession          = "session"
)

// guideCellsPerUnit converts a guide size hint to bar cells
const guideCellsPerUnit = 8

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	currentMode UIMode

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView  *tview.TextView
	mainFlex *tview.Flex // Main layout: mode content on left, logs on right

	// Pattern Selection mode components
	patternSelectionFlex       *tview.Flex
	patternSelectionTabWidgets []*tview.Box
	patternList                *tview.List
	patternDetailsPanel        *tview.TextView
	patterns                   []breathing.Pattern

	// Session mode components
	sessionFlex       *tview.Flex
	sessionTabWidgets []*tview.Box
	guidePanel        *tview.TextView
	progressPanel     *tview.TextView
}

func NewCursesUIView(logger *log.Logger, app *tview.Application) *CursesUIViewImpl {
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		currentMode: UIModePatternSelection,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// No SetChangedFunc with app.Draw() here: it can hang during shutdown while
	// log lines are still arriving. BaseUIView redraws after every update.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initPatternSelectionMode(controller)
	ui.initSessionMode()

	ui.pages.AddPage(pagePatternSelection, ui.patternSelectionFlex, true, true)
	ui.pages.AddPage(pageSession, ui.sessionFlex, true, false)

	// Pages on left, logs on right
	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.setFocusForCurrentMode()
}

func (ui *CursesUIViewImpl) initPatternSelectionMode(controller *UIController) {
	instructionsText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructionsText.SetText("[yellow]Enter[white] Choose Pattern  |  [yellow]Tab[white] Cycle Panels  |  [yellow]Esc[white] Quit\n[yellow]1[white] Patterns  |  [yellow]2[white] Session")

	ui.patternList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.logger.Printf("UI: Pattern selected: index=%d, name=%s", index, mainText)
			controller.OnPatternSelected(index)
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updatePatternDetailsDisplay(index)
		})
	ui.patternList.SetBorder(true).SetTitle(" Breathing Patterns ")

	ui.patternDetailsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	ui.patternDetailsPanel.SetBorder(true).SetTitle(" Details ")
	ui.updatePatternDetailsDisplay(-1)

	ui.patternSelectionTabWidgets = append(ui.patternSelectionTabWidgets, ui.patternList.Box, ui.patternDetailsPanel.Box)

	columns := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.patternList, 0, 1, true).
		AddItem(ui.patternDetailsPanel, 0, 1, false)

	ui.patternSelectionFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructionsText, 2, 0, false).
		AddItem(columns, 0, 1, true)
}

func (ui *CursesUIViewImpl) initSessionMode() {
	ui.guidePanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.guidePanel.SetBorder(true).SetTitle(" Breathe ")

	ui.progressPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.progressPanel.SetBorder(true).SetTitle(" Session ")

	ui.UpdateSessionState(SessionState{Snapshot: breathing.Snapshot{Phase: breathing.PhaseReady}})

	ui.sessionTabWidgets = append(ui.sessionTabWidgets, ui.guidePanel.Box, ui.progressPanel.Box)

	ui.sessionFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.guidePanel, 0, 2, true).
		AddItem(ui.progressPanel, 9, 0, false)
}

// SetPatternList populates the pattern selection list
func (ui *CursesUIViewImpl) SetPatternList(patterns []breathing.Pattern) {
	ui.patterns = patterns
	ui.patternList.Clear()

	for _, p := range patterns {
		ui.patternList.AddItem(tview.Escape(p.Name), p.Summary(), 0, nil)
	}

	if len(patterns) > 0 {
		ui.updatePatternDetailsDisplay(0)
	}
}

func (ui *CursesUIViewImpl) updatePatternDetailsDisplay(index int) {
	if ui.patternDetailsPanel == nil {
		return
	}

	var sb strings.Builder
	if index < 0 || index >= len(ui.patterns) {
		sb.WriteString("\n\n  [yellow]Pattern Selection[white]\n\n")
		sb.WriteString("  Select a pattern from the list to view details.\n")
	} else {
		p := ui.patterns[index]
		fmt.Fprintf(&sb, "\n  [yellow]%s[white]\n\n", tview.Escape(p.Name))
		if p.Description != "" {
			fmt.Fprintf(&sb, "  %s\n\n", tview.Escape(p.Description))
		}
		fmt.Fprintf(&sb, "  [gray]Inhale:[white]  %ds\n", p.Inhale)
		fmt.Fprintf(&sb, "  [gray]Hold:[white]    %ds\n", p.Hold)
		fmt.Fprintf(&sb, "  [gray]Exhale:[white]  %ds\n", p.Exhale)
		if p.HasHoldAfterExhale() {
			fmt.Fprintf(&sb, "  [gray]Hold:[white]    %ds\n", p.HoldAfterExhale)
		}
		fmt.Fprintf(&sb, "  [gray]Cycles:[white]  %d\n", p.Cycles)
		fmt.Fprintf(&sb, "  [gray]Length:[white]  %s\n\n", formatTicks(p.TotalTicks()))
		sb.WriteString("  [green]Press Enter to choose this pattern[white]\n")
	}

	ui.patternDetailsPanel.SetText(sb.String())
}

// UpdateSessionState renders the breathing guide and session progress
func (ui *CursesUIViewImpl) UpdateSessionState(state SessionState) {
	ui.guidePanel.SetText(formatGuide(state))
	ui.progressPanel.SetText(formatProgress(state))
}

func phaseColor(phase breathing.Phase) string {
	switch phase {
	case breathing.PhaseInhale:
		return "cyan"
	case breathing.PhaseHold, breathing.PhaseHoldAfterExhale:
		return "yellow"
	case breathing.PhaseExhale:
		return "blue"
	case breathing.PhaseComplete:
		return "green"
	default:
		return "gray"
	}
}

// formatGuide draws the prompt, the countdown and a bar whose width follows
// the phase's guide size
func formatGuide(state SessionState) string {
	color := phaseColor(state.Phase)
	cells := state.Phase.GuideSize() / guideCellsPerUnit

	var sb strings.Builder
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "[%s]%s[white]\n\n", color, strings.Repeat("█", cells))
	fmt.Fprintf(&sb, "[%s::b]%s[white::-]\n\n", color, state.Phase.Prompt())
	if state.Phase.InProgress() {
		fmt.Fprintf(&sb, "[white::b]%d[white::-]\n\n", state.TimeRemaining)
		fmt.Fprintf(&sb, "[gray]Cycle %d of %d[white]\n", state.CycleIndex+1, state.TotalCycles)
	}
	if state.Paused() {
		sb.WriteString("\n[yellow](PAUSED)[white]\n")
	}
	return sb.String()
}

func formatProgress(state SessionState) string {
	if !state.HasPattern() {
		return "\n  [gray]No pattern selected[white]\n\n  Choose one in Pattern Selection (press 1).\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  [yellow]%s[white]\n", tview.Escape(state.Pattern.Name))
	fmt.Fprintf(&sb, "  [gray]%s[white]\n", state.Pattern.Summary())
	fmt.Fprintf(&sb, "  [gray]Elapsed:[white] %s / %s\n\n",
		formatTicks(state.ElapsedTicks()), formatTicks(state.Pattern.TotalTicks()))

	switch {
	case state.Active:
		sb.WriteString("  [yellow]Space[white] Pause  |  [yellow]R[white] Reset\n")
	case state.Paused():
		sb.WriteString("  [yellow]Space[white] Resume  |  [yellow]R[white] Reset\n")
	case state.Phase == breathing.PhaseComplete:
		sb.WriteString("  [yellow]Space[white] Breathe Again  |  [yellow]R[white] Reset\n")
	default:
		sb.WriteString("  [yellow]Space[white] Start\n")
	}
	return sb.String()
}

// formatTicks renders a tick count as mm:ss, one tick being one second
func formatTicks(ticks int) string {
	return fmt.Sprintf("%02d:%02d", ticks/60, ticks%60)
}

// SetMode switches to the specified mode's page
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}

	ui.currentMode = mode

	switch mode {
	case UIModePatternSelection:
		ui.pages.SwitchToPage(pagePatternSelection)
	case UIModeSession:
		ui.pages.SwitchToPage(pageSession)
	}

	ui.setFocusForCurrentMode()
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

func (ui *CursesUIViewImpl) setFocusForCurrentMode() {
	if widgets := ui.getTabWidgetsForCurrentMode(); len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// getTabWidgetsForCurrentMode returns the tab widgets for the current mode
func (ui *CursesUIViewImpl) getTabWidgetsForCurrentMode() []*tview.Box {
	switch ui.currentMode {
	case UIModePatternSelection:
		return ui.patternSelectionTabWidgets
	case UIModeSession:
		return ui.sessionTabWidgets
	default:
		return nil
	}
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Number keys for mode switching
		if event.Key() == tcell.KeyRune {
			if mode, ok := GetUIModeByKey(event.Rune()); ok {
				// The controller updates the model, which notifies us
				controller.OnModeChange(mode)
				return nil
			}
		}

		// Tab to switch focus between widgets in current mode
		if event.Key() == tcell.KeyTab {
			widgets := ui.getTabWidgetsForCurrentMode()
			for i, w := range widgets {
				if w.HasFocus() {
					ui.app.SetFocus(widgets[(i+1)%len(widgets)])
					break
				}
			}
			return nil
		}

		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		if ui.currentMode == UIModeSession && event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case ' ':
				controller.ToggleSession()
				return nil
			case 'r', 'R':
				controller.ResetSession()
				return nil
			}
		}

		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line)+"\n")
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentMode()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}
