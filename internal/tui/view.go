package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"roadmap/internal/storage"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

var helpLines = []string{
	"Roadmap Help",
	"============",
	"",
	"Stages:",
	"-------",
	"  j/k, ↓/↑         Select next/previous stage",
	"  a                Add a stage at the end of the road",
	"  d                Delete selected stage",
	"  e                Edit selected stage title",
	"  E                Edit selected stage description",
	"  c                Cycle selected stage color",
	"  space            Pick up selected stage, j/k to move, space to drop",
	"                   (Esc while moving puts it back)",
	"",
	"Roadmap:",
	"--------",
	"  h                Edit roadmap title",
	"  H                Edit roadmap description",
	"  n                Start a new roadmap from the template",
	"",
	"JSON source:",
	"------------",
	"  t                Open the stage list as JSON; edits apply as you type",
	"  y                Copy stages as JSON to the clipboard",
	"  p                Paste JSON from the clipboard into the source editor",
	"  Esc              Leave the source editor",
	"",
	"Drafting:",
	"---------",
	"  g                Describe a project and let the model draft the stages",
	"",
	"Files:",
	"------",
	"  s                Save",
	"  x                Export SVG (and PNG when enabled)",
	"",
	"General:",
	"  u                Undo last change",
	"  Esc              Cancel current edit",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m Model) View() string {
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}
	if m.mode == ModeStartup {
		return m.startupView()
	}

	width := m.width
	if width < 20 {
		width = 80
	}
	doc := m.editor.Document()

	var result strings.Builder
	result.WriteString(titleStyle.Render(doc.Title))
	result.WriteString("\n")
	result.WriteString(mutedStyle.Render(truncate(doc.Description, width)))
	result.WriteString("\n\n")

	if len(doc.Stages) == 0 {
		result.WriteString(mutedStyle.Render("No milestones yet (press a to add one, g to draft)"))
		result.WriteString("\n")
	} else {
		rows := renderRoad(m.geometry(), doc.Stages, m.selected, width-2, previewRows)
		for _, row := range rows {
			result.WriteString(" ")
			result.WriteString(row)
			result.WriteString("\n")
		}
	}
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")

	if m.mode == ModeSource {
		result.WriteString(m.source.View())
		result.WriteString("\n")
		if err := m.sync.Err(); err != nil {
			result.WriteString(errorStyle.Render(truncate(errorText(err), width)))
		} else {
			result.WriteString(successStyle.Render("Valid"))
		}
		result.WriteString("\n")
	} else {
		for _, line := range stageLines(doc.Stages, m.selected, m.mode == ModeDrag, width) {
			result.WriteString(line)
			result.WriteString("\n")
		}
	}

	switch m.mode {
	case ModeEditField:
		result.WriteString(fmt.Sprintf("%s: %s\n", m.editField, m.input.View()))
	case ModePrompt:
		result.WriteString(fmt.Sprintf("Project: %s\n", m.input.View()))
	case ModeFileInput:
		result.WriteString(fmt.Sprintf("Export to: %s\n", m.input.View()))
	}

	result.WriteString(m.statusLine())
	return result.String()
}

func (m Model) statusLine() string {
	n := len(m.editor.Document().Stages)
	switch m.mode {
	case ModeEditField:
		return fmt.Sprintf("Mode: EDIT | %s | Enter=done, Esc=cancel", m.editField)
	case ModeSource:
		return "Mode: SOURCE | edits apply while the JSON is valid | Esc=done"
	case ModePrompt:
		status := "Mode: DRAFT | Enter=generate, Esc=cancel"
		if m.errorMessage != "" {
			status += " | ERROR: " + m.errorMessage
		}
		return status
	case ModeDrag:
		return fmt.Sprintf("Mode: DRAG | Stage %d/%d | j/k=move, space=drop, Esc=cancel", m.selected+1, n)
	case ModeFileInput:
		return fmt.Sprintf("Mode: EXPORT | %s | Enter=confirm, Esc=cancel", formatList(m.formats))
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteStage:
			title := ""
			if idx := m.editor.Document().IndexOf(m.confirmStageID); idx >= 0 {
				title = m.editor.Document().Stages[idx].Title
			}
			message = fmt.Sprintf("Delete stage %q? (y/n)", title)
		case ConfirmQuit:
			message = "Quit? Unsaved changes will be lost. (y/n)"
		case ConfirmNewRoadmap:
			message = "Start a new roadmap? Unsaved changes will be lost. (y/n)"
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	}

	status := fmt.Sprintf("Mode: %s", m.mode)
	if n > 0 {
		status += fmt.Sprintf(" | Stage %d/%d", m.selected+1, n)
	}
	if m.Dirty() {
		status += " | modified"
	}
	if m.tracker.InFlight() {
		status += " | drafting..."
	} else if m.tracker.Err() != nil && m.errorMessage == "" {
		status += " | last draft failed (g to retry)"
	}
	if m.successMessage != "" {
		status += " | " + successStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

func (m Model) startupView() string {
	var result strings.Builder
	result.WriteString(titleStyle.Render("Roadmap"))
	result.WriteString("\n\n")
	doc := m.editor.Document()
	if m.origin == storage.OriginStored {
		result.WriteString(fmt.Sprintf("Saved roadmap found: %s (%d stages)\n", doc.Title, len(doc.Stages)))
	} else {
		result.WriteString("No saved roadmap, starting from the template.\n")
	}
	result.WriteString("\n")
	result.WriteString("Press Enter to continue, 'n' for a new roadmap, or 'q' to quit")
	return result.String()
}

func (m Model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = len(helpLines)
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-1 {
		startLine = max(len(helpLines)-visibleHeight, 0)
	}
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}

func formatList[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = strings.ToUpper(string(it))
	}
	return strings.Join(parts, "+")
}
