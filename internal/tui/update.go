package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"roadmap/internal/draft"
	"roadmap/internal/render"
	"roadmap/internal/roadmap"
	"roadmap/internal/schemas"
	"roadmap/internal/storage"
	"roadmap/internal/textsync"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 20
		m.source.SetWidth(msg.Width - 2)
		return m, nil

	case draftResultMsg:
		if msg.err == nil && (m.mode == ModeEditField || m.mode == ModeDrag) {
			// Esc in these modes undoes the snapshot taken on entry, so the
			// draft's own snapshot must not land on top of it.
			m.heldDraft = &msg
			return m, nil
		}
		m.applyDraft(msg)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.logger.Error("save failed", "error", msg.err)
			m.errorMessage = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		m.saved = msg.doc
		m.origin = storage.OriginStored
		m.errorMessage = ""
		m.successMessage = "Saved"
		return m, nil

	case exportedMsg:
		summary := exportSummary(msg.results)
		if msg.err != nil {
			m.logger.Warn("export failed", "error", msg.err)
			m.errorMessage = msg.err.Error()
			m.successMessage = summary
			return m, nil
		}
		m.errorMessage = ""
		m.successMessage = summary
		return m, nil

	case tea.KeyMsg:
		if m.help && m.mode != ModeStartup {
			return m.updateHelp(msg)
		}

		switch m.mode {
		case ModeStartup:
			return m.updateStartup(msg)
		case ModeNormal:
			return m.updateNormal(msg)
		case ModeEditField:
			return m.updateEditField(msg)
		case ModeSource:
			return m.updateSource(msg)
		case ModePrompt:
			return m.updatePrompt(msg)
		case ModeDrag:
			return m.updateDrag(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		}
	}
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		maxScroll := len(helpLines) - (m.height - 1)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m Model) updateStartup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "c":
		m.mode = ModeNormal
		return m, nil
	case "n":
		m.resetDocument()
		m.mode = ModeNormal
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// resetDocument starts over from the built-in document with an empty history.
func (m *Model) resetDocument() {
	history := m.editor.History()
	history.Clear()
	m.editor = roadmap.NewEditor(roadmap.DefaultDocument(), history)
	m.origin = storage.OriginDefault
	m.selected = 0
	m.afterChange()
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doc := m.editor.Document()

	if msg.Type == tea.KeyEscape {
		m.clearMessages()
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.confirmations && m.Dirty() {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = !m.help
		return m, nil
	case "j", "down":
		if m.selected < len(doc.Stages)-1 {
			m.selected++
		}
		return m, nil
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "g", "G":
		return m.startPrompt()
	}

	m.clearMessages()
	switch msg.String() {
	case "a":
		m.editor.AddStage()
		m.selected = len(m.editor.Document().Stages) - 1
		m.afterChange()
		m.successMessage = "Stage added"
	case "d":
		stage, ok := m.selectedStage()
		if !ok {
			return m, nil
		}
		if m.confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteStage
			m.confirmStageID = stage.ID
			return m, nil
		}
		m.editor.RemoveStage(stage.ID)
		m.afterChange()
	case "e":
		return m.startFieldEdit(FieldTitle)
	case "E":
		return m.startFieldEdit(FieldDescription)
	case "h":
		return m.startFieldEdit(FieldHeaderTitle)
	case "H":
		return m.startFieldEdit(FieldHeaderDescription)
	case "c":
		if stage, ok := m.selectedStage(); ok {
			m.editor.CycleColor(stage.ID)
			m.afterChange()
		}
	case " ":
		stage, ok := m.selectedStage()
		if ok && m.editor.BeginDrag(stage.ID) {
			m.mode = ModeDrag
		}
	case "u":
		if m.editor.Undo() {
			m.afterChange()
			m.successMessage = "Undone"
		} else {
			m.errorMessage = "Nothing to undo"
		}
	case "s":
		if m.store == nil {
			m.errorMessage = "No storage configured"
			return m, nil
		}
		return m, saveCmd(m.store, m.storeKey, doc.Clone())
	case "x":
		if m.exporter == nil {
			m.errorMessage = "Export is not available"
			return m, nil
		}
		m.mode = ModeFileInput
		m.input.Placeholder = "export directory"
		m.input.SetValue(m.exportDir)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "t":
		return m.openSource()
	case "y":
		text, err := textsync.MarshalStages(doc.Stages)
		if err == nil {
			err = m.clipboard.WriteAll(text)
		}
		if err != nil {
			m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		m.successMessage = "Copied stages as JSON"
	case "p":
		text, err := m.clipboard.ReadAll()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
			return m, nil
		}
		next, cmd := m.openSource()
		nm := next.(Model)
		nm.source.SetValue(cleanClipboardText(text))
		nm.applySource()
		return nm, cmd
	case "n":
		if m.confirmations && m.Dirty() {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmNewRoadmap
			return m, nil
		}
		m.resetDocument()
	}
	return m, nil
}

func (m *Model) applyDraft(msg draftResultMsg) {
	m.tracker.Finish(msg.err)
	if msg.err != nil {
		m.logger.Warn("draft failed", "error", msg.err)
		m.successMessage = ""
		m.errorMessage = msg.err.Error()
		return
	}
	draft.Apply(m.editor, msg.items)
	m.selected = 0
	m.afterChange()
	m.logger.Info("draft applied", "stages", len(msg.items))
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Drafted %d stages (u to undo)", len(msg.items))
}

// backToNormal leaves a field edit or drag and applies a held draft.
func (m *Model) backToNormal() {
	m.mode = ModeNormal
	if m.heldDraft != nil {
		msg := *m.heldDraft
		m.heldDraft = nil
		m.applyDraft(msg)
	}
}

func (m Model) startFieldEdit(field Field) (tea.Model, tea.Cmd) {
	doc := m.editor.Document()
	var value string
	switch field {
	case FieldTitle, FieldDescription:
		stage, ok := m.selectedStage()
		if !ok {
			return m, nil
		}
		m.editStageID = stage.ID
		m.editor.BeginFieldEdit(stage.ID)
		value = stage.Title
		if field == FieldDescription {
			value = stage.Description
		}
	case FieldHeaderTitle:
		m.editor.BeginHeaderEdit()
		value = doc.Title
	case FieldHeaderDescription:
		m.editor.BeginHeaderEdit()
		value = doc.Description
	}

	m.mode = ModeEditField
	m.editField = field
	m.input.Placeholder = field.String()
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// applyField pushes the input's current text into the document. Called on
// every keystroke; the undo snapshot was taken when editing began.
func (m *Model) applyField() {
	value := roadmap.String(m.input.Value())
	switch m.editField {
	case FieldTitle:
		m.editor.UpdateStage(m.editStageID, roadmap.StagePatch{Title: value})
	case FieldDescription:
		m.editor.UpdateStage(m.editStageID, roadmap.StagePatch{Description: value})
	case FieldHeaderTitle:
		m.editor.UpdateHeader(roadmap.HeaderPatch{Title: value})
	case FieldHeaderDescription:
		m.editor.UpdateHeader(roadmap.HeaderPatch{Description: value})
	}
	m.afterChange()
}

func (m Model) updateEditField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.input.Blur()
		m.backToNormal()
		return m, nil
	case tea.KeyEscape:
		// drop the edit by restoring the snapshot taken on entry
		m.input.Blur()
		m.editor.Undo()
		m.afterChange()
		m.backToNormal()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyField()
	return m, cmd
}

func (m Model) openSource() (tea.Model, tea.Cmd) {
	m.sync.Refresh(m.editor.Document())
	m.source.SetValue(m.sync.Text())
	m.sync.Focus()
	m.mode = ModeSource
	return m, m.source.Focus()
}

// applySource hands the editor text to the sync layer. Invalid text leaves
// the document alone and is reported in the source panel.
func (m *Model) applySource() {
	changed, err := m.sync.Edit(m.source.Value(), m.editor)
	if err != nil {
		return
	}
	if changed {
		n := len(m.editor.Document().Stages)
		if m.selected >= n {
			m.selected = max(n-1, 0)
		}
	}
}

func (m Model) updateSource(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEscape {
		m.source.Blur()
		m.sync.Blur(m.editor.Document())
		m.source.SetValue(m.sync.Text())
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.source, cmd = m.source.Update(msg)
	m.applySource()
	return m, cmd
}

func (m Model) startPrompt() (tea.Model, tea.Cmd) {
	m.clearMessages()
	if m.drafter == nil {
		m.errorMessage = "AI drafting needs a Gemini API key (GEMINI_API_KEY)"
		return m, nil
	}
	if m.tracker.InFlight() {
		m.errorMessage = draft.ErrInFlight.Error()
		return m, nil
	}
	m.mode = ModePrompt
	m.input.Placeholder = "describe your project"
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.input.Blur()
		m.mode = ModeNormal
		return m, nil
	case tea.KeyEnter:
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			m.errorMessage = draft.ErrEmptyPrompt.Error()
			return m, nil
		}
		if err := m.tracker.Begin(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.input.Blur()
		m.mode = ModeNormal
		m.clearMessages()
		m.successMessage = "Drafting..."
		m.logger.Info("draft requested", "prompt_chars", len(prompt))
		return m, draftCmd(m.drafter, prompt)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateDrag maps pointer crossings onto j/k: each step moves the picked
// stage one slot immediately. The whole drag is one undo step.
func (m Model) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.editor.Document().Stages)
	switch msg.String() {
	case "j", "down":
		if m.selected < n-1 {
			m.selected++
			m.editor.DragOver(m.selected)
			m.afterChange()
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.editor.DragOver(m.selected)
			m.afterChange()
		}
	case " ", "enter":
		m.editor.EndDrag()
		m.backToNormal()
	case "esc":
		id := m.editor.Dragging()
		m.editor.EndDrag()
		m.editor.Undo()
		if idx := m.editor.Document().IndexOf(id); idx >= 0 {
			m.selected = idx
		}
		m.afterChange()
		m.backToNormal()
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmDeleteStage:
			m.editor.RemoveStage(m.confirmStageID)
			m.afterChange()
			m.successMessage = "Stage deleted"
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmNewRoadmap:
			m.resetDocument()
		}
		return m, nil
	case "n", "N", "esc", "ctrl+c":
		m.mode = ModeNormal
		return m, nil
	}
	return m, nil
}

func (m Model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.input.Blur()
		m.mode = ModeNormal
		return m, nil
	case tea.KeyEnter:
		dir := strings.TrimSpace(m.input.Value())
		if dir == "" {
			dir = "."
		}
		m.input.Blur()
		m.mode = ModeNormal
		m.exportDir = dir
		scene := render.Build(m.editor.Document(), m.geometry())
		return m, exportCmd(m.exporter, dir, scene, m.formats)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// errorText is the one-line form of a sync error for the source panel.
func errorText(err error) string {
	var pe *textsync.ParseError
	if errors.As(err, &pe) {
		return "Invalid JSON: " + pe.Cause.Error()
	}
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		return "Schema: " + ve.Summary()
	}
	return err.Error()
}
