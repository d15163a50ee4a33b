// Package tui is the interactive terminal editor for a roadmap.
package tui

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"roadmap/internal/draft"
	"roadmap/internal/layout"
	"roadmap/internal/render"
	"roadmap/internal/roadmap"
	"roadmap/internal/storage"
	"roadmap/internal/textsync"
)

// Drafter produces a stage list from a project description.
type Drafter interface {
	Generate(ctx context.Context, prompt string) ([]draft.Item, error)
}

// Options wires the editor to its collaborators. Only Editor is required.
type Options struct {
	Editor        *roadmap.Editor
	Origin        storage.Origin
	Store         storage.Store
	StoreKey      string
	Drafter       Drafter
	Exporter      *render.Exporter
	ExportDir     string
	Formats       []render.Format
	LayoutMode    layout.Mode
	LayoutOptions layout.Options
	StartMenu     bool
	Confirmations bool
	Clipboard     Clipboard
	Logger        *slog.Logger
}

type Model struct {
	width  int
	height int
	mode   Mode

	help       bool
	helpScroll int

	editor  *roadmap.Editor
	sync    *textsync.Sync
	tracker *draft.Tracker
	saved   roadmap.Document
	origin  storage.Origin

	drafter       Drafter
	store         storage.Store
	storeKey      string
	exporter      *render.Exporter
	exportDir     string
	formats       []render.Format
	layoutMode    layout.Mode
	layoutOptions layout.Options
	confirmations bool
	clipboard     Clipboard
	logger        *slog.Logger

	selected       int
	editField      Field
	editStageID    string
	input          textinput.Model
	source         textarea.Model
	confirmAction  ConfirmAction
	confirmStageID string

	// a draft result that arrived mid field edit or drag; applied once the
	// editor is back in normal mode
	heldDraft *draftResultMsg

	errorMessage   string
	successMessage string
}

type draftResultMsg struct {
	items []draft.Item
	err   error
}

type savedMsg struct {
	doc roadmap.Document
	err error
}

type exportedMsg struct {
	results []render.Result
	err     error
}

func New(opts Options) Model {
	editor := opts.Editor
	if editor == nil {
		editor = roadmap.NewEditor(nil, nil)
	}
	if opts.StoreKey == "" {
		opts.StoreKey = storage.DefaultKey
	}
	if opts.LayoutMode == "" {
		opts.LayoutMode = layout.ModeSerpentine
	}
	if opts.LayoutOptions == (layout.Options{}) {
		opts.LayoutOptions = layout.DefaultOptions()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []render.Format{render.FormatSVG}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	input := textinput.New()
	input.CharLimit = 280

	source := textarea.New()
	source.ShowLineNumbers = false
	source.CharLimit = 0
	source.MaxHeight = 0
	source.SetHeight(sourceRows)

	m := Model{
		mode:          ModeNormal,
		editor:        editor,
		sync:          textsync.New(editor.Document()),
		tracker:       &draft.Tracker{},
		saved:         editor.Document().Clone(),
		origin:        opts.Origin,
		drafter:       opts.Drafter,
		store:         opts.Store,
		storeKey:      opts.StoreKey,
		exporter:      opts.Exporter,
		exportDir:     opts.ExportDir,
		formats:       opts.Formats,
		layoutMode:    opts.LayoutMode,
		layoutOptions: opts.LayoutOptions,
		confirmations: opts.Confirmations,
		clipboard:     opts.Clipboard,
		logger:        opts.Logger,
		input:         input,
		source:        source,
	}
	if opts.StartMenu {
		m.mode = ModeStartup
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Document returns the live document.
func (m Model) Document() *roadmap.Document {
	return m.editor.Document()
}

func (m Model) Mode() Mode {
	return m.mode
}

func (m Model) Selected() int {
	return m.selected
}

// Dirty reports whether the document differs from the last save or load.
func (m Model) Dirty() bool {
	return !m.saved.Equal(m.editor.Document())
}

func (m Model) geometry() layout.Geometry {
	return layout.Compute(m.layoutMode, len(m.editor.Document().Stages), m.layoutOptions)
}

func (m Model) selectedStage() (roadmap.Stage, bool) {
	stages := m.editor.Document().Stages
	if m.selected < 0 || m.selected >= len(stages) {
		return roadmap.Stage{}, false
	}
	return stages[m.selected], true
}

// afterChange keeps derived state in step with the document.
func (m *Model) afterChange() {
	n := len(m.editor.Document().Stages)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.sync.Refresh(m.editor.Document())
	if !m.sync.Focused() {
		m.source.SetValue(m.sync.Text())
	}
}

func (m *Model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}
