package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"roadmap/internal/render"
	"roadmap/internal/roadmap"
	"roadmap/internal/storage"
)

// draftCmd runs the model call off the update loop. It has no timeout of
// its own and cannot be cancelled.
func draftCmd(d Drafter, prompt string) tea.Cmd {
	return func() tea.Msg {
		items, err := d.Generate(context.Background(), prompt)
		return draftResultMsg{items: items, err: err}
	}
}

func saveCmd(store storage.Store, key string, doc roadmap.Document) tea.Cmd {
	return func() tea.Msg {
		err := storage.SaveDocument(context.Background(), store, key, &doc)
		return savedMsg{doc: doc, err: err}
	}
}

func exportCmd(exp *render.Exporter, dir string, scene render.Scene, formats []render.Format) tea.Cmd {
	return func() tea.Msg {
		results, err := exp.Export(context.Background(), dir, scene, formats)
		return exportedMsg{results: results, err: err}
	}
}

func exportSummary(results []render.Result) string {
	var written []string
	for _, r := range results {
		if r.Err == nil {
			written = append(written, filepath.Base(r.Path))
		}
	}
	if len(written) == 0 {
		return ""
	}
	return fmt.Sprintf("Exported %s", strings.Join(written, ", "))
}
