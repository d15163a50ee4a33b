package main

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"roadmap/internal/roadmap"
	"roadmap/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive editor (default)",
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the editor needs an interactive terminal; use render, show or draft instead")
	}

	// the alt screen owns stdout; logs go to log_file or nowhere
	a, err := newApp(io.Discard)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	doc, origin := a.loadDocument(ctx)

	opts := tui.Options{
		Editor:        roadmap.NewEditor(doc, roadmap.NewHistory(a.cfg.HistoryLimit)),
		Origin:        origin,
		Store:         a.store,
		StoreKey:      a.cfg.Storage.Key,
		Exporter:      a.exporter(),
		ExportDir:     a.cfg.ExportDir(),
		Formats:       a.formats(),
		LayoutMode:    a.cfg.LayoutMode(),
		LayoutOptions: a.cfg.Layout.Options,
		StartMenu:     a.cfg.StartMenu,
		Confirmations: a.cfg.Confirmations,
		Logger:        a.log,
	}

	gen, closeClient, err := a.drafter(ctx)
	if err != nil {
		a.log.Info("AI drafting disabled", "reason", err)
	} else {
		defer closeClient()
		opts.Drafter = gen
	}

	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
