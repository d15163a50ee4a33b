package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"roadmap/internal/roadmap"
	"roadmap/internal/textsync"
)

var watchCmd = &cobra.Command{
	Use:   "watch [stages.json]",
	Short: "Re-export whenever a stage list file is saved",
	Long: "Writes the saved roadmap's stages to the given file (when it does not exist yet), " +
		"then watches it. The file defaults to roadmap-stages.json in save_directory. Every valid save replaces the stages and re-exports the drawing; " +
		"invalid saves are reported and ignored.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

const defaultStagesFile = "roadmap-stages.json"

var (
	watchOutDir string
	watchSave   bool
)

func init() {
	watchCmd.Flags().StringVarP(&watchOutDir, "out", "o", "", "output directory (default save_directory or .)")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "also save every accepted change to the store")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, _ := a.loadDocument(ctx)
	editor := roadmap.NewEditor(doc, roadmap.NewHistory(a.cfg.HistoryLimit))
	sync := textsync.New(doc)

	file := a.cfg.SavePath(defaultStagesFile)
	if len(args) == 1 {
		file = args[0]
	}
	if _, err := os.Stat(file); os.IsNotExist(err) {
		if err := os.WriteFile(file, []byte(sync.Text()+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
	}

	dir := watchOutDir
	if dir == "" {
		dir = a.cfg.ExportDir()
	}
	if _, err := a.export(ctx, dir, editor.Document(), a.formats()); err != nil {
		a.log.Warn("initial export incomplete", "error", err)
	}

	w, err := textsync.NewWatcher(file)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}
	defer w.Stop()
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", w.Path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case edit := <-w.Edits:
			if edit.Err != nil {
				a.log.Warn("watch error", "error", edit.Err)
				continue
			}
			applyFileEdit(ctx, a, editor, sync, edit.Text, dir)
		}
	}
}

func applyFileEdit(ctx context.Context, a *app, editor *roadmap.Editor, sync *textsync.Sync, text, dir string) {
	changed, err := sync.Edit(text, editor)
	if err != nil {
		a.log.Warn("ignoring invalid stage list", "error", err)
		return
	}
	if !changed {
		a.log.Debug("stage list unchanged")
		return
	}
	a.log.Info("stage list changed", "stages", len(editor.Document().Stages))

	if _, err := a.export(ctx, dir, editor.Document(), a.formats()); err != nil {
		a.log.Warn("export incomplete", "error", err)
	}
	if watchSave {
		if err := a.saveDocument(ctx, editor.Document()); err != nil {
			a.log.Error("save failed", "error", err)
		}
	}
}
