package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"roadmap/internal/draft"
	"roadmap/internal/roadmap"
	"roadmap/internal/textsync"
)

var draftCmd = &cobra.Command{
	Use:   "draft [project description]",
	Short: "Draft the stage list from a project description",
	Long:  "Asks Gemini for 5 to 7 milestones for the described project. Prints them as JSON; with --save the saved roadmap's stages are replaced and the header is kept.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDraft,
}

var draftSave bool

func init() {
	draftCmd.Flags().BoolVar(&draftSave, "save", false, "replace the saved roadmap's stages with the draft")
	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	gen, closeClient, err := a.drafter(ctx)
	if err != nil {
		return err
	}
	defer closeClient()

	items, err := gen.Generate(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.log.Info("draft received", "stages", len(items))

	stages := draft.ToStages(items)
	text, err := textsync.MarshalStages(stages)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)

	if !draftSave {
		return nil
	}
	doc, _ := a.loadDocument(ctx)
	editor := roadmap.NewEditor(doc, nil)
	editor.ReplaceStages(stages)
	if err := a.saveDocument(ctx, editor.Document()); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	a.log.Info("draft saved", "key", a.cfg.Storage.Key)
	return nil
}
