package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"roadmap/internal/render"
	"roadmap/internal/roadmap"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Export the saved roadmap as SVG and PNG",
	Long:  "Lays out the saved roadmap (or a JSON file given with --input) and writes the drawing to the export directory, named after the roadmap title.",
	RunE:  runRender,
}

var (
	renderInput   string
	renderOutDir  string
	renderFormats string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "read the roadmap from this JSON file instead of the store")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "output directory (default save_directory or .)")
	renderCmd.Flags().StringVarP(&renderFormats, "format", "f", "", "comma separated formats: svg,png,txt (default from config)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	doc, err := loadInput(ctx, a, renderInput)
	if err != nil {
		return err
	}

	formats := a.formats()
	if renderFormats != "" {
		if formats, err = render.ParseFormats(renderFormats); err != nil {
			return err
		}
	}
	dir := renderOutDir
	if dir == "" {
		dir = a.cfg.ExportDir()
	}

	results, err := a.export(ctx, dir, doc, formats)
	for _, r := range results {
		if r.Err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
		}
	}
	return err
}

// loadInput reads a document file when path is set, else the stored
// document.
func loadInput(ctx context.Context, a *app, path string) (*roadmap.Document, error) {
	if path == "" {
		doc, _ := a.loadDocument(ctx)
		return doc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := roadmap.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}
