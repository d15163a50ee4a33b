package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"roadmap/internal/layout"
	"roadmap/internal/roadmap"
	"roadmap/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved roadmap",
	RunE:  runShow,
}

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the full document as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, origin := a.loadDocument(context.Background())
	if showJSON {
		data, err := roadmap.EncodeDocument(doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	printSummary(cmd.OutOrStdout(), doc, a.geometry(doc))
	if origin == storage.OriginDefault {
		fmt.Fprintln(cmd.OutOrStdout(), "(nothing saved yet, showing the template)")
	}
	return nil
}

func printSummary(w io.Writer, doc *roadmap.Document, geom layout.Geometry) {
	fmt.Fprintf(w, "%s\n%s\n\n", doc.Title, doc.Description)
	if len(doc.Stages) == 0 {
		fmt.Fprintln(w, "No milestones yet.")
		return
	}
	for i, s := range doc.Stages {
		side := ""
		if i < len(geom.Anchors) {
			side = geom.Anchors[i].Orientation.String()
		}
		fmt.Fprintf(w, "%2d. %-24s %s  %-6s %s\n", i+1, s.Title, s.Color, side, s.Description)
	}
	fmt.Fprintf(w, "\ncanvas %.0fx%.0f\n", geom.Width, geom.Height)
}
