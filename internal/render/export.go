package render

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Format is an export file type.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatTXT Format = "txt"
)

// ParseFormats accepts a comma separated list such as "svg,png".
func ParseFormats(s string) ([]Format, error) {
	var formats []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" || seen[f] {
			continue
		}
		if f != FormatSVG && f != FormatPNG && f != FormatTXT {
			return nil, fmt.Errorf("unknown export format %q (want svg, png or txt)", part)
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no export format given")
	}
	return formats, nil
}

// Exporter writes filtered scenes to a directory.
type Exporter struct {
	Fs    afero.Fs
	Scale float64
}

func NewExporter(fs afero.Fs, scale float64) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Exporter{Fs: fs, Scale: scale}
}

// Result reports one written file or the reason it was not written.
type Result struct {
	Format Format
	Path   string
	Err    error
}

// Export writes every requested format into dir concurrently. The scene is
// filtered for export first. A failed format does not stop the others; the
// returned error is the first failure in format order.
func (e *Exporter) Export(ctx context.Context, dir string, s Scene, formats []Format) ([]Result, error) {
	if err := e.Fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	scene := s.Filter(TargetExport)
	results := make([]Result, len(formats))

	var g errgroup.Group
	for i, format := range formats {
		results[i] = Result{Format: format, Path: filepath.Join(dir, ExportFilename(s.Title, string(format)))}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Err = e.write(results[i].Path, scene, format)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			return results, r.Err
		}
	}
	return results, nil
}

func (e *Exporter) write(path string, s Scene, format Format) error {
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		if err := WriteSVG(&buf, s); err != nil {
			return err
		}
	case FormatPNG:
		if err := WritePNG(&buf, s, e.Scale); err != nil {
			return err
		}
	case FormatTXT:
		if err := WriteText(&buf, s); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err := afero.WriteFile(e.Fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
