package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap/internal/layout"
	"roadmap/internal/roadmap"
)

func testDoc(titles ...string) *roadmap.Document {
	doc := &roadmap.Document{Title: "Launch Plan", Description: "From zero to one"}
	for i, title := range titles {
		doc.Stages = append(doc.Stages, roadmap.Stage{
			ID:          "s" + string(rune('0'+i)),
			Title:       title,
			Description: "Work for " + title,
			Color:       roadmap.PaletteColor(i),
		})
	}
	return doc
}

func buildScene(doc *roadmap.Document) Scene {
	geom := layout.Serpentine(len(doc.Stages), layout.DefaultOptions())
	return Build(doc, geom)
}

func TestVisibility_Shown(t *testing.T) {
	tests := []struct {
		v      Visibility
		view   bool
		export bool
	}{
		{Always, true, true},
		{ExportOnly, false, true},
		{NoExport, true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.view, tt.v.Shown(TargetView))
		assert.Equal(t, tt.export, tt.v.Shown(TargetExport))
	}
}

func TestBuild(t *testing.T) {
	doc := testDoc("Plan", "Build", "Ship")
	s := buildScene(doc)

	require.NotNil(t, s.Road)
	require.Len(t, s.Markers, 3)
	require.Len(t, s.Cards, 3)
	assert.Nil(t, s.Placeholder)
	assert.Equal(t, "1", s.Markers[0].Label)
	assert.Equal(t, roadmap.Palette[2], s.Markers[2].Color)
	assert.Equal(t, "s1", s.Cards[1].StageID)

	// valley card below its marker, peak card above
	assert.Greater(t, s.Cards[0].Y, s.Markers[0].Center.Y)
	assert.Less(t, s.Cards[1].Y+s.Cards[1].H, s.Markers[1].Center.Y)

	// road area starts below the header band
	assert.Equal(t, layout.DefaultOptions().Height+HeaderHeight, s.Height)
	for _, m := range s.Markers {
		assert.Greater(t, m.Center.Y, HeaderHeight)
		assert.Less(t, m.Center.X, s.Width)
	}

	require.NotNil(t, s.AddControl)
	assert.Equal(t, s.Road.Segments[len(s.Road.Segments)-1].End(), s.AddControl.Center)
}

func TestBuild_Empty(t *testing.T) {
	s := buildScene(testDoc())

	assert.Nil(t, s.Road)
	assert.Empty(t, s.Markers)
	require.NotNil(t, s.Placeholder)
	require.NotNil(t, s.AddControl)
}

func TestFilter(t *testing.T) {
	s := buildScene(testDoc("Plan", "Build"))

	view := s.Filter(TargetView)
	assert.Nil(t, view.Header)
	assert.NotNil(t, view.AddControl)
	assert.Len(t, view.Markers, 2)

	export := s.Filter(TargetExport)
	assert.NotNil(t, export.Header)
	assert.Nil(t, export.AddControl)
	assert.Len(t, export.Cards, 2)
	assert.NotNil(t, export.Road)
}

func TestWriteSVG(t *testing.T) {
	doc := testDoc("Plan & <Design>", "Build")
	s := buildScene(doc).Filter(TargetExport)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, s))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, "Plan &amp; &lt;Design&gt;")
	assert.Contains(t, out, "Launch Plan")
	assert.Contains(t, out, `d="M `)
	assert.NotContains(t, out, "add-stage")
	assert.Equal(t, 2, strings.Count(out, `class="card"`))
}

func TestWriteSVG_ViewHasNoHeader(t *testing.T) {
	s := buildScene(testDoc("Plan")).Filter(TargetView)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, s))
	assert.NotContains(t, buf.String(), "From zero to one")
	assert.Contains(t, buf.String(), "add-stage")
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrapText("one two three", 8, 3))
	assert.Empty(t, wrapText("   ", 10, 3))

	lines := wrapText("a b c d e f g h", 3, 2)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "…"))
}

func TestRenderPNG(t *testing.T) {
	s := buildScene(testDoc("Plan", "Build")).Filter(TargetExport)

	dc, err := RenderPNG(s, 0.5)
	require.NoError(t, err)
	assert.Equal(t, int(s.Width*0.5), dc.Width())
	assert.Equal(t, int(s.Height*0.5), dc.Height())
}

func TestRenderPNG_MissingGlyphs(t *testing.T) {
	s := buildScene(testDoc("Launch 🚀")).Filter(TargetExport)

	_, err := RenderPNG(s, 1)
	var rasterErr *RasterError
	require.True(t, errors.As(err, &rasterErr))
	assert.Contains(t, err.Error(), "SVG")
}

func TestSceneTexts_IncludesDrawnLiterals(t *testing.T) {
	view := buildScene(testDoc("Plan")).Filter(TargetView)
	texts := sceneTexts(view)
	assert.Contains(t, texts, overflowMark)
	assert.Contains(t, texts, addMark)

	export := sceneTexts(buildScene(testDoc("Plan")).Filter(TargetExport))
	assert.Contains(t, export, overflowMark)
	assert.NotContains(t, export, addMark)

	f, err := loadFonts()
	require.NoError(t, err)
	assert.Empty(t, missingGlyphs(f.regular, texts...))
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{"Project Roadmap", "svg", "project-roadmap.svg"},
		{"  Q3   Launch\tPlan ", ".png", "q3-launch-plan.png"},
		{"", "svg", "roadmap.svg"},
		{"   ", "png", "roadmap.png"},
		{"a/b", "svg", "a-b.svg"},
		{"ÉTÉ Plan", "", "été-plan"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportFilename(tt.title, tt.ext))
		})
	}
}

func TestParseFormats(t *testing.T) {
	formats, err := ParseFormats("svg, PNG,svg")
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatSVG, FormatPNG}, formats)

	formats, err = ParseFormats("txt")
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatTXT}, formats)

	_, err = ParseFormats("gif")
	assert.Error(t, err)
	_, err = ParseFormats(" , ")
	assert.Error(t, err)
}

func TestExporter_Export(t *testing.T) {
	fs := afero.NewMemMapFs()
	exp := NewExporter(fs, 1)
	s := buildScene(testDoc("Plan", "Build"))

	results, err := exp.Export(context.Background(), "/out", s, []Format{FormatSVG, FormatPNG})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "/out/launch-plan.svg", results[0].Path)
	assert.Equal(t, "/out/launch-plan.png", results[1].Path)

	svg, err := afero.ReadFile(fs, results[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "From zero to one")

	raw, err := afero.ReadFile(fs, results[1].Path)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestExporter_PNGFailureKeepsSVG(t *testing.T) {
	fs := afero.NewMemMapFs()
	exp := NewExporter(fs, 1)
	s := buildScene(testDoc("Ship 🚢"))

	results, err := exp.Export(context.Background(), "/out", s, []Format{FormatSVG, FormatPNG})
	var rasterErr *RasterError
	require.True(t, errors.As(err, &rasterErr))

	assert.NoError(t, results[0].Err)
	exists, err := afero.Exists(fs, results[0].Path)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, results[1].Err)
	exists, err = afero.Exists(fs, results[1].Path)
	require.NoError(t, err)
	assert.False(t, exists)
}
