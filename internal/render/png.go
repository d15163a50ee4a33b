package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"roadmap/internal/layout"
)

// RasterError is returned when the scene cannot be rasterized.
type RasterError struct {
	Reason string
}

func (e *RasterError) Error() string {
	return fmt.Sprintf("PNG export failed: %s. Export as SVG instead", e.Reason)
}

type fonts struct {
	regular *truetype.Font
	bold    *truetype.Font
}

func loadFonts() (*fonts, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &fonts{regular: regular, bold: bold}, nil
}

func (f *fonts) face(bold bool, size float64) font.Face {
	ttf := f.regular
	if bold {
		ttf = f.bold
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// missingGlyphs returns the runes in texts the font has no glyph for.
func missingGlyphs(f *truetype.Font, texts ...string) []rune {
	seen := map[rune]bool{}
	var missing []rune
	for _, text := range texts {
		for _, r := range text {
			if unicode.IsSpace(r) || unicode.IsControl(r) || seen[r] {
				continue
			}
			seen[r] = true
			if f.Index(r) == 0 {
				missing = append(missing, r)
			}
		}
	}
	return missing
}

// Literals drawn besides scene text.
const (
	overflowMark = "…"
	addMark      = "+"
)

// sceneTexts lists every string RenderPNG may draw for s.
func sceneTexts(s Scene) []string {
	var texts []string
	if s.Header != nil {
		texts = append(texts, s.Header.Title, s.Header.Description)
	}
	for _, c := range s.Cards {
		texts = append(texts, c.Title, c.Description)
	}
	for _, m := range s.Markers {
		texts = append(texts, m.Label)
	}
	if s.Placeholder != nil {
		texts = append(texts, s.Placeholder.Text)
	}
	if len(s.Cards) > 0 {
		texts = append(texts, overflowMark)
	}
	if s.AddControl != nil {
		texts = append(texts, addMark)
	}
	return texts
}

// RenderPNG rasterizes the scene at the given scale.
func RenderPNG(s Scene, scale float64) (*gg.Context, error) {
	if scale <= 0 {
		scale = 1
	}
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	if missing := missingGlyphs(f.regular, sceneTexts(s)...); len(missing) > 0 {
		return nil, &RasterError{
			Reason: fmt.Sprintf("the embedded font cannot draw %q", string(missing)),
		}
	}

	width := int(s.Width * scale)
	height := int(s.Height * scale)
	if width <= 0 || height <= 0 {
		return nil, &RasterError{Reason: "scene has no area"}
	}

	dc := gg.NewContext(width, height)
	dc.Scale(scale, scale)
	dc.SetHexColor(Background)
	dc.Clear()

	if h := s.Header; h != nil {
		dc.SetFontFace(f.face(true, 30))
		dc.SetHexColor(InkColor)
		dc.DrawString(h.Title, h.X, h.Y)
		dc.SetFontFace(f.face(false, 16))
		dc.SetHexColor(MutedColor)
		dc.DrawString(h.Description, h.X, h.Y+30)
	}

	if r := s.Road; r != nil {
		tracePath(dc, r.Segments)
		dc.SetHexColor(RoadColor)
		dc.SetLineWidth(r.Width)
		dc.SetLineCapRound()
		dc.Stroke()

		tracePath(dc, r.Segments)
		dc.SetHexColor(LaneColor)
		dc.SetLineWidth(3)
		dc.SetDash(14, 12)
		dc.Stroke()
		dc.SetDash()
	}

	for _, c := range s.Cards {
		dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, 8)
		dc.SetHexColor("#FFFFFF")
		dc.FillPreserve()
		dc.SetHexColor(c.Color)
		dc.SetLineWidth(2)
		dc.Stroke()

		dc.SetFontFace(f.face(true, 15))
		dc.SetHexColor(InkColor)
		dc.DrawString(c.Title, c.X+10, c.Y+22)

		dc.SetFontFace(f.face(false, 12))
		dc.SetHexColor(MutedColor)
		lines := dc.WordWrap(c.Description, c.W-20)
		if len(lines) > 3 {
			lines = lines[:3]
			lines[2] = strings.TrimRight(lines[2], " ") + overflowMark
		}
		for i, line := range lines {
			dc.DrawString(line, c.X+10, c.Y+42+float64(i)*15)
		}
	}

	dc.SetFontFace(f.face(true, 14))
	for _, m := range s.Markers {
		dc.DrawCircle(m.Center.X, m.Center.Y, m.Radius)
		dc.SetHexColor(m.Color)
		dc.FillPreserve()
		dc.SetHexColor("#FFFFFF")
		dc.SetLineWidth(4)
		dc.Stroke()
		dc.DrawStringAnchored(m.Label, m.Center.X, m.Center.Y, 0.5, 0.35)
	}

	if p := s.Placeholder; p != nil {
		dc.SetFontFace(f.face(false, 18))
		dc.SetHexColor(MutedColor)
		dc.DrawStringAnchored(p.Text, p.Center.X, p.Center.Y, 0.5, 0.5)
	}

	if a := s.AddControl; a != nil {
		dc.DrawCircle(a.Center.X, a.Center.Y, a.Radius)
		dc.SetHexColor("#FFFFFF")
		dc.FillPreserve()
		dc.SetHexColor(MutedColor)
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.SetFontFace(f.face(false, 18))
		dc.DrawStringAnchored(addMark, a.Center.X, a.Center.Y, 0.5, 0.35)
	}

	return dc, nil
}

// WritePNG rasterizes the scene and encodes it to w.
func WritePNG(w io.Writer, s Scene, scale float64) error {
	dc, err := RenderPNG(s, scale)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return &RasterError{Reason: err.Error()}
	}
	return nil
}

func tracePath(dc *gg.Context, segments []layout.Segment) {
	dc.NewSubPath()
	for _, seg := range segments {
		switch seg.Kind {
		case layout.MoveTo:
			dc.MoveTo(seg.Points[0].X, seg.Points[0].Y)
		case layout.LineTo:
			dc.LineTo(seg.Points[0].X, seg.Points[0].Y)
		case layout.CubicTo:
			c1, c2, end := seg.Points[0], seg.Points[1], seg.Points[2]
			dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
		}
	}
}
