// Package render turns a document and its road geometry into an annotated
// scene and serializes that scene to SVG, PNG or plain text.
package render

import (
	"strconv"

	"roadmap/internal/layout"
	"roadmap/internal/roadmap"
)

// Visibility controls which outputs an element appears in.
type Visibility int

const (
	// Always is drawn on screen and in exports.
	Always Visibility = iota
	// ExportOnly is drawn only in exported files.
	ExportOnly
	// NoExport is an interactive affordance stripped from exports.
	NoExport
)

// Target is the consumer of a scene.
type Target int

const (
	TargetView Target = iota
	TargetExport
)

// Shown reports whether an element with this visibility belongs in t.
func (v Visibility) Shown(t Target) bool {
	switch v {
	case ExportOnly:
		return t == TargetExport
	case NoExport:
		return t == TargetView
	default:
		return true
	}
}

const (
	HeaderHeight = 110.0
	MarkerRadius = 18.0
	CardHeight   = 84.0
	cardGap      = 14.0
	cardInset    = 12.0
	roadWidth    = 34.0

	Background = "#F8FAFC"
	RoadColor  = "#475569"
	LaneColor  = "#F8FAFC"
	InkColor   = "#0F172A"
	MutedColor = "#64748B"
)

type Road struct {
	Visibility Visibility
	Segments   []layout.Segment
	Width      float64
}

type Marker struct {
	Visibility Visibility
	Center     layout.Point
	Radius     float64
	Color      string
	Label      string
}

// Card is the label box attached to a marker. Valley cards hang below
// their marker, peak cards sit above it.
type Card struct {
	Visibility  Visibility
	StageID     string
	X, Y        float64
	W, H        float64
	Color       string
	Title       string
	Description string
}

type Header struct {
	Visibility  Visibility
	X, Y        float64
	Title       string
	Description string
}

type AddControl struct {
	Visibility Visibility
	Center     layout.Point
	Radius     float64
}

// Placeholder replaces the road when there are no stages.
type Placeholder struct {
	Visibility Visibility
	Center     layout.Point
	Text       string
}

// Scene is everything needed to draw one roadmap, in canvas coordinates.
type Scene struct {
	Width, Height float64
	Title         string

	Header      *Header
	Road        *Road
	Markers     []Marker
	Cards       []Card
	AddControl  *AddControl
	Placeholder *Placeholder
}

// Build lays the document out on top of geom. The header band sits above
// the road area.
func Build(doc *roadmap.Document, geom layout.Geometry) Scene {
	dx, dy := geom.Offset.X, geom.Offset.Y+HeaderHeight
	shift := func(p layout.Point) layout.Point {
		return layout.Point{X: p.X + dx, Y: p.Y + dy}
	}

	s := Scene{
		Width:  geom.Width,
		Height: geom.Height + HeaderHeight,
		Title:  doc.Title,
		Header: &Header{
			Visibility:  ExportOnly,
			X:           40,
			Y:           48,
			Title:       doc.Title,
			Description: doc.Description,
		},
	}

	if geom.Empty() || len(doc.Stages) == 0 {
		center := layout.Point{X: s.Width / 2, Y: HeaderHeight + geom.Height/2}
		s.Placeholder = &Placeholder{
			Visibility: Always,
			Center:     center,
			Text:       "No milestones yet",
		}
		s.AddControl = &AddControl{
			Visibility: NoExport,
			Center:     layout.Point{X: center.X, Y: center.Y + 48},
			Radius:     MarkerRadius,
		}
		return s
	}

	road := &Road{Visibility: Always, Width: roadWidth}
	road.Segments = make([]layout.Segment, len(geom.Segments))
	for i, seg := range geom.Segments {
		pts := make([]layout.Point, len(seg.Points))
		for j, p := range seg.Points {
			pts[j] = shift(p)
		}
		road.Segments[i] = layout.Segment{Kind: seg.Kind, Points: pts}
	}
	s.Road = road

	slot := geom.Width
	if len(geom.Anchors) > 1 {
		slot = geom.Anchors[1].Point.X - geom.Anchors[0].Point.X
		if slot < 0 {
			slot = -slot
		}
	}
	cardW := slot - 2*cardInset
	if cardW < 80 {
		cardW = 80
	}

	for _, a := range geom.Anchors {
		if a.Index >= len(doc.Stages) {
			break
		}
		stage := doc.Stages[a.Index]
		c := shift(a.Point)
		s.Markers = append(s.Markers, Marker{
			Visibility: Always,
			Center:     c,
			Radius:     MarkerRadius,
			Color:      stage.Color,
			Label:      strconv.Itoa(a.Index + 1),
		})

		y := c.Y + MarkerRadius + cardGap
		if a.Orientation == layout.Peak {
			y = c.Y - MarkerRadius - cardGap - CardHeight
		}
		s.Cards = append(s.Cards, Card{
			Visibility:  Always,
			StageID:     stage.ID,
			X:           c.X - cardW/2,
			Y:           y,
			W:           cardW,
			H:           CardHeight,
			Color:       stage.Color,
			Title:       stage.Title,
			Description: stage.Description,
		})
	}

	end := road.Segments[len(road.Segments)-1].End()
	s.AddControl = &AddControl{
		Visibility: NoExport,
		Center:     end,
		Radius:     MarkerRadius * 0.8,
	}
	return s
}

// Filter returns a copy holding only the elements shown for t.
func (s Scene) Filter(t Target) Scene {
	out := Scene{Width: s.Width, Height: s.Height, Title: s.Title}
	if s.Header != nil && s.Header.Visibility.Shown(t) {
		out.Header = s.Header
	}
	if s.Road != nil && s.Road.Visibility.Shown(t) {
		out.Road = s.Road
	}
	if s.AddControl != nil && s.AddControl.Visibility.Shown(t) {
		out.AddControl = s.AddControl
	}
	if s.Placeholder != nil && s.Placeholder.Visibility.Shown(t) {
		out.Placeholder = s.Placeholder
	}
	for _, m := range s.Markers {
		if m.Visibility.Shown(t) {
			out.Markers = append(out.Markers, m)
		}
	}
	for _, c := range s.Cards {
		if c.Visibility.Shown(t) {
			out.Cards = append(out.Cards, c)
		}
	}
	return out
}
