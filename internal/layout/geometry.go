// Package layout turns an ordered list of N stages into road geometry: one
// continuous path of line and cubic segments plus an anchor point for every
// stage. The result depends only on N and the layout options, never on the
// stage text.
package layout

import (
	"strconv"
	"strings"
)

type Point struct {
	X, Y float64
}

type SegmentKind int

const (
	MoveTo SegmentKind = iota
	LineTo
	CubicTo
)

// Segment is one path command. MoveTo and LineTo carry one point; CubicTo
// carries two control points followed by the end point.
type Segment struct {
	Kind   SegmentKind
	Points []Point
}

// End returns the point the pen rests on after the segment.
func (s Segment) End() Point {
	return s.Points[len(s.Points)-1]
}

type Orientation int

const (
	// Valley anchors sit below the centerline; their card goes underneath.
	Valley Orientation = iota
	// Peak anchors sit above the centerline; their card goes on top.
	Peak
)

func (o Orientation) String() string {
	if o == Peak {
		return "peak"
	}
	return "valley"
}

type Anchor struct {
	Index       int
	Point       Point
	Orientation Orientation
}

// Geometry is the derived drawing for one stage order. Coordinates are in
// road space; Offset translates road space into the Width x Height canvas.
type Geometry struct {
	Segments []Segment
	Anchors  []Anchor
	Width    float64
	Height   float64
	Offset   Point
}

// Empty reports whether there is no road to draw.
func (g Geometry) Empty() bool {
	return len(g.Segments) == 0
}

// PathData renders the segments as an SVG path "d" attribute.
func (g Geometry) PathData() string {
	var sb strings.Builder
	for i, seg := range g.Segments {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch seg.Kind {
		case MoveTo:
			sb.WriteString("M ")
		case LineTo:
			sb.WriteString("L ")
		case CubicTo:
			sb.WriteString("C ")
		}
		for j, p := range seg.Points {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatCoord(p.X))
			sb.WriteByte(' ')
			sb.WriteString(formatCoord(p.Y))
		}
	}
	return sb.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// path accumulates segments while tracking the current pen position.
type path struct {
	segments []Segment
	pen      Point
}

func (p *path) moveTo(pt Point) {
	p.segments = append(p.segments, Segment{Kind: MoveTo, Points: []Point{pt}})
	p.pen = pt
}

func (p *path) lineTo(pt Point) {
	p.segments = append(p.segments, Segment{Kind: LineTo, Points: []Point{pt}})
	p.pen = pt
}

func (p *path) cubicTo(c1, c2, end Point) {
	p.segments = append(p.segments, Segment{Kind: CubicTo, Points: []Point{c1, c2, end}})
	p.pen = end
}

// Flatten approximates the road as a polyline, sampling each cubic at
// steps evenly spaced parameters.
func (g Geometry) Flatten(steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	var pts []Point
	var pen Point
	for _, seg := range g.Segments {
		switch seg.Kind {
		case MoveTo, LineTo:
			pen = seg.Points[0]
			pts = append(pts, pen)
		case CubicTo:
			c1, c2, end := seg.Points[0], seg.Points[1], seg.Points[2]
			for i := 1; i <= steps; i++ {
				pts = append(pts, cubicAt(pen, c1, c2, end, float64(i)/float64(steps)))
			}
			pen = end
		}
	}
	return pts
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
