package layout

import (
	"fmt"
	"math"
	"strings"
)

const (
	// curveHandle is how far, as a share of the stage width, the cubic
	// control points sit from each serpentine endpoint.
	curveHandle = 0.3
	// turnBulge is how far, as a share of the stage width, the row-turn
	// control points sit beyond the turning anchor.
	turnBulge = 0.7
)

type Mode string

const (
	ModeSerpentine Mode = "serpentine"
	ModeWrap       Mode = "wrap"
)

// ParseMode maps a config value onto a Mode. Empty selects serpentine.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSerpentine:
		return ModeSerpentine, nil
	case ModeWrap:
		return ModeWrap, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q (want serpentine or wrap)", s)
	}
}

type Options struct {
	StageWidth  float64 `mapstructure:"stage_width" validate:"gt=0"`
	Height      float64 `mapstructure:"height" validate:"gt=0"`
	Amplitude   float64 `mapstructure:"amplitude" validate:"gte=0"`
	MinWidth    float64 `mapstructure:"min_width" validate:"gte=0"`
	Padding     float64 `mapstructure:"padding" validate:"gte=0"`
	RowCapacity int     `mapstructure:"row_capacity" validate:"gte=1"`
	RowHeight   float64 `mapstructure:"row_height" validate:"gt=0"`
}

func DefaultOptions() Options {
	return Options{
		StageWidth:  240,
		Height:      520,
		Amplitude:   90,
		MinWidth:    960,
		Padding:     60,
		RowCapacity: 4,
		RowHeight:   300,
	}
}

// Compute lays out n stages with the given mode.
func Compute(mode Mode, n int, opts Options) Geometry {
	if mode == ModeWrap {
		return Wrapped(n, opts)
	}
	return Serpentine(n, opts)
}

// Serpentine places every stage on one horizontal band, alternating below
// (even index, valley) and above (odd index, peak) the centerline. Each slot
// is drawn as two cubics: centerline to anchor, anchor back to centerline.
// All joints have horizontal tangents so the road has no kinks.
func Serpentine(n int, opts Options) Geometry {
	w := opts.StageWidth
	cy := opts.Height / 2
	roadWidth := float64(n) * w

	g := Geometry{
		Width:  math.Max(opts.MinWidth, roadWidth+2*opts.Padding),
		Height: opts.Height,
	}
	g.Offset = Point{X: (g.Width - roadWidth) / 2}
	if n <= 0 {
		return g
	}

	handle := curveHandle * w
	p := &path{}
	p.moveTo(Point{0, cy})
	g.Anchors = make([]Anchor, 0, n)
	for i := 0; i < n; i++ {
		x0 := float64(i) * w
		xm := x0 + w/2
		x1 := x0 + w

		orientation := Valley
		ya := cy + opts.Amplitude
		if i%2 == 1 {
			orientation = Peak
			ya = cy - opts.Amplitude
		}

		p.cubicTo(Point{x0 + handle, cy}, Point{xm - handle, ya}, Point{xm, ya})
		p.cubicTo(Point{xm + handle, ya}, Point{x1 - handle, cy}, Point{x1, cy})

		g.Anchors = append(g.Anchors, Anchor{
			Index:       i,
			Point:       Point{xm, ya},
			Orientation: orientation,
		})
	}
	g.Segments = p.segments
	return g
}

// Wrapped fills rows of RowCapacity stages in ox-plow order: even rows run
// left to right, odd rows right to left. Stages on a row are joined by
// straight lines and each row change is a single cubic U-turn that bulges
// outward in the direction the row was travelling.
func Wrapped(n int, opts Options) Geometry {
	w := opts.StageWidth
	capacity := opts.RowCapacity
	if capacity < 1 {
		capacity = 1
	}

	cols := n
	if cols > capacity {
		cols = capacity
	}
	rows := 0
	if n > 0 {
		rows = (n + capacity - 1) / capacity
	}
	gridWidth := float64(cols) * w

	g := Geometry{
		Width:  math.Max(opts.MinWidth, gridWidth+2*opts.Padding),
		Height: opts.Height,
	}
	if rows > 0 {
		g.Height = float64(rows) * opts.RowHeight
	}
	g.Offset = Point{X: (g.Width - gridWidth) / 2}
	if n <= 0 {
		return g
	}

	g.Anchors = make([]Anchor, 0, n)
	for i := 0; i < n; i++ {
		row := i / capacity
		pos := i % capacity
		if row%2 == 1 {
			pos = capacity - 1 - pos
		}
		orientation := Valley
		if i%2 == 1 {
			orientation = Peak
		}
		g.Anchors = append(g.Anchors, Anchor{
			Index: i,
			Point: Point{
				X: float64(pos)*w + w/2,
				Y: opts.RowHeight/2 + float64(row)*opts.RowHeight,
			},
			Orientation: orientation,
		})
	}

	bulge := turnBulge * w
	p := &path{}
	first := g.Anchors[0].Point
	p.moveTo(Point{first.X - w/2, first.Y})
	p.lineTo(first)
	for i := 1; i < n; i++ {
		prev := g.Anchors[i-1].Point
		cur := g.Anchors[i].Point
		if (i-1)/capacity == i/capacity {
			p.lineTo(cur)
			continue
		}
		dir := rowDirection((i - 1) / capacity)
		p.cubicTo(
			Point{prev.X + dir*bulge, prev.Y},
			Point{cur.X + dir*bulge, cur.Y},
			cur,
		)
	}
	last := g.Anchors[n-1].Point
	p.lineTo(Point{last.X + rowDirection((n-1)/capacity)*w/2, last.Y})

	g.Segments = p.segments
	return g
}

func rowDirection(row int) float64 {
	if row%2 == 1 {
		return -1
	}
	return 1
}
