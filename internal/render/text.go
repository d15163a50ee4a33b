package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"roadmap/internal/layout"
)

// Text export grid size in characters.
const (
	TextCols = 96
	TextRows = 13
)

// Cell is one character of a text rendering. Marker is the stage index for
// marker cells and -1 elsewhere.
type Cell struct {
	R      rune
	Color  string
	Marker int
}

// TextGrid rasterizes the scene's road and markers into a cols x rows grid.
// The road bounds are stretched to fill the grid; markers show the stage
// number.
func TextGrid(s Scene, cols, rows int) [][]Cell {
	cols, rows = max(cols, 4), max(rows, 3)
	grid := make([][]Cell, rows)
	for i := range grid {
		grid[i] = make([]Cell, cols)
		for j := range grid[i] {
			grid[i][j] = Cell{R: ' ', Marker: -1}
		}
	}
	if s.Road == nil {
		return grid
	}
	pts := layout.Geometry{Segments: s.Road.Segments}.Flatten(12)
	if len(pts) == 0 {
		return grid
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	toCell := func(p layout.Point) (int, int) {
		c, r := (cols-1)/2, rows/2
		if maxX > minX {
			c = int(math.Round((p.X - minX) / (maxX - minX) * float64(cols-1)))
		}
		if maxY > minY {
			r = int(math.Round((p.Y - minY) / (maxY - minY) * float64(rows-1)))
		}
		return min(max(c, 0), cols-1), min(max(r, 0), rows-1)
	}

	pc, pr := toCell(pts[0])
	for _, p := range pts[1:] {
		c, r := toCell(p)
		steps := max(abs(c-pc), abs(r-pr), 1)
		for i := 0; i <= steps; i++ {
			grid[pr+(r-pr)*i/steps][pc+(c-pc)*i/steps].R = '·'
		}
		pc, pr = c, r
	}

	for i, m := range s.Markers {
		c, r := toCell(m.Center)
		label := '●'
		if i < 9 {
			label = rune('1' + i)
		}
		grid[r][c] = Cell{R: label, Color: m.Color, Marker: i}
	}
	return grid
}

// PlainRows flattens a grid to strings with trailing blanks trimmed.
func PlainRows(grid [][]Cell) []string {
	out := make([]string, len(grid))
	for i, row := range grid {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteRune(c.R)
		}
		out[i] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

// WriteText writes a plain-text drawing: header, road grid, then one line
// per stage card.
func WriteText(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)

	if s.Header != nil {
		fmt.Fprintln(bw, s.Header.Title)
		if s.Header.Description != "" {
			fmt.Fprintln(bw, s.Header.Description)
		}
		fmt.Fprintln(bw)
	}

	if s.Road == nil {
		text := "No milestones yet"
		if s.Placeholder != nil {
			text = s.Placeholder.Text
		}
		fmt.Fprintln(bw, text)
		return bw.Flush()
	}

	for _, row := range PlainRows(TextGrid(s, TextCols, TextRows)) {
		fmt.Fprintln(bw, row)
	}
	fmt.Fprintln(bw)
	for i, c := range s.Cards {
		fmt.Fprintf(bw, "%2d. %s\n", i+1, c.Title)
		if c.Description != "" {
			fmt.Fprintf(bw, "    %s\n", c.Description)
		}
	}
	return bw.Flush()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
