package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"roadmap/internal/layout"
	"roadmap/internal/render"
	"roadmap/internal/roadmap"
)

// renderRoad draws geom scaled into a cols x rows character grid. Markers
// show the 1-based stage number in the stage color.
func renderRoad(geom layout.Geometry, stages []roadmap.Stage, selected, cols, rows int) []string {
	scene := render.Build(&roadmap.Document{Stages: stages}, geom).Filter(render.TargetView)
	grid := render.TextGrid(scene, cols, rows)

	out := make([]string, len(grid))
	for i, row := range grid {
		var sb strings.Builder
		for _, c := range row {
			if c.Marker < 0 || c.Color == "" {
				sb.WriteRune(c.R)
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
			if c.Marker == selected {
				style = style.Bold(true).Reverse(true)
			}
			sb.WriteString(style.Render(string(c.R)))
		}
		out[i] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

// stageLines lists the stages with the selection marker.
func stageLines(stages []roadmap.Stage, selected int, dragging bool, width int) []string {
	lines := make([]string, 0, len(stages))
	for i, s := range stages {
		prefix := "  "
		if i == selected {
			prefix = "> "
			if dragging {
				prefix = "≡ "
			}
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("●")
		text := strconv.Itoa(i+1) + ". " + s.Title
		if s.Description != "" {
			text += "  " + s.Description
		}
		if width > 8 {
			text = truncate(text, width-6)
		}
		line := prefix + dot + " " + text
		if i == selected {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
