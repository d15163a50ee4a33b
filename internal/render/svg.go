package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"roadmap/internal/layout"
)

const fontFamily = "Helvetica, Arial, sans-serif"

// WriteSVG serializes the scene as a standalone SVG document.
func WriteSVG(w io.Writer, s Scene) error {
	var svg bytes.Buffer

	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.2f %.2f">`,
		s.Width, s.Height, s.Width, s.Height)
	svg.WriteString("\n")
	fmt.Fprintf(&svg, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`, s.Width, s.Height, Background)
	svg.WriteString("\n")

	if h := s.Header; h != nil {
		fmt.Fprintf(&svg, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="30" font-weight="bold" fill="%s">`,
			h.X, h.Y, fontFamily, InkColor)
		svg.WriteString(escapeXML(h.Title))
		svg.WriteString("</text>\n")
		fmt.Fprintf(&svg, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="16" fill="%s">`,
			h.X, h.Y+30, fontFamily, MutedColor)
		svg.WriteString(escapeXML(h.Description))
		svg.WriteString("</text>\n")
	}

	if r := s.Road; r != nil {
		d := layout.Geometry{Segments: r.Segments}.PathData()
		fmt.Fprintf(&svg, `  <path d="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`,
			d, RoadColor, r.Width)
		svg.WriteString("\n")
		fmt.Fprintf(&svg, `  <path d="%s" fill="none" stroke="%s" stroke-width="3" stroke-dasharray="14 12"/>`,
			d, LaneColor)
		svg.WriteString("\n")
	}

	for _, c := range s.Cards {
		fmt.Fprintf(&svg, `  <g class="card" data-stage="%s">`, escapeXML(c.StageID))
		svg.WriteString("\n")
		fmt.Fprintf(&svg, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" ry="8" fill="#FFFFFF" stroke="%s" stroke-width="2"/>`,
			c.X, c.Y, c.W, c.H, c.Color)
		svg.WriteString("\n")
		fmt.Fprintf(&svg, `    <text x="%.2f" y="%.2f" font-family="%s" font-size="15" font-weight="bold" fill="%s">`,
			c.X+10, c.Y+22, fontFamily, InkColor)
		svg.WriteString(escapeXML(c.Title))
		svg.WriteString("</text>\n")
		for i, line := range wrapText(c.Description, charsPerLine(c.W-20, 12), 3) {
			fmt.Fprintf(&svg, `    <text x="%.2f" y="%.2f" font-family="%s" font-size="12" fill="%s">`,
				c.X+10, c.Y+42+float64(i)*15, fontFamily, MutedColor)
			svg.WriteString(escapeXML(line))
			svg.WriteString("</text>\n")
		}
		svg.WriteString("  </g>\n")
	}

	for _, m := range s.Markers {
		fmt.Fprintf(&svg, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="#FFFFFF" stroke-width="4"/>`,
			m.Center.X, m.Center.Y, m.Radius, m.Color)
		svg.WriteString("\n")
		fmt.Fprintf(&svg, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="14" font-weight="bold" fill="#FFFFFF" text-anchor="middle" dominant-baseline="middle">%s</text>`,
			m.Center.X, m.Center.Y, fontFamily, escapeXML(m.Label))
		svg.WriteString("\n")
	}

	if p := s.Placeholder; p != nil {
		fmt.Fprintf(&svg, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="18" fill="%s" text-anchor="middle">%s</text>`,
			p.Center.X, p.Center.Y, fontFamily, MutedColor, escapeXML(p.Text))
		svg.WriteString("\n")
	}

	if a := s.AddControl; a != nil {
		fmt.Fprintf(&svg, `  <g class="add-stage"><circle cx="%.2f" cy="%.2f" r="%.2f" fill="#FFFFFF" stroke="%s" stroke-width="2" stroke-dasharray="4 3"/>`,
			a.Center.X, a.Center.Y, a.Radius, MutedColor)
		fmt.Fprintf(&svg, `<text x="%.2f" y="%.2f" font-family="%s" font-size="18" fill="%s" text-anchor="middle" dominant-baseline="middle">+</text></g>`,
			a.Center.X, a.Center.Y, fontFamily, MutedColor)
		svg.WriteString("\n")
	}

	svg.WriteString("</svg>\n")
	_, err := w.Write(svg.Bytes())
	return err
}

func escapeXML(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}

// charsPerLine estimates how many glyphs of the given size fit in width.
func charsPerLine(width, size float64) int {
	n := int(width / (size * 0.55))
	if n < 8 {
		n = 8
	}
	return n
}

// wrapText breaks s on spaces into at most maxLines lines of at most max
// runes. Overflow is cut with an ellipsis.
func wrapText(s string, max, maxLines int) []string {
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, word := range words {
		switch {
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= max:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	for i, line := range lines {
		if utf8.RuneCountInString(line) > max {
			lines[i] = string([]rune(line)[:max-1]) + "…"
		}
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= max {
			last = last[:max-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}
