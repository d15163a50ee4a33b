package tui

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/atotto/clipboard"
	"golang.org/x/text/encoding/charmap"

	"roadmap/internal/llm"
)

// Clipboard is the system clipboard, replaceable in tests.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

// ReadAll prefers the plain-text flavor on macOS so JSON copied out of a
// rich editor does not arrive as RTF.
func (systemClipboard) ReadAll() (string, error) {
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText turns whatever was pasted into candidate stage JSON:
// rich text is reduced to plain text, line endings are normalized, control
// characters dropped and a fenced code block unwrapped.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return llm.CleanJSONBlock(normalized)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, `{\rtf`)
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<pre"))
}

// extractTextFromRTF keeps body text and escaped literals. Braces that are
// not escaped are RTF grouping, so JSON braces survive only as \{ and \}.
// Hex escapes are decoded as Windows-1252. Destination groups such as the
// font table are skipped.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	out.Grow(len(rtf))

	depth, skipBelow := 0, -1
	for i := 0; i < len(rtf); i++ {
		c := rtf[i]
		switch c {
		case '{':
			depth++
			continue
		case '}':
			if depth == skipBelow {
				skipBelow = -1
			}
			depth--
			continue
		case '\r', '\n':
			continue
		}
		skipping := skipBelow >= 0

		if c != '\\' {
			if !skipping {
				out.WriteByte(c)
			}
			continue
		}
		if i+1 >= len(rtf) {
			break
		}
		next := rtf[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			if !skipping {
				out.WriteByte(next)
			}
			i++
		case next == '\'' && i+3 < len(rtf):
			if v, err := strconv.ParseUint(rtf[i+2:i+4], 16, 8); err == nil && !skipping {
				out.WriteRune(charmap.Windows1252.DecodeByte(byte(v)))
			}
			i += 3
		case next == '*':
			skipBelow = depth
			i++
		case isLetter(next):
			j := i + 1
			for j < len(rtf) && isLetter(rtf[j]) {
				j++
			}
			word := rtf[i+1 : j]
			for j < len(rtf) && (rtf[j] == '-' || (rtf[j] >= '0' && rtf[j] <= '9')) {
				j++
			}
			if j < len(rtf) && rtf[j] == ' ' {
				j++
			}
			i = j - 1

			switch word {
			case "fonttbl", "colortbl", "stylesheet", "info":
				skipBelow = depth
			case "par", "line":
				if !skipping {
					out.WriteByte('\n')
				}
			case "tab":
				if !skipping {
					out.WriteByte('\t')
				}
			}
		default:
			i++
		}
	}
	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// extractTextFromHTML returns the body text of an HTML clipboard flavor.
// Head, script and style contents are dropped.
func extractTextFromHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("head, script, style, noscript").Remove()
	return doc.Find("body").Text()
}
