package content

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Note is a static block of text.
type Note struct {
	Title string
	Body  string
}

func NewNote(title, body string) *Note {
	return &Note{Title: title, Body: body}
}

func (n *Note) Kind() string {
	if strings.TrimSpace(n.Title) == "" {
		return "Note"
	}
	return n.Title
}

func (n *Note) Render(width, height int) string {
	return fitLines(strings.Split(n.Body, "\n"), width, height)
}

// fitLines truncates to width and pads or cuts to height.
func fitLines(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	out := make([]string, 0, height)
	for _, line := range lines {
		if len(out) == height {
			break
		}
		line = ansi.Truncate(line, width, "…")
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out = append(out, line)
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", width))
	}
	return strings.Join(out, "\n")
}
