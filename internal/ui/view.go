package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/desk"
	"github.com/atomicstack/tmux-floatdesk/internal/floating"
	"github.com/atomicstack/tmux-floatdesk/internal/tabs"
)

const maxTabLabel = 16

// tabSpan records where a tab was drawn on the strip.
type tabSpan struct {
	index      int
	start, end int
}

func (m *Model) tabZoneID(i int) string {
	return fmt.Sprintf("tab-%d", i)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTabStrip())
	lines = append(lines, m.renderDesk()...)
	lines = append(lines, m.renderStatus())
	return m.zones.Scan(strings.Join(lines, "\n"))
}

func (m *Model) renderTabStrip() string {
	m.spans = m.spans[:0]
	var b strings.Builder
	col := 0
	for i, tab := range m.registry.Tabs() {
		label := fmt.Sprintf(" %d:%s ", i+1, truncate.StringWithTail(tab.Label(), maxTabLabel, "…"))
		width := ansi.StringWidth(label)
		if col+width > m.width {
			break
		}
		style := styles.Tab
		if tab.Emphasis() == tabs.EmphasisBold {
			style = styles.SelectedTab
		}
		rendered := label
		if style != nil {
			rendered = style.Render(label)
		}
		b.WriteString(m.zones.Mark(m.tabZoneID(i), rendered))
		m.spans = append(m.spans, tabSpan{index: i, start: col, end: col + width})
		col += width
	}
	if pad := m.width - col; pad > 0 {
		fill := strings.Repeat("─", pad)
		if styles.TabStrip != nil {
			fill = styles.TabStrip.Render(fill)
		}
		b.WriteString(fill)
	}
	return b.String()
}

// renderDesk composites every visible surface onto blank rows, lowest
// priority first.
func (m *Model) renderDesk() []string {
	cols, rows := m.deskCells()
	out := make([]string, rows)
	blank := strings.Repeat(" ", cols)
	for i := range out {
		out[i] = blank
	}
	for _, surface := range m.canvas.Ordered() {
		switch s := surface.(type) {
		case *floating.Window:
			if !s.Visible() {
				continue
			}
			c := m.toCells(s.Rect())
			blit(out, m.renderWindow(s, c), c.x, c.y, cols)
		case *desk.Sticker:
			c := m.toCells(s.Rect)
			body := s.View.Render(c.w, c.h)
			if styles.Sticker != nil {
				body = styles.Sticker.Render(body)
			}
			blit(out, strings.Split(body, "\n"), c.x, c.y, cols)
		}
	}
	return out
}

// renderWindow draws the frame, title bar glyphs and content.
func (m *Model) renderWindow(w *floating.Window, c cellRect) []string {
	if c.w < 2 || c.h < 2 {
		return nil
	}
	frame := styles.FrameInactive
	if w.Priority() == floating.ActivePriority {
		frame = styles.FrameActive
	}
	paint := func(s string) string {
		if frame == nil {
			return s
		}
		return frame.Render(s)
	}

	inner := c.w - 2
	title := "(empty)"
	if v := w.Content(); v != nil {
		title = content.KindOf(v)
	}
	glyphs := ""
	if _, _, ok := glyphColumns(c.w); ok {
		glyphs = tearGlyph + closeGlyph
	}
	room := inner - ansi.StringWidth(glyphs) - 2
	titleText := ""
	if room > 0 {
		titleText = " " + ansi.Truncate(title, room, "…") + " "
	}
	fill := inner - ansi.StringWidth(titleText) - ansi.StringWidth(glyphs)
	if fill < 0 {
		fill = 0
	}
	if styles.FrameTitle != nil && titleText != "" {
		titleText = styles.FrameTitle.Render(titleText)
	}
	if styles.Glyph != nil && glyphs != "" {
		glyphs = styles.Glyph.Render(glyphs)
	}
	lines := make([]string, 0, c.h)
	lines = append(lines, paint("╭")+titleText+paint(strings.Repeat("─", fill))+glyphs+paint("╮"))

	body := make([]string, c.h-2)
	if v := w.Content(); v != nil && c.h > 2 {
		rendered := strings.Split(v.Render(inner, c.h-2), "\n")
		copy(body, rendered)
	}
	for _, line := range body {
		line = ansi.Truncate(line, inner, "")
		if pad := inner - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		lines = append(lines, paint("│")+line+paint("│"))
	}
	lines = append(lines, paint("╰"+strings.Repeat("─", inner)+"╯"))
	return lines
}

// blit overlays block onto rows at (x, y), clipping to the row bounds.
func blit(rows, block []string, x, y, cols int) {
	for i, line := range block {
		row := y + i
		if row < 0 || row >= len(rows) {
			continue
		}
		rows[row] = splice(rows[row], line, x, cols)
	}
}

func splice(row, seg string, x, cols int) string {
	width := ansi.StringWidth(seg)
	if x < 0 {
		seg = ansi.Cut(seg, -x, width)
		width += x
		x = 0
	}
	if width <= 0 || x >= cols {
		return row
	}
	if x+width > cols {
		seg = ansi.Cut(seg, 0, cols-x)
		width = cols - x
	}
	return ansi.Cut(row, 0, x) + seg + ansi.Cut(row, x+width, cols)
}

func (m *Model) renderStatus() string {
	var text string
	style := styles.Status
	switch {
	case m.filtering:
		text = m.filter.View() + fmt.Sprintf("  %d match(es)", len(m.matches))
		if len(m.matches) > 0 {
			text += ": " + m.matches[0].Label()
		}
		style = nil
	case m.errMsg != "":
		text, style = m.errMsg, styles.Error
	case m.infoMsg != "":
		text, style = m.infoMsg, styles.Info
	default:
		text = m.summary()
	}
	text = ansi.Truncate(text, m.width, "…")
	if style != nil {
		return style.Render(text)
	}
	return text
}

func (m *Model) summary() string {
	parts := []string{fmt.Sprintf("tabs %d", m.registry.Len())}
	if w := m.registry.Existing(); w != nil {
		parts = append(parts, w.Boundary().String(), w.State().String())
		if !w.Visible() {
			parts = append(parts, "torn out")
		}
	}
	if m.memory.known {
		parts = append(parts, fmt.Sprintf("mem %.0f%%", m.memory.ratio*100))
	}
	switch {
	case m.tmuxErr != nil:
		parts = append(parts, "tmux offline")
	case m.tmuxState.Ready():
		parts = append(parts, fmt.Sprintf("tmux %d client(s)", len(m.tmuxState.Clients)))
	}
	return strings.Join(parts, " · ")
}
