package content

import (
	"fmt"
	"math"
	"strings"
)

// Gauge shows a ratio as a horizontal bar.
type Gauge struct {
	Label string
	ratio float64
}

func NewGauge(label string) *Gauge {
	return &Gauge{Label: label}
}

// Set stores ratio clamped to [0, 1]; NaN reads as zero.
func (g *Gauge) Set(ratio float64) {
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	g.ratio = ratio
}

func (g *Gauge) Ratio() float64 {
	return g.ratio
}

func (g *Gauge) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	pct := fmt.Sprintf(" %3.0f%%", g.ratio*100)
	label := g.Label
	if label != "" {
		label += " "
	}
	barWidth := width - len([]rune(label)) - len(pct)
	bar := ""
	if barWidth > 0 {
		filled := int(math.Round(g.ratio * float64(barWidth)))
		bar = strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	}
	return fitLines([]string{label + bar + pct}, width, height)
}
