package components

import (
	"fmt"
	"strings"

	"orcaview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// BarEntry is one labeled value in a horizontal chart.
type BarEntry struct {
	Label   string
	Display string // formatted value shown after the bar
	Value   float64
}

// HBarChart renders labeled horizontal bars scaled against the largest
// entry. width is the total line width available.
func HBarChart(entries []BarEntry, width int, color lipgloss.Color) string {
	if len(entries) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	labelW := 0
	displayW := 0
	for _, e := range entries {
		if e.Value > peak {
			peak = e.Value
		}
		if len(e.Label) > labelW {
			labelW = len(e.Label)
		}
		if len(e.Display) > displayW {
			displayW = len(e.Display)
		}
	}
	if peak == 0 {
		peak = 1
	}

	barW := width - labelW - displayW - 4
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(color)
	trackStyle := lipgloss.NewStyle().Foreground(t.SurfaceHover)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		filled := int(e.Value / peak * float64(barW))
		if filled < 0 {
			filled = 0
		}
		if filled > barW {
			filled = barW
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, e.Label)))
		b.WriteString("  ")
		b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(trackStyle.Render(strings.Repeat("░", barW-filled)))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%*s", displayW, e.Display)))
	}

	return b.String()
}

// ShareChart renders each entry's share of the total as a colored segment
// bar with a per-entry legend. Entries beyond maxSlices are folded into a
// single remainder slice named otherLabel.
func ShareChart(entries []BarEntry, maxSlices int, otherLabel string, width int) string {
	if len(entries) == 0 {
		return ""
	}
	t := theme.Active

	if maxSlices < 1 {
		maxSlices = 1
	}
	if len(entries) > maxSlices {
		folded := make([]BarEntry, maxSlices, maxSlices+1)
		copy(folded, entries[:maxSlices])
		rest := 0.0
		for _, e := range entries[maxSlices:] {
			rest += e.Value
		}
		folded = append(folded, BarEntry{Label: otherLabel, Value: rest})
		entries = folded
	}

	total := 0.0
	for _, e := range entries {
		total += e.Value
	}
	if total <= 0 {
		return ""
	}

	palette := []lipgloss.Color{
		t.Accent, t.Blue, t.Green, t.Yellow, t.Orange, t.Magenta, t.Cyan, t.TextDim,
	}

	barW := width - 2
	if barW < 10 {
		barW = 10
	}

	// Segment bar
	var bar strings.Builder
	used := 0
	for i, e := range entries {
		seg := int(e.Value / total * float64(barW))
		if i == len(entries)-1 {
			seg = barW - used
		}
		if seg < 0 {
			seg = 0
		}
		used += seg
		style := lipgloss.NewStyle().Foreground(palette[i%len(palette)])
		bar.WriteString(style.Render(strings.Repeat("█", seg)))
	}

	// Legend
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(bar.String())
	for i, e := range entries {
		b.WriteString("\n ")
		dot := lipgloss.NewStyle().Foreground(palette[i%len(palette)]).Render("■")
		pct := e.Value / total * 100
		b.WriteString(dot)
		b.WriteString(" ")
		b.WriteString(pctStyle.Render(fmt.Sprintf("%5.1f%%", pct)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(truncateLabel(e.Label, width-12)))
	}

	return b.String()
}

func truncateLabel(s string, maxLen int) string {
	if maxLen < 4 {
		maxLen = 4
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}
