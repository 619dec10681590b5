package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"orcaview/internal/pipeline"
	"orcaview/internal/tui/components"
	"orcaview/internal/tui/theme"
)

// Filter columns, left to right.
const (
	filterColYears = iota
	filterColSources
	filterColActions
	filterColPrograms
	filterColCategories
	filterColCount
)

var filterColNames = [filterColCount]string{
	"Anos", "Fontes", "Ações", "Programas", "RP",
}

type filtersState struct {
	column       int
	cursors      [filterColCount]int
	detailScroll int
}

func (f *filtersState) clamp(col, n int) {
	if f.cursors[col] >= n {
		f.cursors[col] = n - 1
	}
	if f.cursors[col] < 0 {
		f.cursors[col] = 0
	}
}

func (a App) columnLen(col int) int {
	switch col {
	case filterColYears:
		return len(a.years)
	case filterColSources:
		return len(a.opts.Sources)
	case filterColActions:
		return len(a.opts.Actions)
	case filterColPrograms:
		return len(a.opts.Programs)
	case filterColCategories:
		return len(a.opts.Categories)
	}
	return 0
}

func (a App) updateFilters(key string) (bool, tea.Model, tea.Cmd) {
	f := &a.filters

	switch key {
	case "j", "down":
		if f.cursors[f.column] < a.columnLen(f.column)-1 {
			f.cursors[f.column]++
		}
		return true, a, nil
	case "k", "up":
		if f.cursors[f.column] > 0 {
			f.cursors[f.column]--
		}
		return true, a, nil
	case "h", "shift+tab":
		f.column = (f.column - 1 + filterColCount) % filterColCount
		return true, a, nil
	case "l", "tab":
		f.column = (f.column + 1) % filterColCount
		return true, a, nil
	case " ", "enter":
		a.toggleCurrent()
		a.recompute()
		return true, a, nil
	case "x":
		a.sel = pipeline.Selection{}
		a.recompute()
		return true, a, nil
	}

	return false, a, nil
}

func (a *App) toggleCurrent() {
	f := a.filters
	idx := f.cursors[f.column]

	switch f.column {
	case filterColYears:
		if idx < len(a.years) {
			a.sel.Years = toggleInt(a.sel.Years, a.years[idx])
		}
	case filterColSources:
		if idx < len(a.opts.Sources) {
			a.sel.Sources = toggleString(a.sel.Sources, a.opts.Sources[idx])
		}
	case filterColActions:
		if idx < len(a.opts.Actions) {
			a.sel.Actions = toggleString(a.sel.Actions, a.opts.Actions[idx])
		}
	case filterColPrograms:
		if idx < len(a.opts.Programs) {
			a.sel.Programs = toggleString(a.sel.Programs, a.opts.Programs[idx])
		}
	case filterColCategories:
		if idx < len(a.opts.Categories) {
			a.sel.Categories = toggleString(a.sel.Categories, a.opts.Categories[idx])
		}
	}
}

func toggleInt(set []int, v int) []int {
	for i, x := range set {
		if x == v {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

func toggleString(set []string, v string) []string {
	for i, x := range set {
		if x == v {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

// renderFiltersTab renders the five filter columns. Options shown in the
// secondary columns always reflect the selected years.
func (a App) renderFiltersTab(cw, contentH int) string {
	t := theme.Active

	widths := components.LayoutRow(cw, filterColCount)
	visible := contentH - 6
	if visible < 3 {
		visible = 3
	}

	var cols []string
	for col := 0; col < filterColCount; col++ {
		title := filterColNames[col]
		if col == a.filters.column {
			title = "▸ " + title
		}
		body := a.renderFilterColumn(col, components.CardInnerWidth(widths[col]), visible)
		cols = append(cols, components.ContentCard(title, body, widths[col]))
	}

	out := components.CardRow(cols)
	out += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).
		Render("  espaço marca · h/l troca coluna · x limpa · sem marcação = tudo")
	return out
}

func (a App) renderFilterColumn(col, width, visible int) string {
	t := theme.Active

	var options []string
	var selected map[string]bool

	switch col {
	case filterColYears:
		for _, y := range a.years {
			options = append(options, strconv.Itoa(y))
		}
		selected = map[string]bool{}
		for _, y := range a.sel.Years {
			selected[strconv.Itoa(y)] = true
		}
	case filterColSources:
		options = a.opts.Sources
		selected = stringSet(a.sel.Sources)
	case filterColActions:
		options = a.opts.Actions
		selected = stringSet(a.sel.Actions)
	case filterColPrograms:
		options = a.opts.Programs
		selected = stringSet(a.sel.Programs)
	case filterColCategories:
		options = a.opts.Categories
		selected = stringSet(a.sel.Categories)
	}

	if len(options) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("(vazio)")
	}

	cursor := a.filters.cursors[col]
	focused := col == a.filters.column

	// Window the list around the cursor
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(options) {
		end = len(options)
	}

	normalStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	markedStyle := lipgloss.NewStyle().Foreground(t.Accent)
	cursorStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover)

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteString("\n")
		}
		mark := "· "
		style := normalStyle
		if selected[options[i]] {
			mark = "✓ "
			style = markedStyle
		}
		line := mark + truncStr(options[i], width-2)
		if focused && i == cursor {
			style = cursorStyle
		}
		b.WriteString(style.Render(line))
	}

	if end < len(options) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("…"))
	}

	return b.String()
}

func stringSet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
