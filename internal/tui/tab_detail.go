package tui

import (
	"orcaview/internal/cli"
	"orcaview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderDetailTab renders the action × program breakdown with derived
// balances, skipping groups whose execution is entirely zero.
func (a App) renderDetailTab(cw, contentH int) string {
	t := theme.Active

	if len(a.detailRows) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("\n  Nenhum grupo com execução diferente de zero para os filtros atuais.")
	}

	headers := []string{"Ação / Programa", "Dotação", "Empenhado", "Liquidado", "Pago", "Sld Empenho", "A Empenhar"}

	moneyW := 16
	nameW := cw - 6*(moneyW+3) - 5
	if nameW < 20 {
		nameW = 20
	}

	// Leave room for borders, header, and the scroll hint.
	visible := contentH - 6
	if visible < 3 {
		visible = 3
	}

	start := a.filters.detailScroll
	if start > len(a.detailRows)-1 {
		start = len(a.detailRows) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(a.detailRows) {
		end = len(a.detailRows)
	}

	var rows [][]string
	for _, row := range a.detailRows[start:end] {
		label := row.Keys[0] + " " + row.Keys[1] + " · " + row.Keys[2] + " " + row.Keys[3]
		rows = append(rows, []string{
			truncStr(label, nameW),
			cli.FormatBRL(row.Sums[0]),
			cli.FormatBRL(row.Sums[1]),
			cli.FormatBRL(row.Sums[2]),
			cli.FormatBRL(row.Sums[3]),
			cli.FormatBRL(row.Sums[4]),
			cli.FormatBRL(row.Sums[5]),
		})
	}

	out := cli.RenderTable(cli.Table{Headers: headers, Rows: rows})

	hint := lipgloss.NewStyle().Foreground(t.TextDim)
	if len(a.detailRows) > visible {
		out += hint.Render("  j/k para rolar · " +
			cli.FormatCount(start+1) + "–" + cli.FormatCount(end) + " de " + cli.FormatCount(len(a.detailRows)))
	}

	return out
}
