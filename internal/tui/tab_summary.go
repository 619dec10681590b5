package tui

import (
	"orcaview/internal/cli"
	"orcaview/internal/tui/components"
	"orcaview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderSummaryTab renders the overview: execution totals, allocation by
// year, and each action's share of the committed amount.
func (a App) renderSummaryTab(cw int) string {
	t := theme.Active

	cards := []struct{ Label, Value, Hint string }{
		{"Dotação Atualizada", cli.FormatBRL(a.totals.Allocation), ""},
		{"Empenhado", cli.FormatBRL(a.totals.Committed), ""},
		{"Liquidado", cli.FormatBRL(a.totals.Settled), ""},
	}
	cards2 := []struct{ Label, Value, Hint string }{
		{"Pago", cli.FormatBRL(a.totals.Paid), ""},
		{"Saldo de Empenho", cli.FormatBRL(a.totals.CommitmentBalance), "empenhado − liquidado"},
		{"Saldo a Empenhar", cli.FormatBRL(a.totals.BalanceToCommit), "dotação − empenhado"},
	}

	out := components.MetricCardRow(cards, cw) + "\n" +
		components.MetricCardRow(cards2, cw)

	halves := components.LayoutRow(cw, 2)
	innerLeft := components.CardInnerWidth(halves[0])
	innerRight := components.CardInnerWidth(halves[1])

	// Allocation by year
	var yearEntries []components.BarEntry
	for _, row := range a.yearRows {
		yearEntries = append(yearEntries, components.BarEntry{
			Label:   row.Keys[0],
			Display: cli.FormatBRL(row.Sums[0]),
			Value:   row.Sums[0].InexactFloat64(),
		})
	}
	yearChart := components.HBarChart(yearEntries, innerLeft, t.Blue)
	if yearChart == "" {
		yearChart = lipgloss.NewStyle().Foreground(t.TextDim).Render("sem dados")
	}

	// Committed share by action
	var actionEntries []components.BarEntry
	for _, row := range a.actionRows {
		v := row.Sums[1].InexactFloat64()
		if v <= 0 {
			continue
		}
		actionEntries = append(actionEntries, components.BarEntry{
			Label: row.Keys[0] + " " + row.Keys[1],
			Value: v,
		})
	}
	shareChart := components.ShareChart(actionEntries, 7, "Outras Ações", innerRight)
	if shareChart == "" {
		shareChart = lipgloss.NewStyle().Foreground(t.TextDim).Render("sem dados")
	}

	out += "\n" + components.CardRow([]string{
		components.ContentCard("Dotação por Ano", yearChart, halves[0]),
		components.ContentCard("Empenhado por Ação", shareChart, halves[1]),
	})

	if a.showDetail {
		out += "\n" + components.ContentCard("Execução por Ação", a.renderActionTable(components.CardInnerWidth(cw)), cw)
	} else {
		hint := lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("  t para mostrar a tabela de ações")
		out += "\n" + hint
	}

	return out
}

// renderActionTable renders the per-action execution table sorted by
// committed amount.
func (a App) renderActionTable(width int) string {
	headers := []string{"Ação", "Dotação", "Empenhado", "Liquidado", "Pago"}

	moneyW := 18
	nameW := width - 4*(moneyW+3) - 3
	if nameW < 16 {
		nameW = 16
	}

	var rows [][]string
	for _, row := range a.actionRows {
		rows = append(rows, []string{
			truncStr(row.Keys[0]+" "+row.Keys[1], nameW),
			cli.FormatBRL(row.Sums[0]),
			cli.FormatBRL(row.Sums[1]),
			cli.FormatBRL(row.Sums[2]),
			cli.FormatBRL(row.Sums[3]),
		})
	}

	return cli.RenderTable(cli.Table{Headers: headers, Rows: rows})
}
