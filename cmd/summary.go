package cmd

import (
	"fmt"
	"strings"

	"orcaview/internal/cli"
	"orcaview/internal/model"
	"orcaview/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Resumo da execução orçamentária",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)

	if len(result.Records) == 0 {
		fmt.Println("\n  Nenhum registro encontrado na planilha.")
		return nil
	}

	filtered := pipeline.Apply(result.Records, selection())
	if len(filtered) == 0 {
		fmt.Println("\n  Nenhum registro para os filtros informados.")
		return nil
	}

	totals := pipeline.SumTotals(filtered)

	fmt.Println()
	fmt.Println(cli.RenderTitle("EXECUÇÃO ORÇAMENTÁRIA" + yearSuffix(result.Years)))
	fmt.Println()

	rows := [][]string{
		{"Dotação Atualizada", cli.FormatBRL(totals.Allocation)},
		{"Empenhado", cli.FormatBRL(totals.Committed)},
		{"Liquidado", cli.FormatBRL(totals.Settled)},
		{"Pago", cli.FormatBRL(totals.Paid)},
		{"---"},
		{"Saldo de Empenho", cli.FormatBRL(totals.CommitmentBalance)},
		{"Saldo a Empenhar", cli.FormatBRL(totals.BalanceToCommit)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Indicador", "Valor"},
		Rows:    rows,
	}))

	// Allocation by year
	yearRows := pipeline.GroupSum(filtered,
		[]string{model.FieldYear},
		[]string{model.FieldAllocation},
		pipeline.SortByKeyAsc, "")
	if len(yearRows) > 1 {
		fmt.Println()
		peak := 0.0
		for _, r := range yearRows {
			if v := r.Sums[0].InexactFloat64(); v > peak {
				peak = v
			}
		}
		for _, r := range yearRows {
			share := 0.0
			if peak > 0 {
				share = r.Sums[0].InexactFloat64() / peak
			}
			fmt.Println(cli.RenderHorizontalBar(r.Keys[0], cli.FormatBRL(r.Sums[0]), share, 40))
		}
	}

	// Top actions by committed amount
	actionRows := pipeline.GroupSum(filtered,
		[]string{model.FieldActionCode, model.FieldActionName},
		[]string{model.FieldAllocation, model.FieldCommitted, model.FieldSettled, model.FieldPaid},
		pipeline.SortBySumDesc, model.FieldCommitted)

	limit := 10
	if len(actionRows) < limit {
		limit = len(actionRows)
	}
	var tableRows [][]string
	for _, r := range actionRows[:limit] {
		name := r.Keys[0] + " " + r.Keys[1]
		if rs := []rune(name); len(rs) > 48 {
			name = string(rs[:47]) + "…"
		}
		tableRows = append(tableRows, []string{
			name,
			cli.FormatBRL(r.Sums[1]),
			cli.FormatBRL(r.Sums[2]),
			cli.FormatBRL(r.Sums[3]),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Maiores ações por empenho",
		Headers: []string{"Ação", "Empenhado", "Liquidado", "Pago"},
		Rows:    tableRows,
	}))

	return nil
}

func yearSuffix(years []int) string {
	sel := flagYears
	if len(sel) == 0 {
		sel = years
	}
	if len(sel) == 0 {
		return ""
	}
	parts := make([]string, len(sel))
	for i, y := range sel {
		parts[i] = fmt.Sprintf("%d", y)
	}
	return "  " + strings.Join(parts, "/")
}
