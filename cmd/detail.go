package cmd

import (
	"fmt"

	"orcaview/internal/cli"
	"orcaview/internal/model"
	"orcaview/internal/pipeline"

	"github.com/spf13/cobra"
)

var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "Detalhamento por ação e programa",
	Long:  "Agrupa a execução por ação e programa, omitindo grupos sem movimentação.",
	RunE:  runDetail,
}

func init() {
	rootCmd.AddCommand(detailCmd)
}

func runDetail(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)

	filtered := pipeline.Apply(result.Records, selection())

	rows := pipeline.GroupSumNonZero(filtered,
		[]string{model.FieldActionCode, model.FieldActionName, model.FieldProgramCode, model.FieldProgramName},
		[]string{model.FieldAllocation, model.FieldCommitted, model.FieldSettled, model.FieldPaid,
			model.FieldCommitmentBalance, model.FieldBalanceToCommit},
		pipeline.SortBySumDesc, model.FieldCommitted)

	if len(rows) == 0 {
		fmt.Println("\n  Nenhum grupo com execução diferente de zero.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DETALHAMENTO POR AÇÃO E PROGRAMA"))
	fmt.Println()

	var tableRows [][]string
	for _, r := range rows {
		label := r.Keys[0] + " " + r.Keys[1] + " · " + r.Keys[2] + " " + r.Keys[3]
		if rs := []rune(label); len(rs) > 56 {
			label = string(rs[:55]) + "…"
		}
		tableRows = append(tableRows, []string{
			label,
			cli.FormatBRL(r.Sums[0]),
			cli.FormatBRL(r.Sums[1]),
			cli.FormatBRL(r.Sums[2]),
			cli.FormatBRL(r.Sums[3]),
			cli.FormatBRL(r.Sums[4]),
			cli.FormatBRL(r.Sums[5]),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Ação / Programa", "Dotação", "Empenhado", "Liquidado", "Pago", "Sld Empenho", "A Empenhar"},
		Rows:    tableRows,
	}))

	return nil
}
