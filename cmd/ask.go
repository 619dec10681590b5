package cmd

import (
	"fmt"
	"strings"

	"orcaview/internal/chat"
	"orcaview/internal/config"
	"orcaview/internal/pipeline"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [pergunta]",
	Short: "Pergunta única sobre os dados filtrados",
	Long:  "Envia uma pergunta ao Gemini junto com a tabela filtrada e imprime a resposta.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	bridge := chat.NewBridge(config.GeminiAPIKey(cfg), cfg.Gemini.Model)
	if bridge == nil {
		return chat.ErrNoAPIKey
	}

	result, err := loadData()
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)

	filtered := pipeline.Apply(result.Records, selection())
	if len(filtered) == 0 {
		fmt.Println("\n  Nenhum registro para os filtros informados.")
		return nil
	}

	question := strings.Join(args, " ")
	answer, err := bridge.Ask(cmd.Context(), filtered, question)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("  " + strings.ReplaceAll(answer, "\n", "\n  "))
	return nil
}
