// Package cmd implements the orcaview CLI commands.
package cmd

import (
	"fmt"
	"os"

	"orcaview/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Mostrar a configuração atual",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path, _ := config.Path()
	fmt.Printf("  Arquivo: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Estado: carregado")
	} else {
		fmt.Println("  Estado: usando padrões (arquivo inexistente)")
	}
	fmt.Println()

	fmt.Println("  [general]")
	fmt.Printf("    Planilha padrão: %s\n", cfg.General.SourceFile)
	if len(cfg.General.DefaultYears) > 0 {
		fmt.Printf("    Anos padrão:     %v\n", cfg.General.DefaultYears)
	} else {
		fmt.Println("    Anos padrão:     todos")
	}
	fmt.Printf("    Cache:           %v\n", !cfg.General.NoCache)
	fmt.Println()

	fmt.Println("  [gemini]")
	if key := config.GeminiAPIKey(cfg); key != "" {
		fmt.Printf("    Chave:  %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    Chave:  não configurada")
	}
	fmt.Printf("    Modelo: %s\n", cfg.Gemini.Model)
	fmt.Println()

	fmt.Println("  [appearance]")
	fmt.Printf("    Tema: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Execute `orcaview setup` para reconfigurar.")
	return nil
}
