package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"orcaview/internal/config"
	"orcaview/internal/pipeline"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Assistente de configuração inicial",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Bem-vindo ao orcaview!")
	fmt.Println()

	// 1. Source spreadsheet
	fmt.Println("  1. Planilha de origem")
	fmt.Printf("     Atual: %s\n", cfg.General.SourceFile)
	fmt.Print("     > ")
	path, _ := reader.ReadString('\n')
	path = strings.TrimSpace(path)
	if path != "" {
		cfg.General.SourceFile = path
	}
	if res, err := pipeline.Load(cfg.General.SourceFile); err != nil {
		fmt.Printf("     atenção: %v\n", err)
	} else {
		fmt.Printf("     %d registros encontrados\n", len(res.Records))
	}
	fmt.Println()

	// 2. Gemini API key
	fmt.Println("  2. Chave da API Gemini (opcional)")
	fmt.Println("     Habilita o assistente de perguntas sobre os dados.")
	if existing := config.GeminiAPIKey(cfg); existing != "" {
		fmt.Printf("     Atual: %s\n", maskAPIKey(existing))
	}
	fmt.Print("     > ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Tema de cores")
	fmt.Println("     (1) dark [padrão]")
	fmt.Println("     (2) light")
	fmt.Println("     (3) terminal")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "2":
		cfg.Appearance.Theme = "light"
	case "3":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "dark"
	}
	fmt.Println()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("gravando configuração: %w", err)
	}

	cfgPath, _ := config.Path()
	fmt.Println("  Tudo pronto!")
	fmt.Printf("  Configuração gravada em %s\n", cfgPath)
	fmt.Println("  Execute `orcaview tui` para abrir o painel.")
	return nil
}

// maskAPIKey shows only the first and last characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 6) + key[len(key)-4:]
}
