package cmd

import (
	"fmt"
	"os"

	"orcaview/internal/cli"
	"orcaview/internal/config"
	"orcaview/internal/pipeline"
	"orcaview/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagFile       string
	flagYears      []int
	flagSources    []string
	flagActions    []string
	flagPrograms   []string
	flagCategories []string
	flagNoCache    bool
	flagQuiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "orcaview",
	Short: "Painel de execução orçamentária",
	Long:  "Carrega o extrato do Tesouro em planilha e apresenta a execução orçamentária: dotação, empenho, liquidação e pagamento.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Planilha de origem (padrão: valor configurado)")
	rootCmd.PersistentFlags().IntSliceVar(&flagYears, "year", nil, "Filtrar por ano de exercício (repetível)")
	rootCmd.PersistentFlags().StringSliceVar(&flagSources, "source", nil, "Filtrar por fonte de recursos")
	rootCmd.PersistentFlags().StringSliceVar(&flagActions, "action", nil, "Filtrar por ação")
	rootCmd.PersistentFlags().StringSliceVar(&flagPrograms, "program", nil, "Filtrar por programa")
	rootCmd.PersistentFlags().StringSliceVar(&flagCategories, "category", nil, "Filtrar por resultado primário (RP)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Ignorar o cache e reler a planilha")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suprimir mensagens de progresso")
}

// sourceFile resolves the spreadsheet path from the flag or the config.
func sourceFile() string {
	if flagFile != "" {
		return flagFile
	}
	cfg, _ := config.Load()
	return cfg.General.SourceFile
}

// loadData is the shared loading path used by all commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	path := sourceFile()

	if !flagNoCache {
		dbPath, err := pipeline.CachePath()
		if err == nil {
			cache, err := store.Open(dbPath)
			if err != nil {
				if !flagQuiet {
					fmt.Fprintln(os.Stderr, "  Cache indisponível, lendo a planilha completa")
				}
			} else {
				defer func() { _ = cache.Close() }()

				res, err := pipeline.LoadWithCache(path, cache)
				if err == nil {
					if !flagQuiet && res.FromCache {
						fmt.Fprintf(os.Stderr, "  %d registros carregados do cache\n", len(res.Records))
					}
					return res, nil
				}
				if !flagQuiet {
					fmt.Fprintln(os.Stderr, "  Erro no cache, lendo a planilha completa")
				}
			}
		}
	}

	return pipeline.Load(path)
}

// selection builds the filter selection from the command-line flags.
func selection() pipeline.Selection {
	return pipeline.Selection{
		Years:      flagYears,
		Sources:    flagSources,
		Actions:    flagActions,
		Programs:   flagPrograms,
		Categories: flagCategories,
	}
}

// printWarnings reports ingestion warnings on stderr.
func printWarnings(warnings []string) {
	if flagQuiet {
		return
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(w))
	}
}
