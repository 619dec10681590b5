package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"orcaview/internal/config"
	"orcaview/internal/tui/theme"
)

// setupValues holds the first-run form answers.
type setupValues struct {
	SourceFile string
	APIKey     string
	Theme      string
	UseCache   bool
}

// newSetupForm builds the first-run wizard shown when no config exists.
func newSetupForm(sourcePath string, recordCount int, vals *setupValues) *huh.Form {
	vals.SourceFile = sourcePath
	vals.Theme = theme.Active.Name
	vals.UseCache = true

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Bem-vindo ao orcaview").
				Description(fmt.Sprintf("%d registros carregados de %s.\nVamos configurar algumas coisas.", recordCount, sourcePath)),

			huh.NewInput().
				Title("Planilha padrão").
				Description("Arquivo aberto quando --file não for informado.").
				Value(&vals.SourceFile),

			huh.NewInput().
				Title("Chave da API Gemini (opcional)").
				Description("Habilita a aba Chat. Deixe em branco para pular.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.APIKey),

			huh.NewSelect[string]().
				Title("Tema de cores").
				Options(themeOpts...).
				Value(&vals.Theme),

			huh.NewConfirm().
				Title("Usar cache da tabela?").
				Description("Evita reler a planilha quando o arquivo não mudou.").
				Value(&vals.UseCache),
		),
	)
}

// saveSetupConfig persists the wizard answers and returns the new config.
func (a *App) saveSetupConfig() config.Config {
	cfg := a.cfg

	if v := strings.TrimSpace(a.setupVals.SourceFile); v != "" {
		cfg.General.SourceFile = v
	}
	if v := strings.TrimSpace(a.setupVals.APIKey); v != "" {
		cfg.Gemini.APIKey = v
	}
	if a.setupVals.Theme != "" {
		cfg.Appearance.Theme = a.setupVals.Theme
	}
	cfg.General.NoCache = !a.setupVals.UseCache

	// Best-effort: the session still works with the in-memory config.
	_ = config.Save(cfg)

	return cfg
}
