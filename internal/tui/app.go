// Package tui provides the interactive Bubble Tea dashboard.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"orcaview/internal/chat"
	"orcaview/internal/config"
	"orcaview/internal/model"
	"orcaview/internal/pipeline"
	"orcaview/internal/store"
	"orcaview/internal/tui/components"
	"orcaview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the spreadsheet pipeline finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// ChatAnswerMsg is sent when a Gemini question completes.
type ChatAnswerMsg struct {
	Question string
	Answer   string
	Err      error
}

// Tab indices, matching components.Tabs.
const (
	tabSummary = iota
	tabDetail
	tabFilters
	tabChat
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	// Data
	records   []model.Record
	years     []int
	warnings  []string
	loaded    bool
	loadErr   error
	loadTime  time.Duration
	fromCache bool

	// Pre-computed for current selection
	sel        pipeline.Selection
	opts       pipeline.FilterOptions
	filtered   []model.Record
	totals     model.Totals
	actionRows []model.GroupRow
	yearRows   []model.GroupRow
	detailRows []model.GroupRow

	// UI state
	width      int
	height     int
	activeTab  int
	showHelp   bool
	showDetail bool // action table on the summary tab

	// Per-tab state
	filters  filtersState
	chatTab  chatState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	// Loading
	spinner spinner.Model

	// Pipeline inputs
	cfg        config.Config
	sourcePath string
	noCache    bool
}

const (
	minTerminalWidth = 72
	maxContentWidth  = 170
	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the
// TUI can always start even when the file is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.Default()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(sourcePath string, defaultYears []int, noCache bool) App {
	cfg := loadConfigOrDefault()
	theme.SetActive(cfg.Appearance.Theme)

	configPath, _ := config.Path()
	needSetup := configPath != ""
	if _, err := os.Stat(configPath); err == nil {
		needSetup = false
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	sel := pipeline.Selection{}
	if len(defaultYears) > 0 {
		sel.Years = defaultYears
	} else if len(cfg.General.DefaultYears) > 0 {
		sel.Years = cfg.General.DefaultYears
	}

	return App{
		cfg:        cfg,
		sourcePath: sourcePath,
		noCache:    noCache || cfg.General.NoCache,
		sel:        sel,
		needSetup:  needSetup,
		spinner:    sp,
		chatTab:    newChatState(cfg),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.sourcePath, a.noCache),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	a.opts = pipeline.Options(a.records, a.sel.Years)
	a.sel = pipeline.Prune(a.sel, a.years, a.opts)

	a.filtered = pipeline.Apply(a.records, a.sel)
	a.totals = pipeline.SumTotals(a.filtered)

	a.actionRows = pipeline.GroupSum(a.filtered,
		[]string{model.FieldActionCode, model.FieldActionName},
		[]string{model.FieldAllocation, model.FieldCommitted, model.FieldSettled, model.FieldPaid},
		pipeline.SortBySumDesc, model.FieldCommitted)

	a.yearRows = pipeline.GroupSum(a.filtered,
		[]string{model.FieldYear},
		[]string{model.FieldAllocation},
		pipeline.SortByKeyAsc, "")

	a.detailRows = pipeline.GroupSumNonZero(a.filtered,
		[]string{model.FieldActionCode, model.FieldActionName, model.FieldProgramCode, model.FieldProgramName},
		[]string{model.FieldAllocation, model.FieldCommitted, model.FieldSettled, model.FieldPaid,
			model.FieldCommitmentBalance, model.FieldBalanceToCommit},
		pipeline.SortBySumDesc, model.FieldCommitted)

	a.filters.clamp(a.filters.column, a.columnLen(a.filters.column))
	if a.detailCursorMax() >= 0 && a.filters.detailScroll > a.detailCursorMax() {
		a.filters.detailScroll = 0
	}
}

func (a App) detailCursorMax() int {
	return len(a.detailRows) - 1
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Chat input intercepts keys while typing
		if a.activeTab == tabChat && a.chatTab.input.Focused() {
			return a.updateChatInput(msg)
		}

		// Settings editing intercepts keys
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		// Per-tab keybindings
		switch a.activeTab {
		case tabDetail:
			switch key {
			case "j", "down":
				if a.filters.detailScroll < len(a.detailRows)-1 {
					a.filters.detailScroll++
				}
				return a, nil
			case "k", "up":
				if a.filters.detailScroll > 0 {
					a.filters.detailScroll--
				}
				return a, nil
			case "g":
				a.filters.detailScroll = 0
				return a, nil
			}
		case tabFilters:
			if handled, m, cmd := a.updateFilters(key); handled {
				return m, cmd
			}
		case tabChat:
			if handled, m, cmd := a.updateChat(key); handled {
				return m, cmd
			}
		case tabSettings:
			if handled, m, cmd := a.updateSettings(key); handled {
				return m, cmd
			}
		}

		if key == "q" {
			return a, tea.Quit
		}

		// Detail table toggle on the summary tab
		if key == "t" && a.activeTab == tabSummary {
			a.showDetail = !a.showDetail
			return a, nil
		}

		// Tab navigation
		switch key {
		case "r":
			a.activeTab = tabSummary
		case "d":
			a.activeTab = tabDetail
		case "f":
			a.activeTab = tabFilters
		case "c":
			a.activeTab = tabChat
		case "a":
			a.activeTab = tabSettings
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		if msg.Result != nil {
			a.records = msg.Result.Records
			a.years = msg.Result.Years
			a.warnings = msg.Result.Warnings
			a.fromCache = msg.Result.FromCache
			a.recompute()
		}

		// Activate first-run setup after data loads
		if a.needSetup {
			a.setupForm = newSetupForm(a.sourcePath, len(a.records), &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}

		return a, nil

	case ChatAnswerMsg:
		a.chatTab.asking = false
		ex := chat.Exchange{Question: msg.Question, AskedAt: time.Now()}
		if msg.Err != nil {
			ex.Answer = msg.Err.Error()
			ex.Failed = true
		} else {
			ex.Answer = msg.Answer
		}
		a.chatTab.history.Add(ex)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.chatTab.asking {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		a.cfg = a.saveSetupConfig()
		theme.SetActive(a.cfg.Appearance.Theme)
		a.chatTab = newChatState(a.cfg)
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.loadErr != nil && len(a.records) == 0 {
		return a.viewLoadError()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal muito estreito (%d colunas)\n\n  São necessárias pelo menos %d colunas.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	var b strings.Builder
	art, hasAsset := LogoArt()
	if hasAsset {
		b.WriteString(logoStyle.Render(art))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Execução Orçamentária"))
	} else {
		b.WriteString(logoStyle.Render(LogoLine()))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Lendo planilha..."))
	if !hasAsset {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("aviso: assets/logo.txt não encontrado"))
	}

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Não foi possível carregar os dados"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("q para sair"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Atalhos de teclado"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navegação"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"r d f c a", "Ir para a aba"},
		{"← →", "Aba anterior / seguinte"},
		{"j k", "Navegar em listas"},
		{"h l", "Trocar coluna de filtro"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Ações"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"espaço", "Marcar / desmarcar filtro"},
		{"x", "Limpar todos os filtros"},
		{"t", "Mostrar / ocultar tabela de ações"},
		{"i", "Escrever pergunta (aba Chat)"},
		{"?", "Mostrar / ocultar ajuda"},
		{"q", "Sair"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Pressione qualquer tecla para fechar"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterPill(w)

	statusBar := a.renderStatusBar(w)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabSummary:
		content = a.renderSummaryTab(cw)
	case tabDetail:
		content = a.renderDetailTab(cw, contentH)
	case tabFilters:
		content = a.renderFiltersTab(cw, contentH)
	case tabChat:
		content = a.renderChatTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// renderFilterPill summarizes the active selection under the tab bar.
func (a App) renderFilterPill(w int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var parts []string
	if len(a.sel.Years) > 0 {
		parts = append(parts, accentStyle.Render(joinInts(a.sel.Years)))
	} else {
		parts = append(parts, dimStyle.Render("todos os anos"))
	}
	if n := len(a.sel.Sources); n > 0 {
		parts = append(parts, accentStyle.Render(fmt.Sprintf("%d fontes", n)))
	}
	if n := len(a.sel.Actions); n > 0 {
		parts = append(parts, accentStyle.Render(fmt.Sprintf("%d ações", n)))
	}
	if n := len(a.sel.Programs); n > 0 {
		parts = append(parts, accentStyle.Render(fmt.Sprintf("%d programas", n)))
	}
	if n := len(a.sel.Categories); n > 0 {
		parts = append(parts, accentStyle.Render(fmt.Sprintf("%d RP", n)))
	}

	return " " + strings.Join(parts, dimStyle.Render(" │ "))
}

func (a App) renderStatusBar(w int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange)

	left := fmt.Sprintf(" %d registros · %d filtrados · %.1fs", len(a.records), len(a.filtered), a.loadTime.Seconds())
	if a.fromCache {
		left += " · cache"
	}

	right := ""
	if len(a.warnings) > 0 {
		right = warnStyle.Render(fmt.Sprintf("%d avisos ", len(a.warnings)))
	}

	pad := w - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}

	return dimStyle.Render(left) + strings.Repeat(" ", pad) + right
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd runs the spreadsheet pipeline in a background goroutine.
func loadDataCmd(sourcePath string, noCache bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		if !noCache {
			if dbPath, err := pipeline.CachePath(); err == nil {
				if cache, err := store.Open(dbPath); err == nil {
					res, loadErr := pipeline.LoadWithCache(sourcePath, cache)
					_ = cache.Close()
					if loadErr == nil {
						return DataLoadedMsg{Result: res, LoadTime: time.Since(start)}
					}
				}
			}
		}

		res, err := pipeline.Load(sourcePath)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		return DataLoadedMsg{Result: res, LoadTime: time.Since(start)}
	}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
