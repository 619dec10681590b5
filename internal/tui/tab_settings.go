package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"orcaview/internal/config"
	"orcaview/internal/tui/theme"
)

// Settings fields, top to bottom.
const (
	settingSourceFile = iota
	settingDefaultYears
	settingGeminiKey
	settingGeminiModel
	settingTheme
	settingNoCache
	settingsFieldCount
)

type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	notice  string
}

func (a App) updateSettings(key string) (bool, tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return true, a, nil
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return true, a, nil
	case "enter":
		return a.settingsActivate()
	}
	return false, a, nil
}

func (a App) settingsActivate() (bool, tea.Model, tea.Cmd) {
	switch a.settings.cursor {
	case settingTheme:
		// Cycle through themes in place
		next := 0
		for i, t := range theme.All {
			if t.Name == a.cfg.Appearance.Theme {
				next = (i + 1) % len(theme.All)
				break
			}
		}
		a.cfg.Appearance.Theme = theme.All[next].Name
		theme.SetActive(a.cfg.Appearance.Theme)
		a.settings.notice = a.persistConfig()
		return true, a, nil

	case settingNoCache:
		a.cfg.General.NoCache = !a.cfg.General.NoCache
		a.noCache = a.cfg.General.NoCache
		a.settings.notice = a.persistConfig()
		return true, a, nil
	}

	// Text fields open an inline input
	ti := textinput.New()
	ti.CharLimit = 300
	ti.Prompt = "> "
	switch a.settings.cursor {
	case settingSourceFile:
		ti.SetValue(a.cfg.General.SourceFile)
	case settingDefaultYears:
		ti.SetValue(joinInts(a.cfg.General.DefaultYears))
	case settingGeminiKey:
		ti.EchoMode = textinput.EchoPassword
	case settingGeminiModel:
		ti.SetValue(a.cfg.Gemini.Model)
	}
	ti.Focus()
	a.settings.input = ti
	a.settings.editing = true
	return true, a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(a.settings.input.Value())
		switch a.settings.cursor {
		case settingSourceFile:
			if value != "" {
				a.cfg.General.SourceFile = value
			}
		case settingDefaultYears:
			a.cfg.General.DefaultYears = parseYearList(value)
		case settingGeminiKey:
			a.cfg.Gemini.APIKey = value
			a.chatTab = newChatState(a.cfg)
		case settingGeminiModel:
			if value != "" {
				a.cfg.Gemini.Model = value
			}
		}
		a.settings.notice = a.persistConfig()
		a.settings.editing = false
		return a, nil

	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) persistConfig() string {
	if err := config.Save(a.cfg); err != nil {
		return "erro ao gravar: " + err.Error()
	}
	return "configuração gravada"
}

func parseYearList(s string) []int {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if y, err := strconv.Atoi(part); err == nil && y > 0 {
			years = append(years, y)
		}
	}
	return years
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	cursorStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	keyDisplay := "(não definida)"
	if a.cfg.Gemini.APIKey != "" {
		keyDisplay = strings.Repeat("•", 12)
	}
	cacheDisplay := "ativo"
	if a.cfg.General.NoCache {
		cacheDisplay = "desativado"
	}
	yearsDisplay := joinInts(a.cfg.General.DefaultYears)
	if yearsDisplay == "" {
		yearsDisplay = "(todos)"
	}

	fields := [settingsFieldCount][2]string{
		{"Planilha padrão", a.cfg.General.SourceFile},
		{"Anos padrão", yearsDisplay},
		{"Chave Gemini", keyDisplay},
		{"Modelo Gemini", a.cfg.Gemini.Model},
		{"Tema", a.cfg.Appearance.Theme},
		{"Cache", cacheDisplay},
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, f := range fields {
		marker := "  "
		if i == a.settings.cursor {
			marker = cursorStyle.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(f[0]))

		if a.settings.editing && i == a.settings.cursor {
			b.WriteString(a.settings.input.View())
		} else {
			b.WriteString(valueStyle.Render(f[1]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.settings.notice != "" {
		b.WriteString("  " + dimStyle.Render(a.settings.notice) + "\n")
	}
	if path, err := config.Path(); err == nil {
		b.WriteString("  " + dimStyle.Render("arquivo: "+path) + "\n")
	}

	if len(a.warnings) > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange)
		b.WriteString("\n  " + warnStyle.Render(fmt.Sprintf("Avisos da carga (%d):", len(a.warnings))) + "\n")
		for _, w := range a.warnings {
			b.WriteString("  " + dimStyle.Render("· "+truncStr(w, cw-6)) + "\n")
		}
	}

	return b.String()
}
