package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"orcaview/internal/chat"
	"orcaview/internal/config"
	"orcaview/internal/model"
	"orcaview/internal/tui/theme"
)

type chatState struct {
	input   textinput.Model
	history chat.History
	bridge  *chat.Bridge
	asking  bool
	scroll  int
}

func newChatState(cfg config.Config) chatState {
	ti := textinput.New()
	ti.Placeholder = "Pergunte sobre os dados filtrados..."
	ti.CharLimit = 500
	ti.Prompt = "> "

	return chatState{
		input:  ti,
		bridge: chat.NewBridge(config.GeminiAPIKey(cfg), cfg.Gemini.Model),
	}
}

// updateChatInput handles keys while the question input is focused.
func (a App) updateChatInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		question := strings.TrimSpace(a.chatTab.input.Value())
		if question == "" || a.chatTab.asking {
			return a, nil
		}
		a.chatTab.input.SetValue("")
		a.chatTab.input.Blur()
		a.chatTab.asking = true
		return a, tea.Batch(
			askCmd(a.chatTab.bridge, a.filtered, question),
			a.spinner.Tick,
		)

	case "esc":
		a.chatTab.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.chatTab.input, cmd = a.chatTab.input.Update(msg)
	return a, cmd
}

// updateChat handles keys on the chat tab while the input is not focused.
func (a App) updateChat(key string) (bool, tea.Model, tea.Cmd) {
	switch key {
	case "i", "enter":
		if a.chatTab.bridge == nil {
			return true, a, nil
		}
		a.chatTab.input.Focus()
		return true, a, a.chatTab.input.Cursor.BlinkCmd()
	case "j", "down":
		a.chatTab.scroll++
		return true, a, nil
	case "k", "up":
		if a.chatTab.scroll > 0 {
			a.chatTab.scroll--
		}
		return true, a, nil
	}
	return false, a, nil
}

// askCmd sends the question with the current filtered table in the background.
func askCmd(bridge *chat.Bridge, recs []model.Record, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := bridge.Ask(context.Background(), recs, question)
		return ChatAnswerMsg{Question: question, Answer: answer, Err: err}
	}
}

// renderChatTab renders the question input plus the session history.
func (a App) renderChatTab(cw, contentH int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if a.chatTab.bridge == nil {
		return dimStyle.Render("\n  Assistente indisponível: configure a chave da API Gemini\n" +
			"  (variável GEMINI_API_KEY ou orcaview setup).")
	}

	questionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	answerStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Width(cw - 6)
	failStyle := lipgloss.NewStyle().Foreground(t.Red).Width(cw - 6)

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(a.chatTab.input.View())
	b.WriteString("\n")

	if a.chatTab.asking {
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Render(a.spinner.View()))
		b.WriteString(dimStyle.Render(" consultando o modelo..."))
		b.WriteString("\n")
	}

	if a.chatTab.history.Len() == 0 && !a.chatTab.asking {
		b.WriteString(dimStyle.Render("\n  i para escrever uma pergunta. As respostas usam apenas os dados filtrados."))
		return b.String()
	}
	exchanges := a.chatTab.history.All()

	// Newest exchange first
	var lines []string
	for i := len(exchanges) - 1; i >= 0; i-- {
		ex := exchanges[i]
		lines = append(lines, "")
		lines = append(lines, "  "+questionStyle.Render("Você: ")+ex.Question)
		style := answerStyle
		if ex.Failed {
			style = failStyle
		}
		for _, l := range strings.Split(style.Render(ex.Answer), "\n") {
			lines = append(lines, "  "+l)
		}
	}

	start := a.chatTab.scroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	b.WriteString(strings.Join(lines[start:], "\n"))

	return b.String()
}
