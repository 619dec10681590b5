package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_AccentedColumnsStayAligned(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Ação", "Dotação"},
		Rows: [][]string{
			{"20RK Implantação de Órgão", "R$ 1.234,56"},
			{"00X1 Obra", "R$ 22,00"},
			{"---"},
			{"Total", "R$ 1.256,56"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 5 {
		t.Fatalf("lines = %d, want full bordered table", len(lines))
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if got := lipgloss.Width(l); got != want {
			t.Errorf("line %d width = %d, want %d (%q)", i, got, want, l)
		}
	}
}

func TestRenderTable_RightAlignsMoneyColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Empenhado", "R$ 1.234,56"},
			{"Pago", "R$ 5,00"},
		},
	})

	if !strings.Contains(out, "    R$ 5,00 ") {
		t.Errorf("short money cell should be padded on the left:\n%s", out)
	}
}

func TestRenderWarning(t *testing.T) {
	out := RenderWarning("coluna de moeda ausente")
	if !strings.Contains(out, "aviso: coluna de moeda ausente") {
		t.Errorf("RenderWarning = %q, want prefixed message", out)
	}
}
