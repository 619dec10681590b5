package chat

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"orcaview/internal/model"
)

func chatRec(year int, action, name string) model.Record {
	r := model.Record{
		Year:       year,
		ActionCode: action,
		ActionName: name,
		Allocation: decimal.RequireFromString("100.00"),
		Committed:  decimal.RequireFromString("60.00"),
	}
	r.Derive()
	return r
}

func TestSerializeTable_Complete(t *testing.T) {
	out := SerializeTable([]model.Record{
		chatRec(2024, "A1", "Obra"),
		chatRec(2025, "A2", "Custeio"),
	}, 0)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ano|acao|") {
		t.Errorf("header = %q, want pipe-separated column names", lines[0])
	}
	if !strings.Contains(lines[1], "2024|A1|Obra|") {
		t.Errorf("row = %q, want year and action first", lines[1])
	}
	if strings.Contains(out, TruncationMarker) {
		t.Error("complete table must not carry the truncation marker")
	}
	// Derived balances ride along: saldo_empenho 60.00, saldo_a_empenhar 40.00
	if !strings.HasSuffix(lines[1], "|60.00|40.00") {
		t.Errorf("row = %q, want derived balances at the tail", lines[1])
	}
}

func TestSerializeTable_TruncatesAtRowBoundary(t *testing.T) {
	recs := make([]model.Record, 50)
	for i := range recs {
		recs[i] = chatRec(2024, "A1", "Nome razoavelmente longo da ação")
	}

	maxChars := 600
	out := SerializeTable(recs, maxChars)

	if len(out) > maxChars {
		t.Errorf("len = %d, want <= %d", len(out), maxChars)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), TruncationMarker) {
		t.Errorf("output must end with %q when rows were dropped", TruncationMarker)
	}

	// Every line before the marker is a whole row
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	wantFields := strings.Count(lines[0], "|")
	for _, l := range lines[1 : len(lines)-1] {
		if strings.Count(l, "|") != wantFields {
			t.Errorf("line %q has %d separators, want %d (no partial rows)", l, strings.Count(l, "|"), wantFields)
		}
	}
}

func TestSerializeTable_SanitizesLabels(t *testing.T) {
	r := chatRec(2024, "A1", "Nome|com pipe\ne quebra")
	out := SerializeTable([]model.Record{r}, 0)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if strings.Count(lines[1], "|") != strings.Count(lines[0], "|") {
		t.Errorf("row %q breaks the pipe framing", lines[1])
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]model.Record{chatRec(2024, "A1", "Obra")}, "  Qual o total empenhado?  ", 0)

	if !strings.Contains(prompt, "Tabela:") {
		t.Error("prompt must carry the serialized table section")
	}
	if !strings.Contains(prompt, "Pergunta: Qual o total empenhado?") {
		t.Error("prompt must end with the trimmed question")
	}
	if !strings.Contains(prompt, "APENAS os dados da tabela") {
		t.Error("prompt must constrain answers to the supplied data")
	}
}

func TestHistory(t *testing.T) {
	var h History
	if h.Len() != 0 {
		t.Errorf("Len = %d on empty history", h.Len())
	}
	h.Add(Exchange{Question: "q1", Answer: "a1"})
	h.Add(Exchange{Question: "q2", Failed: true})
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
	all := h.All()
	if all[0].Question != "q1" || all[1].Question != "q2" {
		t.Errorf("All() out of ask order: %+v", all)
	}
	if !all[1].Failed {
		t.Error("failed exchange must keep its flag")
	}
}

func TestNewBridge_EmptyKey(t *testing.T) {
	if b := NewBridge("", "gemini-2.5-flash"); b != nil {
		t.Error("NewBridge(\"\") should return nil")
	}
	if b := NewBridge("   ", ""); b != nil {
		t.Error("NewBridge(blank) should return nil")
	}
	if b := NewBridge("chave", ""); b == nil {
		t.Error("NewBridge with a key should not return nil")
	}
}
