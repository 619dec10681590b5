// Package chat bridges the loaded budget table to the Gemini API so
// questions can be answered from the data on screen.
package chat

import (
	"strings"

	"orcaview/internal/model"
)

// TruncationMarker closes a serialized table that did not fit whole.
const TruncationMarker = "[dados truncados]"

// DefaultMaxChars bounds the serialized table shipped with each question.
const DefaultMaxChars = 120_000

var serializeHeader = strings.Join([]string{
	"ano", "acao", "nome_acao", "programa", "nome_programa",
	"gnd", "rp", "nome_rp", "fonte", "ptres",
	"dotacao", "empenhado", "liquidado", "pago",
	"saldo_empenho", "saldo_a_empenhar",
}, "|")

// SerializeTable renders records as a compact pipe-separated table bounded
// to maxChars. Truncation only ever happens at a row boundary, and a
// truncated table ends with TruncationMarker so the model knows it is
// looking at a partial extract.
func SerializeTable(recs []model.Record, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var b strings.Builder
	b.WriteString(serializeHeader)
	b.WriteByte('\n')

	reserve := len(TruncationMarker) + 1
	for i, r := range recs {
		line := serializeRecord(r)
		if b.Len()+len(line)+1+reserve > maxChars {
			if i < len(recs) {
				b.WriteString(TruncationMarker)
				b.WriteByte('\n')
			}
			return b.String()
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

func serializeRecord(r model.Record) string {
	fields := []string{
		r.Categorical(model.FieldYear),
		r.ActionCode, sanitize(r.ActionName),
		r.ProgramCode, sanitize(r.ProgramName),
		r.ExpenseGroupCode,
		r.ResultCategoryCode, sanitize(r.ResultCategoryName),
		r.FundingSourceCode, r.WorkProgramCode,
		r.Allocation.StringFixed(2),
		r.Committed.StringFixed(2),
		r.Settled.StringFixed(2),
		r.Paid.StringFixed(2),
		r.CommitmentBalance.StringFixed(2),
		r.BalanceToCommit.StringFixed(2),
	}
	return strings.Join(fields, "|")
}

// sanitize keeps free-text labels from breaking the pipe framing.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
