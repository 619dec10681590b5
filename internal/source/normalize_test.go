package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// extractHeader is the header row of a well-formed extract.
func extractHeader() []string {
	return []string{
		"Ano", "Ação", "Nome da Ação",
		"Plano Orçamentário", "Nome do Plano Orçamentário",
		"GND", "RP", "Nome RP", "Fonte", "PTRES",
		"Dotação (Lei + Créditos)", "Empenhado", "Liquidado", "Pago",
	}
}

// row builds a data row with the given year, codes, and money cells.
func row(year, action, program string, money ...string) []string {
	r := []string{
		year, action, "Nome " + action,
		program, "Nome " + program,
		"3", "2", "Primário", "1000", "123456",
	}
	return append(r, money...)
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNormalize_BRCurrency(t *testing.T) {
	rows := [][]string{
		extractHeader(),
		row("2024", "20RK", "0001", "1.234.567,89", "1.000,50", "600,00", "100,25"),
	}

	res, err := Normalize(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(res.Records))
	}

	rec := res.Records[0]
	if !rec.Allocation.Equal(mustDec(t, "1234567.89")) {
		t.Errorf("Allocation = %s, want 1234567.89", rec.Allocation)
	}
	if !rec.Committed.Equal(mustDec(t, "1000.50")) {
		t.Errorf("Committed = %s, want 1000.50", rec.Committed)
	}
	if !rec.CommitmentBalance.Equal(mustDec(t, "400.50")) {
		t.Errorf("CommitmentBalance = %s, want 400.50 (empenhado - liquidado)", rec.CommitmentBalance)
	}
	if !rec.BalanceToCommit.Equal(mustDec(t, "1233567.39")) {
		t.Errorf("BalanceToCommit = %s, want 1233567.39 (dotação - empenhado)", rec.BalanceToCommit)
	}
}

func TestNormalize_NativeNumbers(t *testing.T) {
	// No comma anywhere: the column came out of Excel as plain numbers.
	rows := [][]string{
		extractHeader(),
		row("2024.0", "20RK", "0001", "1234.56", "1000", "600", "100"),
	}

	res, err := Normalize(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := res.Records[0]
	if rec.Year != 2024 {
		t.Errorf("Year = %d, want 2024 (float-formatted year cell)", rec.Year)
	}
	if !rec.Allocation.Equal(mustDec(t, "1234.56")) {
		t.Errorf("Allocation = %s, want 1234.56", rec.Allocation)
	}
}

func TestNormalize_CodesStayText(t *testing.T) {
	rows := [][]string{
		extractHeader(),
		row("2024", "02", "0050", "10,00", "0,00", "0,00", "0,00"),
	}

	res, err := Normalize(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := res.Records[0]
	if rec.ActionCode != "02" {
		t.Errorf("ActionCode = %q, want \"02\" (leading zero preserved)", rec.ActionCode)
	}
	if rec.ProgramCode != "0050" {
		t.Errorf("ProgramCode = %q, want \"0050\"", rec.ProgramCode)
	}
}

func TestNormalize_YearHandling(t *testing.T) {
	rows := [][]string{
		extractHeader(),
		row("2025", "A1", "P1", "1,00", "0,00", "0,00", "0,00"),
		row("2024", "A2", "P2", "1,00", "0,00", "0,00", "0,00"),
		row("xx", "A3", "P3", "1,00", "0,00", "0,00", "0,00"),
		row("0", "A4", "P4", "1,00", "0,00", "0,00", "0,00"),
	}

	res, err := Normalize(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Records) != 4 {
		t.Fatalf("len(Records) = %d, want 4 (bad years keep their rows)", len(res.Records))
	}
	if len(res.Years) != 2 || res.Years[0] != 2024 || res.Years[1] != 2025 {
		t.Errorf("Years = %v, want [2024 2025] (sorted, year 0 excluded)", res.Years)
	}

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "ano inválido") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an invalid-year warning, got %v", res.Warnings)
	}
}

func TestNormalize_LabelsTrimmed(t *testing.T) {
	r := row("2024", "A1", "P1", "1,00", "0,00", "0,00", "0,00")
	r[2] = "  Nome com espaços  "

	res, err := Normalize([][]string{extractHeader(), r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Records[0].ActionName != "Nome com espaços" {
		t.Errorf("ActionName = %q, want trimmed", res.Records[0].ActionName)
	}
}

func TestNormalize_HeaderMismatch(t *testing.T) {
	header := extractHeader()
	header[colAllocation] = "Restos a Pagar" // wrong column in the money block

	_, err := Normalize([][]string{header, row("2024", "A1", "P1", "1,00", "0,00", "0,00", "0,00")})

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
}

func TestNormalize_MissingYearHeader(t *testing.T) {
	header := extractHeader()
	header[colYear] = "Fonte"

	_, err := Normalize([][]string{header})
	if !errors.Is(err, ErrMissingYearColumn) {
		t.Fatalf("err = %v, want ErrMissingYearColumn", err)
	}
}

func TestNormalize_EmptySheet(t *testing.T) {
	var se *SchemaError
	if _, err := Normalize(nil); !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
}

func TestNormalize_AbsentMoneyColumns(t *testing.T) {
	// Only the ten categorical columns: monetary block missing entirely.
	header := extractHeader()[:firstMoneyCol]
	dataRow := row("2024", "A1", "P1")

	res, err := Normalize([][]string{header, dataRow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := res.Records[0]
	if !rec.Allocation.IsZero() || !rec.Paid.IsZero() {
		t.Errorf("money fields = %s/%s, want zero-filled", rec.Allocation, rec.Paid)
	}

	zeroFill := 0
	for _, w := range res.Warnings {
		if strings.Contains(w, "preenchida com zero") {
			zeroFill++
		}
	}
	if zeroFill != 4 {
		t.Errorf("zero-fill warnings = %d, want 4 (one per absent column)", zeroFill)
	}
}

func TestNormalize_TooFewColumns(t *testing.T) {
	_, err := Normalize([][]string{{"Ano", "Ação", "Nome"}})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError for a 3-column sheet", err)
	}
}

func TestNormalize_BadMoneyWarning(t *testing.T) {
	rows := [][]string{
		extractHeader(),
		row("2024", "A1", "P1", "n/d", "1,00", "0,00", "0,00"),
		row("2024", "A2", "P2", "texto", "2,00", "0,00", "0,00"),
	}

	res, err := Normalize(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Records[0].Allocation.IsZero() {
		t.Errorf("Allocation = %s, want zero for unparseable cell", res.Records[0].Allocation)
	}

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "Dotação") && strings.Contains(w, "2 valores") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 2-value warning for the allocation column, got %v", res.Warnings)
	}
}

func TestNormalize_EmptyRowsDropped(t *testing.T) {
	rows := [][]string{
		extractHeader(),
		row("2024", "A1", "P1", "1,00", "0,00", "0,00", "0,00"),
		{"", "", ""},
		{},
	}

	res, err := Normalize(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 {
		t.Errorf("len(Records) = %d, want 1 (blank rows dropped)", len(res.Records))
	}
}

func TestNormalize_TwoYearTotals(t *testing.T) {
	rows := [][]string{
		extractHeader(),
		row("2024", "A1", "P1", "500,00", "300,00", "200,00", "150,00"),
		row("2025", "A1", "P1", "700,00", "400,00", "100,00", "50,00"),
	}

	res, err := Normalize(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	committed := decimal.Zero
	for _, r := range res.Records {
		committed = committed.Add(r.Committed)
	}
	if !committed.Equal(mustDec(t, "700.00")) {
		t.Errorf("sum Committed = %s, want 700.00", committed)
	}
}
