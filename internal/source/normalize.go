package source

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"orcaview/internal/model"
)

// Fixed column positions of the Tesouro extract. Position, not header text,
// determines meaning; the header row is validated and then discarded.
const (
	colYear = iota
	colActionCode
	colActionName
	colProgramCode
	colProgramName
	colExpenseGroup
	colResultCategoryCode
	colResultCategoryName
	colFundingSource
	colWorkProgram
	colAllocation
	colCommitted
	colSettled
	colPaid

	numColumns
)

// Monetary columns start here; a sheet may legitimately lack trailing
// monetary columns, which degrades to zero-fill instead of failing.
const firstMoneyCol = colAllocation

// headerKeywords holds, per column position, the substrings (lowercased,
// accent-folded) at least one of which must appear in that header cell.
// A present header that matches none of them means the column order changed
// and data would silently mismap, so ingestion fails fast.
var headerKeywords = [numColumns][]string{
	colYear:               {"ano"},
	colActionCode:         {"acao"},
	colActionName:         {"acao"},
	colProgramCode:        {"plano"},
	colProgramName:        {"plano"},
	colExpenseGroup:       {"gnd", "grupo"},
	colResultCategoryCode: {"resultado", "rp"},
	colResultCategoryName: {"resultado", "rp"},
	colFundingSource:      {"fonte"},
	colWorkProgram:        {"ptres", "programa de trabalho"},
	colAllocation:         {"dotacao", "lei"},
	colCommitted:          {"empenhad"},
	colSettled:            {"liquidad"},
	colPaid:               {"pago"},
}

// moneyColumnLabel maps monetary column positions to user-facing names for warnings.
var moneyColumnLabel = map[int]string{
	colAllocation: "Dotação (Lei + Créditos)",
	colCommitted:  "Empenhado",
	colSettled:    "Liquidado",
	colPaid:       "Pago",
}

// Result holds the normalized table together with the sorted distinct
// non-zero years and the non-fatal warnings raised during ingestion.
type Result struct {
	Records  []model.Record
	Years    []int
	Warnings []string
}

// Normalize turns raw sheet rows (header first) into the normalized table.
// It is a pure function of its input.
//
// Failure taxonomy: a missing or reordered header is fatal (*SchemaError,
// or ErrMissingYearColumn for the year column). Everything else degrades:
// absent trailing monetary columns and unparseable values become zero with
// a warning, and processing continues.
func Normalize(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Reason: "planilha vazia"}
	}

	header := rows[0]
	if len(header) < colYear+1 {
		return nil, ErrMissingYearColumn
	}
	if len(header) < firstMoneyCol {
		return nil, &SchemaError{
			Reason: fmt.Sprintf("%d colunas encontradas, esperadas ao menos %d", len(header), firstMoneyCol),
		}
	}

	for i := 0; i < numColumns && i < len(header); i++ {
		if matchesHeader(header[i], headerKeywords[i]) {
			continue
		}
		if i == colYear {
			return nil, ErrMissingYearColumn
		}
		return nil, &SchemaError{
			Reason: fmt.Sprintf("coluna %d tem cabeçalho %q, incompatível com o layout esperado", i+1, header[i]),
		}
	}

	res := &Result{}

	for i := firstMoneyCol; i < numColumns; i++ {
		if i >= len(header) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("coluna de moeda %q ausente; preenchida com zero", moneyColumnLabel[i]))
		}
	}

	data := dropEmptyRows(rows[1:])

	// Column-wise decision, mirroring how the extract is produced: either the
	// whole column came out of Excel as native numbers ("1234.56") or as
	// BR-formatted text ("1.234,56"). A comma anywhere marks the BR case.
	brFormatted := [numColumns]bool{}
	for i := firstMoneyCol; i < numColumns && i < len(header); i++ {
		for _, row := range data {
			if i < len(row) && strings.Contains(row[i], ",") {
				brFormatted[i] = true
				break
			}
		}
	}

	badMoney := map[int]int{}
	badYears := 0
	years := map[int]struct{}{}

	for _, row := range data {
		rec := model.Record{
			ActionCode:         cell(row, colActionCode),
			ActionName:         strings.TrimSpace(cell(row, colActionName)),
			ProgramCode:        cell(row, colProgramCode),
			ProgramName:        strings.TrimSpace(cell(row, colProgramName)),
			ExpenseGroupCode:   cell(row, colExpenseGroup),
			ResultCategoryCode: cell(row, colResultCategoryCode),
			ResultCategoryName: strings.TrimSpace(cell(row, colResultCategoryName)),
			FundingSourceCode:  cell(row, colFundingSource),
			WorkProgramCode:    cell(row, colWorkProgram),
		}

		year, ok := parseYear(cell(row, colYear))
		if !ok {
			badYears++
		}
		rec.Year = year
		if year != 0 {
			years[year] = struct{}{}
		}

		for i := firstMoneyCol; i < numColumns; i++ {
			var v decimal.Decimal
			if i < len(header) {
				raw := cell(row, i)
				parsed, ok := parseMoney(raw, brFormatted[i])
				if !ok && strings.TrimSpace(raw) != "" {
					badMoney[i]++
				}
				v = parsed
			}
			switch i {
			case colAllocation:
				rec.Allocation = v
			case colCommitted:
				rec.Committed = v
			case colSettled:
				rec.Settled = v
			case colPaid:
				rec.Paid = v
			}
		}

		rec.Derive()
		res.Records = append(res.Records, rec)
	}

	for i := firstMoneyCol; i < numColumns; i++ {
		if n := badMoney[i]; n > 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("coluna %q: %d valores não numéricos substituídos por zero", moneyColumnLabel[i], n))
		}
	}
	if badYears > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d linhas com ano inválido (tratadas como ano desconhecido)", badYears))
	}

	res.Years = make([]int, 0, len(years))
	for y := range years {
		res.Years = append(res.Years, y)
	}
	sort.Ints(res.Years)
	if len(res.Years) == 0 && len(res.Records) > 0 {
		res.Warnings = append(res.Warnings, "nenhum ano válido encontrado na coluna de ano")
	}

	return res, nil
}

// cell returns row[i] or "" when the row is short. Sheets routinely drop
// trailing empty cells, so short rows are data, not errors.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
}

// parseMoney parses a monetary cell. br selects the Brazilian text convention
// ("." thousands, "," decimal). Unparseable or empty input yields zero.
func parseMoney(raw string, br bool) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, true
	}
	if br {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseYear parses the year cell. Excel numeric cells can surface as "2024"
// or "2024.0"; anything else (including negatives) is the unknown year 0.
func parseYear(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f), true
	}
	return 0, false
}

// matchesHeader reports whether the folded header cell contains any keyword.
func matchesHeader(h string, keywords []string) bool {
	folded := foldHeader(h)
	for _, k := range keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

func foldHeader(h string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(h)))
}
