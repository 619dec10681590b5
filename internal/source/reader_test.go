package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeSheet creates a temp xlsx file with the given rows and returns its path.
func writeSheet(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extrato.xlsx")

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cells := make([]interface{}, len(r))
		for j, c := range r {
			cells[j] = c
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &cells); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_Roundtrip(t *testing.T) {
	path := writeSheet(t, [][]string{
		extractHeader(),
		row("2024", "20RK", "0001", "1.000,00", "600,00", "400,00", "300,00"),
		row("2025", "20RK", "0001", "2.000,00", "900,00", "500,00", "100,00"),
	})

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(res.Records))
	}
	if len(res.Years) != 2 || res.Years[0] != 2024 {
		t.Errorf("Years = %v, want [2024 2025]", res.Years)
	}
	if !res.Records[0].Allocation.Equal(mustDec(t, "1000.00")) {
		t.Errorf("Allocation = %s, want 1000.00", res.Records[0].Allocation)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "inexistente.xlsx"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestReadFile_NotASpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extrato.xlsx")
	if err := os.WriteFile(path, []byte("isto não é um xlsx"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := ReadFile(path)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError for a non-xlsx file", err)
	}
}
