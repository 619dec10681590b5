package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"orcaview/internal/store"
)

var loaderHeader = []string{
	"Ano", "Ação", "Nome da Ação",
	"Plano Orçamentário", "Nome do Plano Orçamentário",
	"GND", "RP", "Nome RP", "Fonte", "PTRES",
	"Dotação (Lei + Créditos)", "Empenhado", "Liquidado", "Pago",
}

func writeExtract(t *testing.T, path string, dataRows ...[]string) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	all := append([][]string{loaderHeader}, dataRows...)
	for i, r := range all {
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
}

func extractRow(year, action string, committed string) []string {
	return []string{
		year, action, "Nome " + action, "P1", "Nome P1",
		"3", "2", "Primário", "1000", "123456",
		"1.000,00", committed, "0,00", "0,00",
	}
}

func TestLoad_Direct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extrato.xlsx")
	writeExtract(t, path, extractRow("2024", "A1", "10,00"))

	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.FromCache {
		t.Error("FromCache = true, want false for a direct load")
	}
	if len(res.Records) != 1 || res.Records[0].Year != 2024 {
		t.Errorf("records = %+v, want one 2024 row", res.Records)
	}
}

func TestLoadWithCache_HitOnSecondLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extrato.xlsx")
	writeExtract(t, path, extractRow("2024", "A1", "10,00"))

	cache, err := store.Open(filepath.Join(dir, "table.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Error("first load FromCache = true, want false")
	}

	second, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Error("second load FromCache = false, want true")
	}
	if len(second.Records) != 1 || second.Records[0].Year != 2024 {
		t.Errorf("cached records = %+v, want the parsed row back", second.Records)
	}
	if len(second.Years) != 1 || second.Years[0] != 2024 {
		t.Errorf("Years = %v, want [2024]", second.Years)
	}
}

func TestLoadWithCache_InvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extrato.xlsx")
	writeExtract(t, path, extractRow("2024", "A1", "10,00"))

	cache, err := store.Open(filepath.Join(dir, "table.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := LoadWithCache(path, cache); err != nil {
		t.Fatal(err)
	}

	// Rewrite with different content; nudge mtime so identity surely moves.
	writeExtract(t, path,
		extractRow("2024", "A1", "10,00"),
		extractRow("2025", "A2", "20,00"),
	)
	past := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	res, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatal(err)
	}
	if res.FromCache {
		t.Error("FromCache = true, want false after the file changed")
	}
	if len(res.Records) != 2 {
		t.Errorf("len(Records) = %d, want 2 (reparsed)", len(res.Records))
	}
}

func TestLoadWithCache_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cache, err := store.Open(filepath.Join(dir, "table.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := LoadWithCache(filepath.Join(dir, "nada.xlsx"), cache); err == nil {
		t.Fatal("err = nil, want the reader's not-found error")
	}
}
