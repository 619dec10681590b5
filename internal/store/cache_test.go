package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"orcaview/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "table.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleRecords() []model.Record {
	r1 := model.Record{
		Year:              2024,
		ActionCode:        "02",
		ActionName:        "Obra Nova",
		ProgramCode:       "0001",
		ProgramName:       "Infraestrutura",
		FundingSourceCode: "1000",
		Allocation:        decimal.RequireFromString("1234.56"),
		Committed:         decimal.RequireFromString("1000.00"),
		Settled:           decimal.RequireFromString("600.00"),
		Paid:              decimal.RequireFromString("400.00"),
	}
	r1.Derive()
	r2 := model.Record{Year: 2025, ActionCode: "20RK"}
	r2.Derive()
	return []model.Record{r1, r2}
}

func TestCache_SaveAndLoadTable(t *testing.T) {
	c := openTestCache(t)

	want := sampleRecords()
	warnings := []string{"aviso um", "aviso dois"}
	if err := c.SaveTable("/dados/extrato.xlsx", "abc123", 10, 20, want, warnings); err != nil {
		t.Fatal(err)
	}

	got, gotWarnings, err := c.LoadTable("/dados/extrato.xlsx")
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	if got[0].ActionCode != "02" {
		t.Errorf("ActionCode = %q, want \"02\" (text survives the roundtrip)", got[0].ActionCode)
	}
	if !got[0].Allocation.Equal(want[0].Allocation) {
		t.Errorf("Allocation = %s, want %s", got[0].Allocation, want[0].Allocation)
	}
	if !got[0].CommitmentBalance.Equal(decimal.RequireFromString("400.00")) {
		t.Errorf("CommitmentBalance = %s, want 400.00 (recomputed on load)", got[0].CommitmentBalance)
	}
	if len(gotWarnings) != 2 || gotWarnings[0] != "aviso um" {
		t.Errorf("warnings = %v, want the saved warnings in order", gotWarnings)
	}
}

func TestCache_LookupSource(t *testing.T) {
	c := openTestCache(t)

	info, err := c.LookupSource("/nunca/salvo.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if info != nil {
		t.Fatalf("info = %+v, want nil for untracked path", info)
	}

	if err := c.SaveTable("/dados/a.xlsx", "sha-one", 111, 222, sampleRecords(), nil); err != nil {
		t.Fatal(err)
	}

	info, err = c.LookupSource("/dados/a.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if info == nil || info.SHA256 != "sha-one" || info.MtimeNs != 111 || info.SizeBytes != 222 {
		t.Errorf("info = %+v, want tracked identity", info)
	}
}

func TestCache_SaveReplacesTable(t *testing.T) {
	c := openTestCache(t)

	path := "/dados/a.xlsx"
	if err := c.SaveTable(path, "v1", 1, 1, sampleRecords(), []string{"w"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveTable(path, "v2", 2, 2, sampleRecords()[:1], nil); err != nil {
		t.Fatal(err)
	}

	got, warnings, err := c.LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 (old rows replaced)", len(got))
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	info, _ := c.LookupSource(path)
	if info == nil || info.SHA256 != "v2" {
		t.Errorf("info = %+v, want updated identity v2", info)
	}
}

func TestCache_DeleteSource(t *testing.T) {
	c := openTestCache(t)

	path := "/dados/a.xlsx"
	if err := c.SaveTable(path, "v1", 1, 1, sampleRecords(), nil); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteSource(path); err != nil {
		t.Fatal(err)
	}

	info, err := c.LookupSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if info != nil {
		t.Errorf("info = %+v, want nil after delete", info)
	}
}
