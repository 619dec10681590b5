package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.SourceFile != DefaultSourceFile {
		t.Errorf("SourceFile = %q, want %q", cfg.General.SourceFile, DefaultSourceFile)
	}
	if cfg.Gemini.Model != DefaultGeminiModel {
		t.Errorf("Model = %q, want %q", cfg.Gemini.Model, DefaultGeminiModel)
	}
	if cfg.Appearance.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.Appearance.Theme)
	}
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Default()
	want.General.SourceFile = "execucao-2025.xlsx"
	want.General.DefaultYears = []int{2024, 2025}
	want.General.NoCache = true
	want.Gemini.APIKey = "chave-teste"
	want.Appearance.Theme = "light"

	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("roundtrip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestLoad_EmptyFieldsRefilled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "orcaview")
	if err := os.MkdirAll(cfgDir, 0o750); err != nil {
		t.Fatal(err)
	}
	raw := "[general]\nsource_file = \"\"\n\n[gemini]\nmodel = \"\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.SourceFile != DefaultSourceFile {
		t.Errorf("SourceFile = %q, want default refilled", cfg.General.SourceFile)
	}
	if cfg.Gemini.Model != DefaultGeminiModel {
		t.Errorf("Model = %q, want default refilled", cfg.Gemini.Model)
	}
}

func TestGeminiAPIKey_EnvWins(t *testing.T) {
	cfg := Default()
	cfg.Gemini.APIKey = "do-arquivo"

	t.Setenv("GEMINI_API_KEY", "do-ambiente")
	if got := GeminiAPIKey(cfg); got != "do-ambiente" {
		t.Errorf("GeminiAPIKey = %q, want env value", got)
	}

	t.Setenv("GEMINI_API_KEY", "")
	if got := GeminiAPIKey(cfg); got != "do-arquivo" {
		t.Errorf("GeminiAPIKey = %q, want file value", got)
	}
}

func TestChatEnabled(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg := Default()
	if ChatEnabled(cfg) {
		t.Error("ChatEnabled should be false without any key")
	}
	cfg.Gemini.APIKey = "chave"
	if !ChatEnabled(cfg) {
		t.Error("ChatEnabled should be true with a configured key")
	}
}
