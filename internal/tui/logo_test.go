package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
)

func TestLogoArt_MissingAssetFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())

	art, ok := LogoArt()
	if ok {
		t.Error("ok = true without assets/logo.txt")
	}
	if art != logoFallback {
		t.Errorf("art = %q, want builtin fallback", art)
	}
}

func TestLogoArt_ReadsAsset(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "logo.txt"), []byte("BANNER\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	art, ok := LogoArt()
	if !ok {
		t.Error("ok = false with the asset in place")
	}
	if art != "BANNER" {
		t.Errorf("art = %q, want trimmed asset contents", art)
	}
}

func TestLoadingScreen_WarnsWhenLogoMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	a := App{width: 100, height: 30, spinner: spinner.New()}
	out := a.View()
	if !strings.Contains(out, "logo.txt") {
		t.Error("loading screen should mention the missing logo asset")
	}
}
