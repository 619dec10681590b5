package tui

import (
	"os"
	"strings"
)

const logoFallback = "◈ orcaview"

// LogoLine returns the one-line banner used on the loading screen.
func LogoLine() string {
	return logoFallback + " · Execução Orçamentária"
}

// LogoArt returns the ASCII banner from assets/logo.txt. A missing or empty
// asset falls back to the builtin glyph; ok reports whether the asset was used.
func LogoArt() (string, bool) {
	data, err := os.ReadFile("assets/logo.txt")
	if err != nil {
		return logoFallback, false
	}
	art := strings.TrimRight(string(data), "\n")
	if art == "" {
		return logoFallback, false
	}
	return art, true
}
