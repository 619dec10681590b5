// Package config loads and saves the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultSourceFile is the spreadsheet looked for when no file is configured.
const DefaultSourceFile = "Extrator BI Tesouro.xlsx"

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Config is the on-disk configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Gemini     GeminiConfig     `toml:"gemini"`
	Appearance AppearanceConfig `toml:"appearance"`
}

type GeneralConfig struct {
	// SourceFile is the spreadsheet opened when --file is not given.
	SourceFile string `toml:"source_file"`
	// DefaultYears preselects exercise years on startup. Empty means all.
	DefaultYears []int `toml:"default_years"`
	// NoCache disables the parsed-table cache.
	NoCache bool `toml:"no_cache"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		General: GeneralConfig{
			SourceFile: DefaultSourceFile,
		},
		Gemini: GeminiConfig{
			Model: DefaultGeminiModel,
		},
		Appearance: AppearanceConfig{
			Theme: "dark",
		},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "orcaview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".config", "orcaview"), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file, returning defaults when it does not
// exist. Unknown keys are ignored so older binaries keep working.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("lendo configuração %s: %w", path, err)
	}

	if cfg.General.SourceFile == "" {
		cfg.General.SourceFile = DefaultSourceFile
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultGeminiModel
	}

	return cfg, nil
}

// Save writes the configuration to disk, creating the directory if needed.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("criando diretório de configuração: %w", err)
	}

	path, err := Path()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("gravando configuração: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// GeminiAPIKey resolves the Gemini key, preferring the environment over
// the configuration file.
func GeminiAPIKey(cfg Config) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return cfg.Gemini.APIKey
}

// ChatEnabled reports whether the Q&A assistant can be used.
func ChatEnabled(cfg Config) bool {
	return GeminiAPIKey(cfg) != ""
}
