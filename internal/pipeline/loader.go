package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"orcaview/internal/model"
	"orcaview/internal/source"
	"orcaview/internal/store"
)

// LoadResult is the outcome of loading a source spreadsheet, either from
// a fresh parse or from the cache.
type LoadResult struct {
	Records   []model.Record
	Years     []int
	Warnings  []string
	FromCache bool
}

// Load parses the spreadsheet at path without consulting the cache.
func Load(path string) (*LoadResult, error) {
	res, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{
		Records:  res.Records,
		Years:    res.Years,
		Warnings: res.Warnings,
	}, nil
}

// LoadWithCache loads the table from the cache when the file identity
// matches the tracked row, and re-parses and replaces the cached table
// otherwise. Cache read and write failures degrade to a plain parse.
func LoadWithCache(path string, cache *store.Cache) (*LoadResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	fi, err := os.Stat(path)
	if err != nil {
		// Let the reader produce the canonical not-found error.
		return Load(path)
	}
	mtimeNs := fi.ModTime().UnixNano()
	sizeBytes := fi.Size()

	info, err := cache.LookupSource(abs)
	if err == nil && info != nil && info.MtimeNs == mtimeNs && info.SizeBytes == sizeBytes {
		if recs, warnings, err := cache.LoadTable(abs); err == nil {
			return &LoadResult{
				Records:   recs,
				Years:     distinctYears(recs),
				Warnings:  warnings,
				FromCache: true,
			}, nil
		}
	}

	// Mtime or size moved; the hash settles whether the content did.
	if err == nil && info != nil {
		if sum, herr := hashFile(path); herr == nil && sum == info.SHA256 {
			if recs, warnings, lerr := cache.LoadTable(abs); lerr == nil {
				return &LoadResult{
					Records:   recs,
					Years:     distinctYears(recs),
					Warnings:  warnings,
					FromCache: true,
				}, nil
			}
		}
	}

	res, err := Load(path)
	if err != nil {
		return nil, err
	}

	if sum, herr := hashFile(path); herr == nil {
		// A failed save only costs the next run a re-parse.
		_ = cache.SaveTable(abs, sum, mtimeNs, sizeBytes, res.Records, res.Warnings)
	}

	return res, nil
}

// CacheDir returns the directory holding the cache database.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "orcaview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "orcaview"), nil
}

// CachePath returns the path of the cache database file.
func CachePath() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "table.db"), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func distinctYears(recs []model.Record) []int {
	seen := map[int]bool{}
	for _, r := range recs {
		if r.Year != 0 {
			seen[r.Year] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
