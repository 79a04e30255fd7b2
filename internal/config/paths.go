package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all file locations used during a post run.
// This is the single source of truth for artifact and dataset paths.
type Paths struct {
	// ContentDir receives the generated post directories.
	ContentDir string
	// DataDir holds local datasets (spreadsheets checked into the site).
	DataDir string
	// CacheDir holds fetched remote datasets between rebuilds. Empty
	// disables caching.
	CacheDir string
}

// NewPaths resolves the configured directories to absolute paths and
// creates the ones this process writes to. Paths are resolved against the
// working directory, which for a site build is the repository root.
func NewPaths(cfg *Config) (*Paths, error) {
	content, err := filepath.Abs(cfg.Site.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	data, err := filepath.Abs(cfg.Site.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cache := ""
	if cfg.Site.CacheDir != "" {
		cache, err = filepath.Abs(cfg.Site.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
	}

	p := &Paths{ContentDir: content, DataDir: data, CacheDir: cache}

	for _, dir := range []string{p.ContentDir, p.CacheDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return p, nil
}

// PostDir returns the artifact directory for one post.
func (p *Paths) PostDir(slug string) string {
	return filepath.Join(p.ContentDir, slug)
}

// Dataset returns the path of a local dataset file.
func (p *Paths) Dataset(name string) string {
	return filepath.Join(p.DataDir, name)
}
