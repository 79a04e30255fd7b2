// Command postgen regenerates the site's data-analysis posts. The
// static-site build invokes it once per deploy; it runs one post or all
// of them, writes their artifacts into the content directory, and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"datanotes/internal/config"
	"datanotes/internal/fetch"
	"datanotes/internal/posts"
	"datanotes/internal/render"
	"datanotes/internal/report"
)

func main() {
	postSlug := flag.String("post", "", "generate a single post by slug (defaults to all posts)")
	configPath := flag.String("config", "datanotes.yaml", "path to the site configuration file")
	contentDir := flag.String("out", "", "override the content output directory")
	flag.Parse()

	if err := run(*postSlug, *configPath, *contentDir); err != nil {
		slog.Error("post generation failed", "error", err)
		os.Exit(1)
	}
}

func run(postSlug, configPath, contentDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if contentDir != "" {
		cfg.Site.ContentDir = contentDir
	}

	logger := config.NewLogger(cfg.Logging, os.Stderr)

	paths, err := config.NewPaths(cfg)
	if err != nil {
		return fmt.Errorf("initialize paths: %w", err)
	}

	registry, err := posts.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("assemble post registry: %w", err)
	}

	env := &report.Env{
		Config:  cfg,
		Paths:   paths,
		Fetcher: fetch.NewClient(cfg.Fetch, paths.CacheDir, logger),
		Theme:   render.ThemeFromConfig(cfg.Theme),
		Logger:  logger,
	}

	runner := report.NewRunner(env, registry)
	ctx := context.Background()

	if postSlug != "" {
		return runner.Run(ctx, postSlug)
	}

	logger.Info("generating all posts", "count", len(registry.Slugs()))
	return runner.RunAll(ctx)
}
