package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"datanotes/internal/config"
	"datanotes/internal/dataset"
	apperrors "datanotes/internal/errors"
)

// Client fetches remote CSV datasets for posts. Requests pass through a
// rate limiter so a full site rebuild stays polite to public data portals,
// and responses are cached on disk so rebuilds do not refetch.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cacheDir   string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a dataset fetch client. An empty cacheDir disables
// caching.
func NewClient(cfg config.FetchConfig, cacheDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cacheDir:   cacheDir,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

// FetchCSV retrieves a remote CSV dataset and parses it into a table.
// There is no retry and no partial success: any failure aborts the post
// being generated.
func (c *Client) FetchCSV(ctx context.Context, url string) (*dataset.Table, error) {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	table, err := dataset.ReadCSV(body)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", url, err)
	}

	c.logger.InfoContext(ctx, "dataset loaded",
		"url", url,
		"rows", table.Len(),
		"columns", len(table.Columns()),
	)
	return table, nil
}

func (c *Client) fetch(ctx context.Context, url string) (io.Reader, error) {
	if cached, ok := c.readCache(url); ok {
		c.logger.InfoContext(ctx, "dataset served from cache", "url", url)
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewFetchError("rate limiter interrupted", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewFetchError("build request", err).WithContext("url", url)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError("request failed", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewFetchError(
			fmt.Sprintf("unexpected status %d fetching dataset", resp.StatusCode), nil).
			WithContext("url", url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewFetchError("read response body", err).WithContext("url", url)
	}
	if len(data) == 0 {
		return nil, apperrors.NewFetchError("empty response body", nil).WithContext("url", url)
	}

	c.writeCache(ctx, url, data)
	return bytes.NewReader(data), nil
}

// readCache returns the cached body for a URL when present.
func (c *Client) readCache(url string) (io.Reader, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.cachePath(url))
	if err != nil {
		return nil, false
	}
	return bytes.NewReader(data), true
}

// writeCache stores a fetched body. Cache failures are logged, never
// fatal: the data is already in memory.
func (c *Client) writeCache(ctx context.Context, url string, data []byte) {
	if c.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		c.logger.WarnContext(ctx, "failed to create cache directory", "error", err)
		return
	}
	if err := os.WriteFile(c.cachePath(url), data, 0644); err != nil {
		c.logger.WarnContext(ctx, "failed to write dataset cache", "url", url, "error", err)
	}
}

func (c *Client) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.cacheDir, hex.EncodeToString(sum[:16])+".csv")
}
