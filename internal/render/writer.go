package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteDocument writes a post's artifacts into dir: index.md plus one JSON
// spec per figure. Existing artifacts are overwritten.
func WriteDocument(dir string, doc *Document, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create post directory: %w", err)
	}

	body, err := Markdown(doc)
	if err != nil {
		return fmt.Errorf("render %s: %w", doc.Slug, err)
	}

	indexPath := filepath.Join(dir, "index.md")
	if err := os.WriteFile(indexPath, []byte(body), 0644); err != nil {
		return fmt.Errorf("write %s: %w", indexPath, err)
	}

	figures := 0
	for _, section := range doc.Sections {
		if section.Figure == nil {
			continue
		}

		data, err := json.MarshalIndent(section.Figure, "", "  ")
		if err != nil {
			return fmt.Errorf("encode figure %s: %w", section.Figure.Name, err)
		}

		figPath := filepath.Join(dir, section.Figure.Name+".json")
		if err := os.WriteFile(figPath, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", figPath, err)
		}
		figures++
	}

	logger.Info("post artifacts written",
		slog.String("slug", doc.Slug),
		slog.String("dir", dir),
		slog.Int("figures", figures))

	return nil
}
