package render

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVOptions configures CSV artifact writing.
type CSVOptions struct {
	Headers []string
	Records [][]string
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file correctly.
	BOMPrefix bool
}

// WriteCSV writes a summary-table artifact next to the post document.
// Reruns overwrite: a site rebuild must be idempotent.
func WriteCSV(path string, options CSVOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}
