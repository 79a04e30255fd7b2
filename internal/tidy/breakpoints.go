package tidy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "datanotes/internal/errors"
)

// BreakpointConfig controls bucket detection and annotation labels.
type BreakpointConfig struct {
	// BucketSize is the fixed threshold multiple B; one breakpoint is
	// emitted per distinct floor(cumulative/B). Must be positive.
	BucketSize int64

	// PositionLayout is the time layout used to format the position in
	// labels. Defaults to "Jan 2, 2006".
	PositionLayout string

	// Unit, when set, is appended to the grouped cumulative value in
	// labels ("60,000 doses").
	Unit string
}

// DetectBreakpoints returns one Breakpoint per distinct cumulative bucket,
// taking the first row in input iteration order within each bucket. Rows
// must arrive pre-sorted by their position key; the detector does not
// reorder them, so incidental input order is never a hidden tie-break.
func DetectBreakpoints(rows []LongRow, cfg BreakpointConfig) ([]Breakpoint, error) {
	if cfg.BucketSize <= 0 {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("bucket size must be positive, got %d", cfg.BucketSize))
	}

	layout := cfg.PositionLayout
	if layout == "" {
		layout = "Jan 2, 2006"
	}

	bucketSize := decimal.NewFromInt(cfg.BucketSize)
	printer := message.NewPrinter(language.English)

	seen := make(map[int64]bool)
	var out []Breakpoint
	for _, row := range rows {
		bucket := row.Value.Div(bucketSize).Floor().IntPart()
		if seen[bucket] {
			continue
		}
		seen[bucket] = true

		label := fmt.Sprintf("%s: %s", row.Position.Format(layout),
			printer.Sprintf("%d", row.Value.IntPart()))
		if cfg.Unit != "" {
			label = label + " " + strings.TrimSpace(cfg.Unit)
		}

		out = append(out, Breakpoint{
			BucketIndex:      bucket,
			ThresholdCrossed: bucket * cfg.BucketSize,
			Position:         row.Position,
			Cumulative:       row.Value,
			Label:            label,
		})
	}

	return out, nil
}
