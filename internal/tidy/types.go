package tidy

import (
	"time"

	"github.com/shopspring/decimal"
)

// LongRow is one observation of the normalized long-format table: one row
// per (entity, group, period).
type LongRow struct {
	EntityID string
	GroupKey string
	Period   string
	Value    decimal.Decimal

	// Position is the ordering key (typically a timestamp) used by the
	// breakpoint detector. Reshape leaves it zero unless the spec names a
	// position column.
	Position time.Time
}

// PairedDiff is the signed post-minus-pre difference for one
// (entity, group) comparison pair.
type PairedDiff struct {
	EntityID string
	GroupKey string
	Pre      decimal.Decimal
	Post     decimal.Decimal
	Diff     decimal.Decimal
}

// DigitBucket is one bucket of a trailing-digit frequency table.
type DigitBucket struct {
	Bucket int64
	Count  int
	// Share is the fraction of all differences landing in this bucket.
	// Shares sum to 1.0 over the whole distribution.
	Share float64
	// Round marks buckets that are multiples of 100, the signature of
	// hand-picked values.
	Round bool
}

// DigitDistribution is the frequency table of trailing digits
// (differences taken modulo Modulus).
type DigitDistribution struct {
	Modulus int64
	Buckets []DigitBucket
	Total   int
}

// Breakpoint marks the first row at which a monotonic cumulative quantity
// enters a new fixed-size bucket. Used to place annotations on a plot axis.
type Breakpoint struct {
	BucketIndex      int64
	ThresholdCrossed int64
	Position         time.Time
	Cumulative       decimal.Decimal
	Label            string
}
