// Package tidy implements the reshape-and-annotate pipeline shared by the
// site's analysis posts: wide tables are normalized to long format, paired
// before/after differences are classified by trailing digits, and cumulative
// series are annotated where they cross fixed threshold multiples.
//
// # Pipeline
//
// The three stages compose but are independently callable:
//
//	table := dataset.ReadCSV(...)            // wide input
//	rows, err := tidy.Reshape(table, spec)   // long format, paired-drop applied
//	diffs, err := tidy.PairedDiffs(rows, "pre", "post")
//	dist, err := tidy.Distribution(diffs, 1000)
//
// or, for cumulative series:
//
//	points, err := tidy.DetectBreakpoints(rows, tidy.BreakpointConfig{BucketSize: 50000})
//
// # Cleaning policy
//
// Reshape applies the paired-drop rule: when either period of an
// (entity, group) pair is missing, both observations are excluded. Dropping
// only the missing side would bias every before/after comparison downstream.
//
// # Error handling
//
// Input that violates the column contract yields a SCHEMA error; input that
// violates an internal invariant (for example a pair with only one period
// reaching PairedDiffs) yields a PRECONDITION error, which always indicates
// an upstream defect rather than bad data.
package tidy
