// Package claims replicates a round-number fraud check on insurance
// claim adjustments: paired pre/post vehicle valuations are reshaped to
// long format and the trailing digits of their differences are compared
// against the uniform distribution honest data would show.
package claims

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"datanotes/internal/render"
	"datanotes/internal/report"
	"datanotes/internal/tidy"
	"datanotes/internal/workbook"
)

// Slug identifies this post in the registry and the content directory.
const Slug = "claims-round-numbers"

// New returns the registered post.
func New() report.Post {
	return report.Post{
		Slug:  Slug,
		Title: "Round numbers in claim adjustments",
		Build: build,
	}
}

func build(ctx context.Context, env *report.Env) (*render.Document, error) {
	path := env.Config.Posts.ClaimsWorkbook
	if !filepath.IsAbs(path) {
		path = env.Paths.Dataset(path)
	}

	table, err := workbook.LoadSheet(path, workbook.SheetOptions{
		HeaderKeywords: []string{"policy_id", "car_1_pre", "car_1_post"},
	})
	if err != nil {
		return nil, err
	}
	env.Logger.InfoContext(ctx, "claims dataset loaded", "path", path, "rows", table.Len())

	rows, err := tidy.Reshape(table, tidy.ReshapeSpec{
		EntityColumn: "policy_id",
		Pattern:      `^car_(\d+)_(pre|post)$`,
		GroupFormat:  "Car %s",
	})
	if err != nil {
		return nil, err
	}

	diffs, err := tidy.PairedDiffs(rows, "pre", "post")
	if err != nil {
		return nil, err
	}

	dist, err := tidy.Distribution(diffs, 1000)
	if err != nil {
		return nil, err
	}
	lastDigit, err := tidy.Distribution(diffs, 10)
	if err != nil {
		return nil, err
	}

	if err := writeBucketCSV(env, dist); err != nil {
		return nil, err
	}

	return buildDocument(env.Theme, table.Len(), len(diffs), dist, lastDigit), nil
}

// writeBucketCSV exports the full mod-1000 frequency table for readers
// who want the raw numbers.
func writeBucketCSV(env *report.Env, dist tidy.DigitDistribution) error {
	records := make([][]string, 0, len(dist.Buckets))
	for _, b := range dist.Buckets {
		records = append(records, []string{
			fmt.Sprintf("%d", b.Bucket),
			fmt.Sprintf("%d", b.Count),
			fmt.Sprintf("%.4f", b.Share),
			fmt.Sprintf("%t", b.Round),
		})
	}

	return render.WriteCSV(
		filepath.Join(env.Paths.PostDir(Slug), "digit-buckets.csv"),
		render.CSVOptions{
			Headers:   []string{"bucket", "count", "share", "round"},
			Records:   records,
			BOMPrefix: true,
		})
}

func buildDocument(theme render.Theme, policies, pairs int, dist, lastDigit tidy.DigitDistribution) *render.Document {
	topBuckets := topByCount(dist, 10)

	bucketRows := make([][]string, 0, len(topBuckets))
	var emphasis []int
	histX := make([]string, 0, len(topBuckets))
	histY := make([]float64, 0, len(topBuckets))
	for i, b := range topBuckets {
		flag := ""
		if b.Round {
			flag = "yes"
			emphasis = append(emphasis, i)
		}
		bucketRows = append(bucketRows, []string{
			fmt.Sprintf("%d", b.Bucket),
			fmt.Sprintf("%d", b.Count),
			fmt.Sprintf("%.1f%%", b.Share*100),
			flag,
		})
		histX = append(histX, fmt.Sprintf("%d", b.Bucket))
		histY = append(histY, b.Share)
	}

	roundShare := dist.RoundShare()

	return &render.Document{
		Sections: []render.Section{
			{
				Prose: []string{
					fmt.Sprintf("The claims extract covers %d policies, yielding %d complete "+
						"before/after valuation pairs after the paired-drop cleaning rule.", policies, pairs),
					"If adjusters estimated values honestly, the trailing digits of the " +
						"adjustment differences would be close to uniform. Hand-picked values " +
						"cluster on round numbers instead.",
				},
			},
			{
				Heading: "Trailing digits of adjustment differences",
				Prose: []string{
					fmt.Sprintf("Buckets that are multiples of 100 hold %.1f%% of all differences; "+
						"a uniform distribution would put roughly 1%% in each of them.", roundShare*100),
				},
				Table: &render.TableBlock{
					Caption: "Most frequent difference buckets (modulo 1000)",
					Headers: []string{"Bucket", "Count", "Share", "Round"},
					Rows:    bucketRows,
				},
				Figure: &render.Figure{
					Name:    "digit-histogram",
					Kind:    render.KindHistogram,
					Caption: "Share of differences per trailing-digit bucket; round buckets highlighted",
					XLabel:  "difference mod 1000",
					YLabel:  "share",
					Series: []render.Series{{
						Name:     "share",
						X:        histX,
						Y:        histY,
						Emphasis: emphasis,
					}},
					Theme: theme,
				},
			},
			{
				Heading: "Last digit",
				Prose: []string{
					fmt.Sprintf("The final digit alone tells the same story: %.1f%% of differences "+
						"end in zero against the 10%% an honest process would produce.",
						lastDigitZeroShare(lastDigit)*100),
				},
			},
		},
	}
}

func lastDigitZeroShare(dist tidy.DigitDistribution) float64 {
	for _, b := range dist.Buckets {
		if b.Bucket == 0 {
			return b.Share
		}
	}
	return 0
}

// topByCount returns up to n buckets ordered by descending count, ties
// broken by bucket value for stable output.
func topByCount(dist tidy.DigitDistribution, n int) []tidy.DigitBucket {
	buckets := make([]tidy.DigitBucket, len(dist.Buckets))
	copy(buckets, dist.Buckets)
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Bucket < buckets[j].Bucket
	})
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}
