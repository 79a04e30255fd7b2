// Package rollout recreates a news graphic of a vaccination campaign:
// a step chart of cumulative doses, annotated where the running total
// crosses each 50,000-dose mark.
package rollout

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"datanotes/internal/dataset"
	apperrors "datanotes/internal/errors"
	"datanotes/internal/render"
	"datanotes/internal/report"
	"datanotes/internal/tidy"
)

// Slug identifies this post in the registry and the content directory.
const Slug = "vaccine-rollout"

// BucketSize is the annotated threshold multiple, in doses.
const BucketSize = 50000

// New returns the registered post.
func New() report.Post {
	return report.Post{
		Slug:  Slug,
		Title: "Annotating a vaccination rollout, 50,000 doses at a time",
		Build: build,
	}
}

func build(ctx context.Context, env *report.Env) (*render.Document, error) {
	url := env.Config.Posts.RolloutURL
	table, err := env.Fetcher.FetchCSV(ctx, url)
	if err != nil {
		return nil, err
	}

	rows, err := longRows(ctx, env, table)
	if err != nil {
		return nil, err
	}

	// The detector takes rows in iteration order, so sort explicitly
	// rather than trusting the portal's export order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position.Before(rows[j].Position)
	})

	points, err := tidy.DetectBreakpoints(rows, tidy.BreakpointConfig{
		BucketSize: BucketSize,
		Unit:       "doses",
	})
	if err != nil {
		return nil, err
	}
	env.Logger.InfoContext(ctx, "breakpoints detected", "rows", len(rows), "breakpoints", len(points))

	return buildDocument(env.Theme, rows, points), nil
}

// longRows converts the fetched wide table into the pipeline's long form.
// Rows with a missing or unparsable cumulative value are dropped, mirroring
// how the original graphic skipped days the portal had not backfilled.
func longRows(ctx context.Context, env *report.Env, table *dataset.Table) ([]tidy.LongRow, error) {
	for _, col := range []string{"date", "cumulative_doses"} {
		if !table.HasColumn(col) {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("rollout dataset is missing column %q", col), nil).
				WithContext("columns", table.Columns())
		}
	}

	rows := make([]tidy.LongRow, 0, table.Len())
	dropped := 0
	for i := 0; i < table.Len(); i++ {
		if table.IsMissing(i, "cumulative_doses") {
			dropped++
			continue
		}

		position, err := table.Time(i, "date")
		if err != nil {
			return nil, err
		}
		value, err := table.Decimal(i, "cumulative_doses")
		if err != nil {
			return nil, err
		}

		rows = append(rows, tidy.LongRow{
			EntityID: "national",
			GroupKey: "doses",
			Period:   "cumulative",
			Position: position,
			Value:    value,
		})
	}

	if dropped > 0 {
		env.Logger.InfoContext(ctx, "dropped rows without a cumulative total", "dropped", dropped)
	}
	return rows, nil
}

func buildDocument(theme render.Theme, rows []tidy.LongRow, points []tidy.Breakpoint) *render.Document {
	x := make([]string, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		x[i] = row.Position.Format("2006-01-02")
		f, _ := row.Value.Float64()
		y[i] = f
	}

	annotations := make([]render.Annotation, len(points))
	tableRows := make([][]string, len(points))
	for i, p := range points {
		f, _ := p.Cumulative.Float64()
		annotations[i] = render.Annotation{
			X:     p.Position.Format("2006-01-02"),
			Y:     f,
			Label: p.Label,
		}
		tableRows[i] = []string{
			fmt.Sprintf("%d", p.BucketIndex),
			fmt.Sprintf("%d", p.ThresholdCrossed),
			p.Position.Format("2006-01-02"),
			p.Cumulative.String(),
		}
	}

	total := decimal.Zero
	if len(rows) > 0 {
		total = rows[len(rows)-1].Value
	}

	return &render.Document{
		Sections: []render.Section{
			{
				Prose: []string{
					fmt.Sprintf("The campaign administered %s doses over %d reported days. "+
						"Marking every %d-dose threshold turns a featureless curve into a "+
						"readable timeline.", total.String(), len(rows), BucketSize),
				},
			},
			{
				Heading: "Cumulative doses",
				Figure: &render.Figure{
					Name:        "doses-step",
					Kind:        render.KindStep,
					Caption:     "Cumulative doses with 50,000-dose milestones",
					XLabel:      "date",
					YLabel:      "cumulative doses",
					Series:      []render.Series{{Name: "cumulative", X: x, Y: y}},
					Annotations: annotations,
					Theme:       theme,
				},
			},
			{
				Heading: "Milestones",
				Table: &render.TableBlock{
					Caption: "First reported day within each 50,000-dose bucket",
					Headers: []string{"Bucket", "Threshold", "Date", "Cumulative"},
					Rows:    tableRows,
				},
			},
		},
	}
}
