package tidy

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"datanotes/internal/dataset"
	apperrors "datanotes/internal/errors"
)

// ReshapeSpec describes how wide measurement columns map onto long rows.
type ReshapeSpec struct {
	// EntityColumn names the column holding the entity identifier.
	EntityColumn string

	// Pattern is a regular expression with exactly two capture groups:
	// the first captures the group identifier, the second the period
	// label. Example: `^car_(\d+)_(pre|post)$`.
	Pattern string

	// GroupFormat, when set, formats the captured group identifier into
	// the emitted GroupKey (one %s verb, e.g. "Car %s"). Empty means the
	// raw capture is used.
	GroupFormat string

	// PositionColumn, when set, names a date column copied onto every
	// emitted row as its ordering key.
	PositionColumn string
}

// matchedColumn is one wide column bound to a (group, period) pair.
type matchedColumn struct {
	name   string
	group  string
	period string
}

// Reshape converts a wide table into long rows per the spec, applying the
// paired-drop rule: when any period's value is missing for an
// (entity, group) pair, the entire pair is dropped so that before/after
// comparisons stay valid. An empty table yields an empty result; a pattern
// matching no columns is a schema error.
func Reshape(tbl *dataset.Table, spec ReshapeSpec) ([]LongRow, error) {
	matched, err := bindColumns(tbl, spec)
	if err != nil {
		return nil, err
	}

	if !tbl.HasColumn(spec.EntityColumn) {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("entity column %q not present", spec.EntityColumn), nil)
	}
	if spec.PositionColumn != "" && !tbl.HasColumn(spec.PositionColumn) {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("position column %q not present", spec.PositionColumn), nil)
	}

	// Group the matched columns so each (entity, group) pair is either
	// emitted for every period or not at all.
	byGroup := make(map[string][]matchedColumn)
	groupOrder := make([]string, 0)
	for _, mc := range matched {
		if _, seen := byGroup[mc.group]; !seen {
			groupOrder = append(groupOrder, mc.group)
		}
		byGroup[mc.group] = append(byGroup[mc.group], mc)
	}
	sort.Strings(groupOrder)

	var out []LongRow
	for row := 0; row < tbl.Len(); row++ {
		entityID, _ := tbl.Cell(row, spec.EntityColumn)

		var position time.Time
		if spec.PositionColumn != "" {
			position, err = tbl.Time(row, spec.PositionColumn)
			if err != nil {
				return nil, err
			}
		}

		for _, group := range groupOrder {
			cols := byGroup[group]

			// Paired-drop: a single missing period excludes the
			// whole (entity, group) pair, not just the missing cell.
			complete := true
			for _, mc := range cols {
				if tbl.IsMissing(row, mc.name) {
					complete = false
					break
				}
			}
			if !complete {
				continue
			}

			values := make([]decimal.Decimal, len(cols))
			for i, mc := range cols {
				v, err := tbl.Decimal(row, mc.name)
				if err != nil {
					return nil, err
				}
				values[i] = v
			}

			groupKey := group
			if spec.GroupFormat != "" {
				groupKey = fmt.Sprintf(spec.GroupFormat, group)
			}

			for i, mc := range cols {
				out = append(out, LongRow{
					EntityID: entityID,
					GroupKey: groupKey,
					Period:   mc.period,
					Value:    values[i],
					Position: position,
				})
			}
		}
	}

	return out, nil
}

// bindColumns validates the pattern against the table header and returns
// the matched columns in header order.
func bindColumns(tbl *dataset.Table, spec ReshapeSpec) ([]matchedColumn, error) {
	re, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("invalid column pattern %q", spec.Pattern), err)
	}
	if re.NumSubexp() != 2 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("column pattern %q must capture exactly group and period, has %d groups",
				spec.Pattern, re.NumSubexp()), nil)
	}

	seen := make(map[string]string) // "group\x00period" -> column name
	var matched []matchedColumn

	for _, col := range tbl.Columns() {
		m := re.FindStringSubmatch(col)
		if m == nil {
			continue
		}

		group, period := m[1], m[2]
		if group == "" || period == "" {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("column %q matched pattern with an empty group or period capture", col), nil)
		}

		key := group + "\x00" + period
		if prev, dup := seen[key]; dup {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("columns %q and %q both map to group %q period %q", prev, col, group, period), nil).
				WithContext("pattern", spec.Pattern)
		}
		seen[key] = col

		matched = append(matched, matchedColumn{name: col, group: group, period: period})
	}

	if len(matched) == 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("column pattern %q matched no columns", spec.Pattern), nil)
	}

	return matched, nil
}
