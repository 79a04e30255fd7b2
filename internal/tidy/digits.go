package tidy

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "datanotes/internal/errors"
)

// PairedDiffs computes the signed post-minus-pre difference per
// (entity, group) pair. Every pair must carry exactly the two named
// periods; anything else means the reshape step was bypassed or broken,
// which is reported as a precondition failure rather than papered over.
func PairedDiffs(rows []LongRow, prePeriod, postPeriod string) ([]PairedDiff, error) {
	type pairKey struct {
		entity string
		group  string
	}
	type pairState struct {
		pre, post decimal.Decimal
		hasPre    bool
		hasPost   bool
	}

	states := make(map[pairKey]*pairState)
	order := make([]pairKey, 0)

	for _, row := range rows {
		key := pairKey{entity: row.EntityID, group: row.GroupKey}
		st, ok := states[key]
		if !ok {
			st = &pairState{}
			states[key] = st
			order = append(order, key)
		}

		switch row.Period {
		case prePeriod:
			if st.hasPre {
				return nil, apperrors.NewPreconditionError("unexpected period cardinality").
					WithContext("entity_id", row.EntityID).
					WithContext("group_key", row.GroupKey).
					WithContext("period", row.Period)
			}
			st.pre = row.Value
			st.hasPre = true
		case postPeriod:
			if st.hasPost {
				return nil, apperrors.NewPreconditionError("unexpected period cardinality").
					WithContext("entity_id", row.EntityID).
					WithContext("group_key", row.GroupKey).
					WithContext("period", row.Period)
			}
			st.post = row.Value
			st.hasPost = true
		default:
			return nil, apperrors.NewPreconditionError(
				fmt.Sprintf("unknown period %q, expected %q or %q", row.Period, prePeriod, postPeriod)).
				WithContext("entity_id", row.EntityID).
				WithContext("group_key", row.GroupKey)
		}
	}

	diffs := make([]PairedDiff, 0, len(order))
	for _, key := range order {
		st := states[key]
		if !st.hasPre || !st.hasPost {
			return nil, apperrors.NewPreconditionError("unexpected period cardinality").
				WithContext("entity_id", key.entity).
				WithContext("group_key", key.group)
		}
		diffs = append(diffs, PairedDiff{
			EntityID: key.entity,
			GroupKey: key.group,
			Pre:      st.pre,
			Post:     st.post,
			Diff:     st.post.Sub(st.pre),
		})
	}

	return diffs, nil
}

// Distribution classifies the trailing digits of each difference
// (absolute value modulo the given modulus, typically 1000 or 10) into a
// frequency table, flagging buckets that are multiples of 100 as round.
// Differences must be whole numbers: a fractional amount has no trailing
// digit to classify, so callers working in fractional units scale to
// minor units before diffing. The caller decides whether the round-bucket
// mass is suspicious.
func Distribution(diffs []PairedDiff, modulus int64) (DigitDistribution, error) {
	if modulus <= 0 {
		return DigitDistribution{}, apperrors.NewPreconditionError(
			fmt.Sprintf("modulus must be positive, got %d", modulus))
	}

	mod := decimal.NewFromInt(modulus)
	counts := make(map[int64]int)
	for _, d := range diffs {
		abs := d.Diff.Abs()
		if !abs.IsInteger() {
			return DigitDistribution{}, apperrors.NewPreconditionError(
				fmt.Sprintf("difference %s is not a whole number; scale to minor units first", d.Diff)).
				WithContext("entity_id", d.EntityID).
				WithContext("group_key", d.GroupKey)
		}
		counts[abs.Mod(mod).IntPart()]++
	}

	buckets := make([]DigitBucket, 0, len(counts))
	for bucket, count := range counts {
		buckets = append(buckets, DigitBucket{
			Bucket: bucket,
			Count:  count,
			Share:  float64(count) / float64(len(diffs)),
			Round:  bucket%100 == 0,
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })

	return DigitDistribution{
		Modulus: modulus,
		Buckets: buckets,
		Total:   len(diffs),
	}, nil
}

// RoundShare returns the combined share of the round buckets. Under a
// uniform trailing-digit distribution this stays near the number of round
// buckets divided by the modulus; a large excess is the classic signature
// of fabricated values.
func (d DigitDistribution) RoundShare() float64 {
	var share float64
	for _, b := range d.Buckets {
		if b.Round {
			share += b.Share
		}
	}
	return share
}
