package pipeline

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"orcaview/internal/model"
)

// SortOrder selects the deterministic ordering of aggregation output.
type SortOrder int

const (
	// SortBySumDesc orders groups by the designated primary value column,
	// largest first, with the grouping key as tiebreaker.
	SortBySumDesc SortOrder = iota
	// SortByKeyAsc orders groups lexically by the grouping key values.
	SortByKeyAsc
)

// zeroTolerance is the absolute threshold under which a summed group counts
// as zero for the detail view (one cent in the minor-unit-free value).
var zeroTolerance = decimal.NewFromFloat(0.01)

// GroupSum groups recs by the categorical fields in keys and sums the
// monetary fields in values over each group. primary names the value column
// that drives SortBySumDesc; when empty, the first value column is used.
// Empty input yields empty output.
func GroupSum(recs []model.Record, keys, values []string, order SortOrder, primary string) []model.GroupRow {
	if len(recs) == 0 || len(keys) == 0 {
		return nil
	}

	primaryIdx := 0
	if primary != "" {
		for i, v := range values {
			if v == primary {
				primaryIdx = i
				break
			}
		}
	}

	groups := make(map[string]*model.GroupRow)
	var groupOrder []string // insertion order, for stable map iteration

	for _, r := range recs {
		keyVals := make([]string, len(keys))
		for i, k := range keys {
			keyVals[i] = r.Categorical(k)
		}
		id := strings.Join(keyVals, "\x1f")

		g, ok := groups[id]
		if !ok {
			g = &model.GroupRow{Keys: keyVals, Sums: make([]decimal.Decimal, len(values))}
			groups[id] = g
			groupOrder = append(groupOrder, id)
		}
		for i, v := range values {
			g.Sums[i] = g.Sums[i].Add(r.Money(v))
		}
	}

	out := make([]model.GroupRow, 0, len(groups))
	for _, id := range groupOrder {
		out = append(out, *groups[id])
	}

	switch order {
	case SortByKeyAsc:
		sort.Slice(out, func(i, j int) bool {
			return lessKeys(out[i].Keys, out[j].Keys)
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			ci := out[i].Sums[primaryIdx]
			cj := out[j].Sums[primaryIdx]
			if !ci.Equal(cj) {
				return ci.GreaterThan(cj)
			}
			return lessKeys(out[i].Keys, out[j].Keys)
		})
	}

	return out
}

// GroupSumNonZero is GroupSum with noise suppression: groups whose summed
// values are all within zeroTolerance of zero are dropped from the result.
func GroupSumNonZero(recs []model.Record, keys, values []string, order SortOrder, primary string) []model.GroupRow {
	rows := GroupSum(recs, keys, values, order, primary)
	out := rows[:0:0]
	for _, row := range rows {
		for _, s := range row.Sums {
			if s.Abs().GreaterThan(zeroTolerance) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// SumTotals computes the six summary metrics over recs. A zero-row input
// yields all-zero totals.
func SumTotals(recs []model.Record) model.Totals {
	var t model.Totals
	for _, r := range recs {
		t.Allocation = t.Allocation.Add(r.Allocation)
		t.Committed = t.Committed.Add(r.Committed)
		t.Settled = t.Settled.Add(r.Settled)
		t.Paid = t.Paid.Add(r.Paid)
		t.CommitmentBalance = t.CommitmentBalance.Add(r.CommitmentBalance)
		t.BalanceToCommit = t.BalanceToCommit.Add(r.BalanceToCommit)
	}
	return t
}

func lessKeys(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
