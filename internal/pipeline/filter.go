// Package pipeline orchestrates table loading, caching, filtering, and aggregation.
package pipeline

import (
	"sort"

	"orcaview/internal/model"
)

// Selection holds the user's filter choices. An empty slice means the
// dimension is unconstrained: filtering by no years at all is the same as
// selecting every year.
type Selection struct {
	Years      []int
	Sources    []string // funding_source_code
	Actions    []string // action_code
	Programs   []string // program_code (PO)
	Categories []string // result_category_code (RP)
}

// FilterOptions holds the selectable values for the four secondary dimensions.
// They cascade on the year selection only: picking a fonte never narrows the
// ação options — the secondary dimensions are siblings, not a chain.
type FilterOptions struct {
	Sources    []string
	Actions    []string
	Programs   []string
	Categories []string
}

// Options computes the sorted distinct non-empty values of each secondary
// dimension among the rows matching the year selection (all rows when no
// year is selected).
func Options(recs []model.Record, years []int) FilterOptions {
	yearSet := intSet(years)

	sources := map[string]struct{}{}
	actions := map[string]struct{}{}
	programs := map[string]struct{}{}
	categories := map[string]struct{}{}

	for _, r := range recs {
		if len(yearSet) > 0 {
			if _, ok := yearSet[r.Year]; !ok {
				continue
			}
		}
		addNonEmpty(sources, r.FundingSourceCode)
		addNonEmpty(actions, r.ActionCode)
		addNonEmpty(programs, r.ProgramCode)
		addNonEmpty(categories, r.ResultCategoryCode)
	}

	return FilterOptions{
		Sources:    sortedKeys(sources),
		Actions:    sortedKeys(actions),
		Programs:   sortedKeys(programs),
		Categories: sortedKeys(categories),
	}
}

// Apply returns the subset of recs matching every non-empty dimension of sel.
// An empty result is a valid outcome, not an error.
func Apply(recs []model.Record, sel Selection) []model.Record {
	yearSet := intSet(sel.Years)
	sources := stringSet(sel.Sources)
	actions := stringSet(sel.Actions)
	programs := stringSet(sel.Programs)
	categories := stringSet(sel.Categories)

	var out []model.Record
	for _, r := range recs {
		if len(yearSet) > 0 {
			if _, ok := yearSet[r.Year]; !ok {
				continue
			}
		}
		if !member(sources, r.FundingSourceCode) {
			continue
		}
		if !member(actions, r.ActionCode) {
			continue
		}
		if !member(programs, r.ProgramCode) {
			continue
		}
		if !member(categories, r.ResultCategoryCode) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Prune drops selected values that are no longer offered by opts, which
// happens when the year selection changes and the cascading options shrink.
// The year selection itself is validated against the available years.
func Prune(sel Selection, years []int, opts FilterOptions) Selection {
	yearSet := intSet(years)
	var keptYears []int
	for _, y := range sel.Years {
		if _, ok := yearSet[y]; ok {
			keptYears = append(keptYears, y)
		}
	}
	return Selection{
		Years:      keptYears,
		Sources:    intersect(sel.Sources, opts.Sources),
		Actions:    intersect(sel.Actions, opts.Actions),
		Programs:   intersect(sel.Programs, opts.Programs),
		Categories: intersect(sel.Categories, opts.Categories),
	}
}

func intersect(selected, offered []string) []string {
	set := stringSet(offered)
	var out []string
	for _, v := range selected {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func member(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func intSet(vals []int) map[int]struct{} {
	set := make(map[int]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

func stringSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
