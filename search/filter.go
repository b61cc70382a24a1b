package search

import (
	"math"
	"sort"

	"bikefit/domain"
)

const (
	DefaultMaxResults = 100
	DefaultRange      = 10.0
)

// Search runs the filter, augment, sort, cap pipeline over records. The
// returned TotalMatches is counted before the cap. limit <= 0 uses
// DefaultMaxResults.
func Search(records []domain.BikeRecord, c domain.SearchCriteria, limit int) domain.SearchResult {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	m := newMatcher(c)

	matches := []domain.BikeMatch{}
	for _, rec := range records {
		if !m.matches(rec) {
			continue
		}
		reachDiff := rec.Reach - c.ReachTarget
		stackDiff := rec.Stack - c.StackTarget
		matches = append(matches, domain.BikeMatch{
			BikeRecord: rec,
			ReachDiff:  reachDiff,
			StackDiff:  stackDiff,
			TotalDiff:  math.Abs(reachDiff) + math.Abs(stackDiff),
		})
	}

	// Stable so equally close frames keep dataset order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].TotalDiff < matches[j].TotalDiff
	})

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return domain.SearchResult{
		Results:      matches,
		TotalMatches: total,
		Returned:     len(matches),
	}
}

type matcher struct {
	c          domain.SearchCriteria
	reachRange float64
	stackRange float64
	brands     map[string]bool
	materials  map[string]bool
	srRatio    domain.Range
	sta        domain.Range
}

func newMatcher(c domain.SearchCriteria) matcher {
	return matcher{
		c:          c,
		reachRange: c.ReachRange.Or(DefaultRange),
		stackRange: c.StackRange.Or(DefaultRange),
		brands:     toSet(c.Brands),
		materials:  toSet(c.Materials),
		srRatio:    c.SRRatioRange(),
		sta:        c.STARange(),
	}
}

// Matches reports whether rec passes every filter in c.
func Matches(rec domain.BikeRecord, c domain.SearchCriteria) bool {
	return newMatcher(c).matches(rec)
}

func (m matcher) matches(rec domain.BikeRecord) bool {
	if math.Abs(rec.Reach-m.c.ReachTarget) > m.reachRange {
		return false
	}
	if math.Abs(rec.Stack-m.c.StackTarget) > m.stackRange {
		return false
	}
	if len(m.brands) > 0 && !m.brands[rec.Brand] {
		return false
	}
	if len(m.materials) > 0 && !m.materials[rec.Material] {
		return false
	}
	if m.c.Style != "" && rec.Style != m.c.Style {
		return false
	}
	// Records without a usable value pass the numeric range filters.
	if sr := SRRatioField.Number(rec.Fields); sr.Set && !m.srRatio.Contains(sr.Value) {
		return false
	}
	if sta := SeatTubeAngleField.Number(rec.Fields); sta.Set && !m.sta.Contains(sta.Value) {
		return false
	}
	return true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}

// FacetsOf lists the distinct, sorted brands, materials and styles in records.
func FacetsOf(records []domain.BikeRecord) domain.Facets {
	brands := map[string]bool{}
	materials := map[string]bool{}
	styles := map[string]bool{}
	for _, rec := range records {
		if rec.Brand != "" {
			brands[rec.Brand] = true
		}
		if rec.Material != "" {
			materials[rec.Material] = true
		}
		if rec.Style != "" {
			styles[rec.Style] = true
		}
	}
	return domain.Facets{
		Brands:    sortedKeys(brands),
		Materials: sortedKeys(materials),
		Styles:    sortedKeys(styles),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
