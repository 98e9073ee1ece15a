package analysis

import "strings"

// Eligibility decides when a column counts as numeric: at least MinFraction of the
// non-empty cells among the first SampleRows rows must coerce.
type Eligibility struct {
	SampleRows  int
	MinFraction float64
}

// DefaultEligibility samples 100 rows and requires 80% parseable cells.
func DefaultEligibility() Eligibility {
	return Eligibility{SampleRows: 100, MinFraction: 0.8}
}

// ColumnProfile is the recorded eligibility outcome for one column.
type ColumnProfile struct {
	Name     string
	NonEmpty int
	Parsed   int
	Numeric  bool
	Percent  bool // numeric and named like a percentage
}

// Fraction is Parsed/NonEmpty, or 0 for an all-empty column.
func (c ColumnProfile) Fraction() float64 {
	if c.NonEmpty == 0 {
		return 0
	}
	return float64(c.Parsed) / float64(c.NonEmpty)
}

// Profile holds per-column eligibility for a row set, in column order.
type Profile struct {
	Columns []ColumnProfile
	byName  map[string]int
}

// Get returns the profile of a column.
func (p Profile) Get(name string) (ColumnProfile, bool) {
	i, ok := p.byName[name]
	if !ok {
		return ColumnProfile{}, false
	}
	return p.Columns[i], true
}

// IsNumeric reports whether the named column passed the eligibility predicate.
func (p Profile) IsNumeric(name string) bool {
	c, ok := p.Get(name)
	return ok && c.Numeric
}

// ProfileColumns evaluates the eligibility predicate once per column.
func ProfileColumns(rs *RowSet, e Eligibility) Profile {
	sample := e.SampleRows
	if sample <= 0 {
		sample = DefaultEligibility().SampleRows
	}
	minFrac := e.MinFraction
	if minFrac <= 0 || minFrac > 1 {
		minFrac = DefaultEligibility().MinFraction
	}
	prof := Profile{byName: map[string]int{}}
	if rs == nil {
		return prof
	}
	n := min(sample, rs.Len())
	for _, col := range rs.Columns {
		cp := ColumnProfile{Name: col}
		for i := 0; i < n; i++ {
			v := rs.Rows[i][col]
			if isBlank(v) {
				continue
			}
			cp.NonEmpty++
			if Coerce(v).Valid {
				cp.Parsed++
			}
		}
		cp.Numeric = cp.NonEmpty > 0 && cp.Fraction() >= minFrac
		cp.Percent = cp.Numeric && looksLikePercent(col)
		prof.byName[col] = len(prof.Columns)
		prof.Columns = append(prof.Columns, cp)
	}
	return prof
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func looksLikePercent(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "%") || strings.Contains(n, "percent")
}
