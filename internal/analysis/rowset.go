package analysis

import (
	"github.com/google/uuid"
)

// RawRow is one untyped record from an analytics export. Values are strings,
// numbers, or nil; the key set varies between export versions.
type RawRow map[string]any

// RowSet is an immutable collection of rows with a stable identity.
type RowSet struct {
	// ID identifies this exact row collection; memoized results are keyed by it.
	ID string
	// Columns lists headers in display order.
	Columns []string
	Rows    []RawRow

	keys KeySet
}

// NewRowSet copies rows into a new RowSet. When columns is empty the header order
// is the order in which keys first appear, with keys of a row taken in lexical order.
func NewRowSet(columns []string, rows []RawRow) *RowSet {
	cp := make([]RawRow, len(rows))
	keys := KeySet{}
	for i, r := range rows {
		nr := make(RawRow, len(r))
		for k, v := range r {
			nr[k] = v
			keys[k] = struct{}{}
		}
		cp[i] = nr
	}
	var cols []string
	seen := map[string]struct{}{}
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		for _, r := range cp {
			for _, k := range KeysOf(r).Sorted() {
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	return &RowSet{
		ID:      uuid.NewString(),
		Columns: cols,
		Rows:    cp,
		keys:    keys,
	}
}

// Len reports the number of rows; a nil RowSet has none.
func (rs *RowSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Keys returns the union of keys over all rows. Empty for an empty set.
func (rs *RowSet) Keys() KeySet {
	if rs == nil || len(rs.Rows) == 0 {
		return KeySet{}
	}
	return rs.keys
}

// Value returns the raw cell for column in row i, or nil.
func (rs *RowSet) Value(i int, column string) any {
	if rs == nil || i < 0 || i >= len(rs.Rows) || column == "" {
		return nil
	}
	return rs.Rows[i][column]
}
