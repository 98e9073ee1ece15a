package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultMemoSize bounds the number of cached projections.
const DefaultMemoSize = 128

type memoKey struct {
	RowSet string
	Kind   string
	Config uint64
}

// Memo caches projections keyed by row-set identity plus a hash of the active
// configuration. It is owned by the caller: changing rows means a new RowSet and
// therefore a new key, and Invalidate drops everything cached for a row set.
// Cached values are shared; callers must treat them as read-only.
type Memo struct {
	cache *lru.Cache[memoKey, any]
	log   zerolog.Logger
}

// NewMemo creates a memo store holding at most size entries.
func NewMemo(size int, logger zerolog.Logger) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	c, err := lru.New[memoKey, any](size)
	if err != nil {
		return nil, fmt.Errorf("create memo cache: %w", err)
	}
	return &Memo{cache: c, log: logger}, nil
}

// Chart returns the memoized chart projection for rs under opt.
func (m *Memo) Chart(rs *RowSet, opt ChartOptions) ChartData {
	k := memoKey{RowSet: rowSetID(rs), Kind: "chart", Config: HashChartOptions(opt)}
	if v, ok := m.lookup(k); ok {
		return v.(ChartData)
	}
	cd := ProjectChart(rs, opt)
	m.store(k, cd)
	return cd
}

// Table returns the memoized table projection for rs under opt.
func (m *Memo) Table(rs *RowSet, opt TableOptions) Table {
	k := memoKey{RowSet: rowSetID(rs), Kind: "table", Config: HashTableOptions(opt)}
	if v, ok := m.lookup(k); ok {
		return v.(Table)
	}
	t := BuildTable(rs, opt)
	m.store(k, t)
	return t
}

// Profile returns the memoized column profile for rs.
func (m *Memo) Profile(rs *RowSet, e Eligibility) Profile {
	h := newHasher()
	h.putInt(e.SampleRows)
	h.putFloat(e.MinFraction)
	k := memoKey{RowSet: rowSetID(rs), Kind: "profile", Config: h.sum()}
	if v, ok := m.lookup(k); ok {
		return v.(Profile)
	}
	p := ProfileColumns(rs, e)
	m.store(k, p)
	return p
}

// Invalidate drops every entry cached for the row set id and reports how many.
func (m *Memo) Invalidate(rowSetID string) int {
	n := 0
	for _, k := range m.cache.Keys() {
		if k.RowSet == rowSetID && m.cache.Remove(k) {
			n++
		}
	}
	m.log.Debug().Str("row_set", rowSetID).Int("removed", n).Msg("memo invalidated")
	return n
}

// Purge empties the store.
func (m *Memo) Purge() { m.cache.Purge() }

// Len reports the number of cached entries.
func (m *Memo) Len() int { return m.cache.Len() }

func (m *Memo) lookup(k memoKey) (any, bool) {
	v, ok := m.cache.Get(k)
	if ok {
		m.log.Debug().Str("row_set", k.RowSet).Str("kind", k.Kind).Msg("memo hit")
	} else {
		m.log.Debug().Str("row_set", k.RowSet).Str("kind", k.Kind).Msg("memo miss")
	}
	return v, ok
}

func (m *Memo) store(k memoKey, v any) {
	if evicted := m.cache.Add(k, v); evicted {
		m.log.Debug().Str("kind", k.Kind).Msg("memo evicted oldest entry")
	}
}

func rowSetID(rs *RowSet) string {
	if rs == nil {
		return ""
	}
	return rs.ID
}

// HashChartOptions hashes every option that changes a chart projection.
func HashChartOptions(opt ChartOptions) uint64 {
	h := newHasher()
	h.putSchema(opt.Schema)
	h.putStr(opt.CategoryKey)
	h.putStr(string(opt.LabelField))
	h.putStr(string(opt.ViewerField))
	h.putStr(string(opt.TotalField))
	h.putInt(len(opt.Trends))
	for _, t := range opt.Trends {
		h.putStr(t.Key)
		h.putStr(t.Label)
		h.putStr(string(t.Field))
	}
	h.putInt(opt.TotalHint)
	return h.sum()
}

// HashTableOptions hashes every option that changes a table projection.
func HashTableOptions(opt TableOptions) uint64 {
	h := newHasher()
	h.putStrs(opt.Columns)
	if opt.PercentColumns == nil {
		h.putStr("<auto>")
	} else {
		h.putStrs(opt.PercentColumns)
	}
	h.putInt(opt.MaxRows)
	h.putFloat(opt.Percent.threshold())
	h.putInt(opt.Eligibility.SampleRows)
	h.putFloat(opt.Eligibility.MinFraction)
	w := opt.Width
	h.putStr(fmt.Sprintf("%p", w.Face))
	h.putInt(w.Min)
	h.putInt(w.TextMax)
	h.putInt(w.NumericMax)
	h.putInt(w.Padding)
	h.putInt(w.SampleRows)
	h.putStr(opt.Locale)
	return h.sum()
}

type hasher struct{ d *xxhash.Digest }

func newHasher() hasher { return hasher{d: xxhash.New()} }

func (h hasher) putStr(s string) {
	_, _ = h.d.WriteString(strconv.Itoa(len(s)))
	_, _ = h.d.WriteString(":")
	_, _ = h.d.WriteString(s)
}

func (h hasher) putStrs(ss []string) {
	h.putInt(len(ss))
	for _, s := range ss {
		h.putStr(s)
	}
}

func (h hasher) putInt(i int) { h.putStr(strconv.Itoa(i)) }

func (h hasher) putFloat(f float64) { h.putStr(strconv.FormatUint(math.Float64bits(f), 16)) }

func (h hasher) putSchema(s Schema) {
	fields := make([]string, 0, len(s.Candidates))
	for f := range s.Candidates {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	h.putInt(len(fields))
	for _, f := range fields {
		h.putStr(f)
		h.putStrs(s.Candidates[CanonicalField(f)])
	}
	kinds := make([]string, 0, len(s.Kinds))
	for f, k := range s.Kinds {
		kinds = append(kinds, string(f)+"="+k.String())
	}
	sort.Strings(kinds)
	h.putStrs(kinds)
	h.putFloat(s.Percent.threshold())
}

func (h hasher) sum() uint64 { return h.d.Sum64() }
