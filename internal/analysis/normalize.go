package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind classifies how a value is typed and displayed.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumeric
	KindPercent
	KindCount
)

func (k FieldKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindPercent:
		return "percent"
	case KindCount:
		return "count"
	default:
		return "text"
	}
}

// DefaultFieldKinds types each canonical field.
func DefaultFieldKinds() map[CanonicalField]FieldKind {
	return map[CanonicalField]FieldKind{
		FieldModuleName:             KindText,
		FieldAssignmentName:         KindText,
		FieldStudentName:            KindText,
		FieldViewerCount:            KindCount,
		FieldTotalStudents:          KindCount,
		FieldAverageViewPercent:     KindPercent,
		FieldOverallViewPercent:     KindPercent,
		FieldTurnedInPercent:        KindPercent,
		FieldAverageScore:           KindPercent,
		FieldExcludingZeroesAverage: KindPercent,
		FieldDuration:               KindNumeric,
	}
}

// Schema is the configuration shared by every projection: which headers map to
// which fields, how each field is typed, and the percent scale policy.
type Schema struct {
	Candidates ColumnCandidateMap
	Kinds      map[CanonicalField]FieldKind
	Percent    PercentPolicy
}

// DefaultSchema returns the built-in candidate lists and kinds.
func DefaultSchema() Schema {
	return Schema{
		Candidates: DefaultCandidates(),
		Kinds:      DefaultFieldKinds(),
		Percent:    DefaultPercentPolicy(),
	}
}

// KindOf returns the configured kind of f, KindText when unknown.
func (s Schema) KindOf(f CanonicalField) FieldKind {
	if k, ok := s.Kinds[f]; ok {
		return k
	}
	return KindText
}

// NormalizedRecord holds the typed values of one row. Percent fields are on the
// 0..100 scale, counts are non-negative integers, and unresolved or unparsable
// fields are null.
type NormalizedRecord struct {
	Values map[CanonicalField]Num
	Text   map[CanonicalField]string
}

// Num returns the numeric value of f, null when absent.
func (r NormalizedRecord) Num(f CanonicalField) Num {
	return r.Values[f]
}

// Label returns the text value of f, empty when absent.
func (r NormalizedRecord) Label(f CanonicalField) string {
	return r.Text[f]
}

// Normalize resolves the schema against rs and types every row. The input is not modified.
func Normalize(rs *RowSet, s Schema) (Resolution, []NormalizedRecord) {
	res := Resolve(rs, s.Candidates)
	out := make([]NormalizedRecord, 0, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		rec := NormalizedRecord{Values: map[CanonicalField]Num{}, Text: map[CanonicalField]string{}}
		for f, col := range res {
			raw := rs.Value(i, col)
			switch s.KindOf(f) {
			case KindText:
				rec.Text[f] = TextValue(raw)
			case KindPercent:
				rec.Values[f] = s.Percent.CoercePercent(raw)
			case KindCount:
				rec.Values[f] = coerceCount(raw)
			default:
				rec.Values[f] = Coerce(raw)
			}
		}
		out = append(out, rec)
	}
	return res, out
}

func coerceCount(raw any) Num {
	n := Coerce(raw)
	if !n.Valid {
		return None
	}
	v := roundInt(n.Value)
	if v < 0 {
		v = 0
	}
	return Some(float64(v))
}

// TextValue renders a raw cell as display text; nil becomes "".
func TextValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case Num:
		if !v.Valid {
			return ""
		}
		return strconv.FormatFloat(v.Value, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
