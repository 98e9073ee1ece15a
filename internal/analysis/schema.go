package analysis

import (
	"sort"
	"strings"
)

// CanonicalField identifies a semantic column independent of the export's header text.
type CanonicalField string

const (
	FieldModuleName             CanonicalField = "module_name"
	FieldAssignmentName         CanonicalField = "assignment_name"
	FieldStudentName            CanonicalField = "student_name"
	FieldViewerCount            CanonicalField = "viewer_count"
	FieldTotalStudents          CanonicalField = "total_students"
	FieldAverageViewPercent     CanonicalField = "average_view_percent"
	FieldOverallViewPercent     CanonicalField = "overall_view_percent"
	FieldTurnedInPercent        CanonicalField = "turned_in_percent"
	FieldAverageScore           CanonicalField = "average_score"
	FieldExcludingZeroesAverage CanonicalField = "excluding_zeroes_average"
	FieldDuration               CanonicalField = "duration"
)

// AllFields lists every canonical field in a stable order.
var AllFields = []CanonicalField{
	FieldModuleName,
	FieldAssignmentName,
	FieldStudentName,
	FieldViewerCount,
	FieldTotalStudents,
	FieldAverageViewPercent,
	FieldOverallViewPercent,
	FieldTurnedInPercent,
	FieldAverageScore,
	FieldExcludingZeroesAverage,
	FieldDuration,
}

// ParseField maps a config key such as "viewer_count" to its CanonicalField.
func ParseField(s string) (CanonicalField, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, f := range AllFields {
		if string(f) == key {
			return f, true
		}
	}
	return "", false
}

// ColumnCandidateMap holds, per canonical field, the ordered header names accepted for it.
type ColumnCandidateMap map[CanonicalField][]string

// DefaultCandidates returns the header variants seen across gradebook and video exports.
func DefaultCandidates() ColumnCandidateMap {
	return ColumnCandidateMap{
		FieldModuleName:             {"Module", "Module Name", "Video Title", "Title", "Name"},
		FieldAssignmentName:         {"Assignment", "Assignment Name", "Title", "Name"},
		FieldStudentName:            {"Student", "Student Name", "Name"},
		FieldViewerCount:            {"# of Students Viewing", "Students Viewing", "Unique Viewers", "Viewers"},
		FieldTotalStudents:          {"# of Students", "Total Students", "Enrolled Students", "Students"},
		FieldAverageViewPercent:     {"Average View %", "Avg View %", "Average Percent Viewed", "Average View Percentage"},
		FieldOverallViewPercent:     {"Overall View %", "% of Students Viewing", "Percent Viewed"},
		FieldTurnedInPercent:        {"% Turned In", "Turned In %", "Percent Turned In"},
		FieldAverageScore:           {"Average", "Average Score", "Mean Score"},
		FieldExcludingZeroesAverage: {"Average Excluding Zeroes", "Avg Excluding Zeros", "Excluding Zeroes Average"},
		FieldDuration:               {"Duration", "Video Length", "Length"},
	}
}

// Merge returns a copy of m where every field present in override replaces the default list.
func (m ColumnCandidateMap) Merge(override ColumnCandidateMap) ColumnCandidateMap {
	out := make(ColumnCandidateMap, len(m)+len(override))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range override {
		if len(v) == 0 {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

// KeySet is the set of column names present in a row or a row set.
type KeySet map[string]struct{}

// KeysOf returns the key set of a single row.
func KeysOf(row RawRow) KeySet {
	ks := make(KeySet, len(row))
	for k := range row {
		ks[k] = struct{}{}
	}
	return ks
}

// Sorted returns the keys in lexical order.
func (ks KeySet) Sorted() []string {
	out := make([]string, 0, len(ks))
	for k := range ks {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResolveField returns the first candidate present in keys. A nil or empty key set
// resolves to ("", false) without consulting candidates.
func ResolveField(keys KeySet, candidates []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	for _, c := range candidates {
		if _, ok := keys[c]; ok {
			return c, true
		}
	}
	return "", false
}

// Resolution records which header each canonical field resolved to for one row set.
type Resolution map[CanonicalField]string

// Column returns the resolved header for f.
func (r Resolution) Column(f CanonicalField) (string, bool) {
	c, ok := r[f]
	return c, ok
}

// Resolve resolves every field of candidates against the row set's key set.
// Unresolved fields are absent from the result.
func Resolve(rs *RowSet, candidates ColumnCandidateMap) Resolution {
	out := Resolution{}
	keys := rs.Keys()
	for f, list := range candidates {
		if col, ok := ResolveField(keys, list); ok {
			out[f] = col
		}
	}
	return out
}
