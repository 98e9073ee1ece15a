package analysis

import (
	"github.com/montanaflynn/stats"
)

// ColumnSummary describes one column of a row set: its eligibility outcome and,
// for numeric columns, descriptive statistics over the parseable cells. Percent
// columns are summarized on the 0..100 scale.
type ColumnSummary struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	NonEmpty int     `json:"nonEmpty"`
	Parsed   int     `json:"parsed"`
	Fraction float64 `json:"parsedFraction"`
	Min      Num     `json:"min"`
	Max      Num     `json:"max"`
	Mean     Num     `json:"mean"`
	Median   Num     `json:"median"`
}

// Summarize profiles every column of rs. Statistics cover all rows, not only the
// eligibility sample.
func Summarize(rs *RowSet, p PercentPolicy, e Eligibility) []ColumnSummary {
	prof := ProfileColumns(rs, e)
	out := make([]ColumnSummary, 0, len(prof.Columns))
	for _, cp := range prof.Columns {
		s := ColumnSummary{
			Name:     cp.Name,
			Kind:     KindText.String(),
			NonEmpty: cp.NonEmpty,
			Parsed:   cp.Parsed,
			Fraction: cp.Fraction(),
		}
		if cp.Numeric {
			s.Kind = KindNumeric.String()
			if cp.Percent {
				s.Kind = KindPercent.String()
			}
			var data stats.Float64Data
			for i := 0; i < rs.Len(); i++ {
				n := Coerce(rs.Rows[i][cp.Name])
				if cp.Percent {
					n = p.Normalize(n)
				}
				if n.Valid {
					data = append(data, n.Value)
				}
			}
			s.Min = statNum(data.Min())
			s.Max = statNum(data.Max())
			s.Mean = statNum(data.Mean())
			s.Median = statNum(data.Median())
		}
		out = append(out, s)
	}
	return out
}

func statNum(v float64, err error) Num {
	if err != nil {
		return None
	}
	return finite(v)
}
