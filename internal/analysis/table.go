package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TableOptions controls the table projection.
type TableOptions struct {
	// Columns is the desired column list; empty shows every column.
	Columns []string
	// PercentColumns forces percent formatting. When nil, profiled numeric columns
	// whose header looks like a percentage are formatted as percent.
	PercentColumns []string
	// MaxRows is the display row limit; 0 means DefaultTableMaxRows.
	MaxRows     int
	Percent     PercentPolicy
	Eligibility Eligibility
	Width       WidthOptions
	Locale      string
}

// DefaultTableMaxRows is the display row limit when none is configured.
const DefaultTableMaxRows = 500

// DefaultTableOptions returns the defaults for the table surface.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		MaxRows:     DefaultTableMaxRows,
		Percent:     DefaultPercentPolicy(),
		Eligibility: DefaultEligibility(),
		Width:       DefaultWidthOptions(),
	}
}

// TableColumn describes one displayed column.
type TableColumn struct {
	Name     string         `json:"name"`
	Kind     FieldKind      `json:"-"`
	KindName string         `json:"kind"`
	Category ColumnCategory `json:"-"`
	Width    int            `json:"width"`
}

// Table is the render-ready projection for a generic tabular widget.
type Table struct {
	Columns   []TableColumn `json:"columns"`
	Rows      [][]string    `json:"rows"`
	TotalRows int           `json:"totalRows"`
	Message   string        `json:"message,omitempty"`
}

// Truncated reports whether rows were cut by the display limit.
func (t Table) Truncated() bool { return len(t.Rows) < t.TotalRows }

// BuildTable selects columns, types them, formats up to MaxRows rows, and sizes
// each column. The row set is not modified.
func BuildTable(rs *RowSet, opt TableOptions) Table {
	if rs.Len() == 0 {
		return Table{Message: NoDataMessage}
	}
	limit := opt.MaxRows
	if limit <= 0 {
		limit = DefaultTableMaxRows
	}
	prof := ProfileColumns(rs, opt.Eligibility)
	cols := SelectColumns(rs.Columns, opt.Columns)

	var forced map[string]struct{}
	if opt.PercentColumns != nil {
		forced = make(map[string]struct{}, len(opt.PercentColumns))
		for _, c := range opt.PercentColumns {
			forced[c] = struct{}{}
		}
	}
	t := Table{TotalRows: rs.Len()}
	for _, name := range cols {
		kind := KindText
		if forced != nil {
			if _, ok := forced[name]; ok {
				kind = KindPercent
			} else if prof.IsNumeric(name) {
				kind = KindNumeric
			}
		} else if cp, ok := prof.Get(name); ok && cp.Numeric {
			kind = KindNumeric
			if cp.Percent {
				kind = KindPercent
			}
		}
		t.Columns = append(t.Columns, TableColumn{
			Name:     name,
			Kind:     kind,
			KindName: kind.String(),
			Category: CategorizeColumn(name),
		})
	}

	f := NewFormatter(opt.Percent, opt.Locale)
	n := min(limit, rs.Len())
	t.Rows = make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = f.Format(c.Kind, rs.Rows[i][c.Name])
		}
		t.Rows = append(t.Rows, row)
	}

	cells := make([]string, len(t.Rows))
	for j := range t.Columns {
		for i := range t.Rows {
			cells[i] = t.Rows[i][j]
		}
		t.Columns[j].Width = EstimateWidth(t.Columns[j].Name, cells, t.Columns[j].Category, opt.Width)
	}
	return t
}

// Markdown renders the table as a GitHub-flavored markdown table.
func (t Table) Markdown() string {
	var b strings.Builder
	if len(t.Columns) == 0 {
		msg := t.Message
		if msg == "" {
			msg = NoDataMessage
		}
		b.WriteString(msg)
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("| ")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c.Name))
	}
	b.WriteString(" |\n| ")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		if c.Kind == KindText {
			b.WriteString("---")
		} else {
			b.WriteString("---:")
		}
	}
	b.WriteString(" |\n")
	for _, row := range t.Rows {
		b.WriteString("| ")
		for i := range t.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			b.WriteString(safeVal(truncateRunes(val, 80)))
		}
		b.WriteString(" |\n")
	}
	if t.Truncated() {
		b.WriteString(fmt.Sprintf("\n_Showing %d of %d rows._\n", len(t.Rows), t.TotalRows))
	}
	return b.String()
}

// truncateRunes shortens s to at most n runes, ending in "..." when cut.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
