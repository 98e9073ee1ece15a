package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/KaramelBytes/coursecharts-cli/internal/parser"
)

func TestLoadFileJSONPreservesColumnOrder(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "video.json")
	content := `[
  {"Module": "Week 1", "Viewers": 18, "Total Students": "20", "Average View %": 0.75},
  {"Module": "Week 2", "Viewers": null, "Total Students": "20", "Average View %": "62.5%", "Notes": "late"}
]`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rs, err := parser.LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"Module", "Viewers", "Total Students", "Average View %", "Notes"}
	if !reflect.DeepEqual(rs.Columns, want) {
		t.Fatalf("columns = %v, want %v", rs.Columns, want)
	}
	if rs.Len() != 2 {
		t.Fatalf("rows = %d", rs.Len())
	}
	if v := rs.Value(1, "Viewers"); v != nil {
		t.Fatalf("null cell = %#v", v)
	}
	if n := analysis.Coerce(rs.Value(0, "Viewers")); n != analysis.Some(18) {
		t.Fatalf("viewers = %+v", n)
	}
	if s := rs.Value(0, "Total Students"); s != "20" {
		t.Fatalf("quoted number must stay a string, got %#v", s)
	}
}

func TestLoadYAMLEnvelope(t *testing.T) {
	content := `columns: [Assignment, "% Turned In", Average]
rows:
  - [Quiz 1, 0.9, "82.5"]
  - [Quiz 2, 95%, ~]
`
	rs, err := parser.Load("grades.yaml", []byte(content))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(rs.Columns, []string{"Assignment", "% Turned In", "Average"}) {
		t.Fatalf("columns = %v", rs.Columns)
	}
	if rs.Value(1, "% Turned In") != "95%" || rs.Value(1, "Average") != nil {
		t.Fatalf("row 2 = %v", rs.Rows[1])
	}
	cd := analysis.ProjectChart(rs, analysis.GradebookChartOptions(analysis.DefaultSchema()))
	if got := cd.TrendValues("turnedInPct"); got[0] != analysis.Some(90) || got[1] != analysis.Some(95) {
		t.Fatalf("turned in = %+v", got)
	}
}

func TestLoadJSONEnvelopeWithObjects(t *testing.T) {
	content := `{"columns": ["b", "a"], "rows": [{"a": 1, "b": 2}]}`
	rs, err := parser.Load("x.json", []byte(content))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(rs.Columns, []string{"b", "a"}) {
		t.Fatalf("explicit columns must win, got %v", rs.Columns)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"unknown extension", "rows.csv", "a,b\n1,2\n", parser.ErrUnsupported},
		{"empty array", "rows.json", "[]", parser.ErrEmpty},
		{"blank file", "rows.json", "  \n", parser.ErrEmpty},
		{"blank yaml", "rows.yaml", "", parser.ErrEmpty},
		{"scalar", "rows.json", "42", parser.ErrUnsupported},
		{"object without rows", "rows.json", `{"columns": ["a"]}`, parser.ErrUnsupported},
		{"row is scalar", "rows.yaml", "- 1\n- 2\n", parser.ErrUnsupported},
		{"positional without columns", "rows.json", `[[1, 2]]`, parser.ErrUnsupported},
	}
	for _, tc := range cases {
		_, err := parser.Load(tc.file, []byte(tc.content))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if _, err := parser.Load("rows.json", []byte(`[{"a": 1`)); err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if _, err := parser.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
