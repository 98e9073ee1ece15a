package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so sticky values and Changed state
// do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and return its output.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const videoExport = `[
  {"Module": "Week 1", "# of Students Viewing": "18", "# of Students": "20", "Average View %": "0.75"},
  {"Module": "Week 2", "# of Students Viewing": "12", "# of Students": "20", "Average View %": ""},
  {"Module": "Week 3", "# of Students Viewing": null, "# of Students": null, "Average View %": "65%"}
]`

func TestCLI_ChartJSON(t *testing.T) {
	home := setupHome(t)
	p := writeFile(t, home, "video.json", videoExport)

	out := runCmd(t, "chart", p, "--total", "20")
	var got struct {
		Categories    []string         `json:"categories"`
		Points        []map[string]any `json:"points"`
		ShowStacked   bool             `json:"showStacked"`
		CountDomain   [2]float64       `json:"countDomain"`
		ReferenceLine *float64         `json:"referenceLine"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got.Categories) != 3 || got.Categories[2] != "Week 3" {
		t.Fatalf("categories = %v", got.Categories)
	}
	if !got.ShowStacked || got.CountDomain[1] != 25 {
		t.Fatalf("stacked=%v domain=%v", got.ShowStacked, got.CountDomain)
	}
	if got.ReferenceLine == nil || *got.ReferenceLine != 20 {
		t.Fatalf("reference line = %v", got.ReferenceLine)
	}
	// The hint makes week 3 fully "not viewed".
	if got.Points[2]["notViewed"] != float64(20) || got.Points[0]["avgViewPct"] != float64(75) {
		t.Fatalf("points = %v", got.Points)
	}
	if _, ok := got.Points[1]["avgViewPct"]; ok {
		t.Fatalf("null percent must be omitted: %v", got.Points[1])
	}
}

func TestCLI_ChartMermaidAndPNG(t *testing.T) {
	home := setupHome(t)
	p := writeFile(t, home, "video.json", videoExport)

	md := filepath.Join(home, "video.md")
	out := runCmd(t, "chart", p, "--format", "mermaid", "-o", md, "--title", "Week report")
	if !strings.Contains(out, "✓ Wrote") {
		t.Fatalf("missing status line: %q", out)
	}
	b, err := os.ReadFile(md)
	if err != nil {
		t.Fatalf("read mermaid: %v", err)
	}
	if !strings.Contains(string(b), "xychart-beta") || !strings.Contains(string(b), "Week report") {
		t.Fatalf("mermaid = %s", b)
	}

	runCmd(t, "chart", p, "--format", "png", "-o", filepath.Join(home, "video.png"))
	for _, name := range []string{"video-counts.png", "video-trends.png"} {
		if _, err := os.Stat(filepath.Join(home, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	if _, err := execCmd(t, "chart", p, "--format", "png"); err == nil {
		t.Fatalf("png without -o must fail")
	}
	if _, err := execCmd(t, "chart", p, "--preset", "nope"); err == nil {
		t.Fatalf("unknown preset must fail")
	}
}

func TestCLI_ChartGradebookFallback(t *testing.T) {
	home := setupHome(t)
	p := writeFile(t, home, "grades.yaml", `- {Assignment: Quiz 1, "% Turned In": 0.9, Average: 81}
- {Assignment: Quiz 2, "% Turned In": 0.8, Average: 77}
`)
	out := runCmd(t, "chart", p, "--preset", "gradebook")
	if !strings.Contains(out, `"message": "Viewer counts are not available for this export."`) {
		t.Fatalf("fallback message missing:\n%s", out)
	}
	if !strings.Contains(out, `"Assignment": "Quiz 2"`) {
		t.Fatalf("category key missing:\n%s", out)
	}
}

func TestCLI_Table(t *testing.T) {
	home := setupHome(t)
	p := writeFile(t, home, "video.json", videoExport)

	out := runCmd(t, "table", p, "--format", "markdown")
	if !strings.HasPrefix(out, "| Module | # of Students Viewing | # of Students | Average View % |") {
		t.Fatalf("markdown header:\n%s", out)
	}

	out = runCmd(t, "table", p, "--columns", "Module,Average View %", "--percent-cols", "Average View %")
	if !strings.Contains(out, "75.0%") || !strings.Contains(out, "65.0%") {
		t.Fatalf("text table:\n%s", out)
	}
	if strings.Contains(out, "# of Students") {
		t.Fatalf("unselected column rendered:\n%s", out)
	}

	out = runCmd(t, "table", p, "--max-rows", "1")
	if !strings.Contains(out, "Showing 1 of 3 rows.") {
		t.Fatalf("row limit footer missing:\n%s", out)
	}

	js := filepath.Join(home, "table.json")
	runCmd(t, "table", p, "--format", "json", "-o", js)
	b, err := os.ReadFile(js)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var tbl struct {
		Columns []struct {
			Name  string `json:"name"`
			Kind  string `json:"kind"`
			Width int    `json:"width"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(b, &tbl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tbl.Columns) != 4 || tbl.Columns[0].Width < 72 {
		t.Fatalf("columns = %+v", tbl.Columns)
	}
}

func TestCLI_Viewership(t *testing.T) {
	setupHome(t)
	out := runCmd(t, "viewership", "--viewers", "1,234", "--students", "2000")
	if !strings.Contains(out, "Viewed 1,234, not viewed 766 of 2,000 students") {
		t.Fatalf("viewership = %q", out)
	}
	out = runCmd(t, "viewership", "--viewers", "30", "--total", "25", "--json")
	if !strings.Contains(out, `"viewed": 25`) || !strings.Contains(out, `"notViewed": 0`) {
		t.Fatalf("clamped json = %q", out)
	}
	out = runCmd(t, "viewership", "--viewers", "n/a")
	if !strings.Contains(out, "Viewer counts are not available") {
		t.Fatalf("invalid viewership = %q", out)
	}
}

func TestCLI_Batch(t *testing.T) {
	home := setupHome(t)
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeFile(t, d, "video.json", videoExport)
	}
	outDir := filepath.Join(home, "out")
	out := runCmd(t, "batch", filepath.Join(home, "d*", "video.json"), "--out-dir", outDir, "--format", "markdown", "--concurrency", "2")
	if strings.Count(out, "✓") != 2 {
		t.Fatalf("status lines:\n%s", out)
	}
	for _, name := range []string{"video.table.md", "video__2.table.md"} {
		b, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !strings.Contains(string(b), "| Week 1 |") {
			t.Fatalf("%s = %s", name, b)
		}
	}

	bad := writeFile(t, home, "bad.json", "[]")
	if _, err := execCmd(t, "batch", bad, "--out-dir", outDir); err == nil {
		t.Fatalf("empty input must fail the batch")
	}
	if _, err := execCmd(t, "batch", filepath.Join(home, "nothing*.json")); err == nil {
		t.Fatalf("no matches must fail")
	}
}

func TestCLI_ConfigCandidatesOverride(t *testing.T) {
	home := setupHome(t)
	runCmd(t, "config", "init")
	if _, err := os.Stat(filepath.Join(home, ".coursecharts", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := execCmd(t, "config", "init"); err == nil {
		t.Fatalf("second init without --force must fail")
	}
	runCmd(t, "config", "set", "candidates.viewer_count", "Watchers")
	runCmd(t, "config", "set", "percent_threshold", "1.0")

	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "percent_threshold: 1\n") || !strings.Contains(out, "viewer_count: Watchers") {
		t.Fatalf("show:\n%s", out)
	}

	p := writeFile(t, home, "renamed.json", `[{"Module": "A", "Watchers": 3, "Students": 4}]`)
	out = runCmd(t, "chart", p)
	if !strings.Contains(out, `"viewed": 3`) {
		t.Fatalf("override not applied:\n%s", out)
	}
	if _, err := execCmd(t, "config", "set", "bogus", "1"); err == nil {
		t.Fatalf("unknown key must fail")
	}
}

func TestCLI_ProfileAndHTML(t *testing.T) {
	home := setupHome(t)
	p := writeFile(t, home, "video.json", videoExport)

	out := runCmd(t, "profile", p)
	if !strings.Contains(out, "3 rows, 4 columns") {
		t.Fatalf("profile footer:\n%s", out)
	}
	out = runCmd(t, "profile", p, "--json")
	var sums []struct {
		Name string   `json:"name"`
		Kind string   `json:"kind"`
		Max  *float64 `json:"max"`
	}
	if err := json.Unmarshal([]byte(out), &sums); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if sums[1].Kind != "numeric" || sums[1].Max == nil || *sums[1].Max != 18 {
		t.Fatalf("viewer summary = %+v", sums[1])
	}
	if sums[3].Kind != "percent" || *sums[3].Max != 75 {
		t.Fatalf("percent summary = %+v", sums[3])
	}

	out = runCmd(t, "table", p, "--format", "html")
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<td>Week 1</td>") {
		t.Fatalf("html:\n%s", out)
	}
}
