package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.PercentThreshold != analysis.DefaultProportionThreshold {
		t.Fatalf("percent_threshold = %v", c.PercentThreshold)
	}
	if c.TableMaxRows != analysis.DefaultTableMaxRows || c.MemoSize != analysis.DefaultMemoSize {
		t.Fatalf("defaults = %+v", c)
	}
	if !reflect.DeepEqual(c.WidthOptions(), analysis.DefaultWidthOptions()) {
		t.Fatalf("width options = %+v", c.WidthOptions())
	}
	if c.Eligibility() != analysis.DefaultEligibility() {
		t.Fatalf("eligibility = %+v", c.Eligibility())
	}
}

func TestDefaultMatchesLoadedDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Fatalf("Load() = %+v, Default() = %+v", c, Default())
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	content := "percent_threshold: 1.0\ntable_max_rows: 50\ncandidates:\n  viewer_count: [Watchers]\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("COURSECHARTS_TABLE_MAX_ROWS", "25")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.PercentThreshold != 1.0 {
		t.Fatalf("file value ignored: %v", c.PercentThreshold)
	}
	if c.TableMaxRows != 25 {
		t.Fatalf("env must override file, got %d", c.TableMaxRows)
	}
	s, err := c.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if got := s.Candidates[analysis.FieldViewerCount]; !reflect.DeepEqual(got, []string{"Watchers"}) {
		t.Fatalf("viewer candidates = %v", got)
	}
	if got := s.Candidates[analysis.FieldModuleName]; len(got) == 0 {
		t.Fatalf("untouched fields keep defaults")
	}
	if s.Percent.ProportionThreshold != 1.0 {
		t.Fatalf("schema threshold = %v", s.Percent.ProportionThreshold)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Global)
		want string
	}{
		{"threshold", func(c *Global) { c.PercentThreshold = 0 }, "PercentThreshold"},
		{"fraction", func(c *Global) { c.EligibilityMinFraction = 1.2 }, "EligibilityMinFraction"},
		{"widths", func(c *Global) { c.WidthTextMax = c.WidthMin - 1 }, "WidthTextMax"},
		{"font", func(c *Global) { c.WidthFont = "comic" }, "WidthFont"},
		{"unknown field", func(c *Global) { c.Candidates = map[string][]string{"shoe_size": {"x"}} }, "shoe_size"},
		{"empty list", func(c *Global) { c.Candidates = map[string][]string{"viewer_count": {}} }, "Candidates"},
	}
	for _, tc := range cases {
		c := Default()
		tc.mut(c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err = %v, want mention of %q", tc.name, err, tc.want)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestSetAndSave(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c := Default()
	if err := c.Set("width_font", "Inconsolata8x16"); err != nil {
		t.Fatalf("set font: %v", err)
	}
	if err := c.Set("candidates.total_students", "Roster, Enrolled"); err != nil {
		t.Fatalf("set candidates: %v", err)
	}
	if err := c.Set("table_max_rows", "x"); err == nil {
		t.Fatalf("expected int error")
	}
	if err := c.Set("nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if err := c.Set("candidates.nope", "a"); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.WidthFont != analysis.FontInconsolata8x16 {
		t.Fatalf("font = %q", loaded.WidthFont)
	}
	if got := loaded.Candidates["total_students"]; !reflect.DeepEqual(got, []string{"Roster", "Enrolled"}) {
		t.Fatalf("candidates = %v", got)
	}
}
