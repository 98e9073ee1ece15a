package analysis

import "testing"

func TestSummarize(t *testing.T) {
	got := Summarize(videoRows(), DefaultPercentPolicy(), DefaultEligibility())
	if len(got) != 4 {
		t.Fatalf("summaries = %d", len(got))
	}
	views := got[1]
	if views.Name != "Views" || views.Kind != "numeric" || views.Parsed != 2 {
		t.Fatalf("views = %+v", views)
	}
	if views.Min != Some(18) || views.Max != Some(1234) || views.Mean != Some(626) || views.Median != Some(626) {
		t.Fatalf("views stats = %+v", views)
	}
	if avg := got[2]; avg.Kind != "text" || avg.Mean.Valid {
		t.Fatalf("ineligible column must not get stats: %+v", avg)
	}
}

func TestSummarizePercentScale(t *testing.T) {
	rs := NewRowSet(nil, []RawRow{
		{"Percent Viewed": 0.5},
		{"Percent Viewed": "70%"},
		{"Percent Viewed": 0.9},
	})
	got := Summarize(rs, DefaultPercentPolicy(), DefaultEligibility())
	s := got[0]
	if s.Kind != "percent" || s.Min != Some(50) || s.Max != Some(90) || s.Median != Some(70) {
		t.Fatalf("percent summary = %+v", s)
	}
	if empty := Summarize(NewRowSet(nil, nil), DefaultPercentPolicy(), DefaultEligibility()); len(empty) != 0 {
		t.Fatalf("empty row set = %+v", empty)
	}
}
