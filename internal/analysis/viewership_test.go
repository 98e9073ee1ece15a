package analysis

import (
	"math"
	"testing"
)

func TestComputeViewership(t *testing.T) {
	cases := []struct {
		name     string
		raw      Num
		hint     int
		students Num
		want     Viewership
	}{
		{"hint", Some(25), 30, None, Viewership{25, 5, 30, true}},
		{"hint clamps over-report", Some(40), 30, None, Viewership{30, 0, 30, true}},
		{"hint clamps negative", Some(-3), 30, None, Viewership{0, 30, 30, true}},
		{"hint wins over row count", Some(10), 30, Some(12), Viewership{10, 20, 30, true}},
		{"hint without viewers", None, 30, None, Viewership{0, 30, 30, true}},
		{"row count", Some(18), 0, Some(20), Viewership{18, 2, 20, true}},
		{"row count below viewers", Some(22), 0, Some(20), Viewership{22, 0, 22, true}},
		{"rounding", Some(17.6), 0, Some(19.4), Viewership{18, 1, 19, true}},
		{"viewers only", Some(7), 0, None, Viewership{7, 0, 7, true}},
		{"students only", None, 0, Some(9), Viewership{0, 9, 9, true}},
		{"negative viewers", Some(-4), 0, None, Viewership{0, 0, 0, true}},
		{"nothing known", None, 0, None, Viewership{}},
		{"negative hint ignored", None, -5, None, Viewership{}},
		{"hint clamps huge over-report", Some(1e20), 30, None, Viewership{30, 0, 30, true}},
		{"hint clamps huge negative", Some(-1e20), 30, None, Viewership{0, 30, 30, true}},
		{"huge viewers saturate", Coerce("1e20"), 0, Coerce("30"), Viewership{math.MaxInt, 0, math.MaxInt, true}},
		{"huge negative viewers keep row count", Some(-1e20), 0, Some(30), Viewership{0, 30, 30, true}},
	}
	for _, tc := range cases {
		got := ComputeViewership(tc.raw, tc.hint, tc.students)
		if got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestViewershipInvariant(t *testing.T) {
	vals := []Num{None, Some(-2), Some(0), Some(0.4), Some(5), Some(19.5), Some(30), Some(1000), Some(1e20), Some(-1e20)}
	for _, raw := range vals {
		for _, students := range vals {
			for _, hint := range []int{0, 1, 20, 30} {
				v := ComputeViewership(raw, hint, students)
				if !v.Valid {
					continue
				}
				if v.Viewed < 0 || v.NotViewed < 0 || v.Total < 0 {
					t.Fatalf("negative count for raw=%+v students=%+v hint=%d: %+v", raw, students, hint, v)
				}
				if v.Viewed+v.NotViewed != v.Total || v.Viewed > v.Total {
					t.Fatalf("invariant broken for raw=%+v students=%+v hint=%d: %+v", raw, students, hint, v)
				}
			}
		}
	}
}
