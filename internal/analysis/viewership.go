package analysis

import "math"

// Viewership is the derived viewed / not-viewed split for one video module.
// When Valid is true, Viewed+NotViewed == Total and 0 <= Viewed <= Total.
type Viewership struct {
	Viewed    int  `json:"viewed"`
	NotViewed int  `json:"notViewed"`
	Total     int  `json:"total"`
	Valid     bool `json:"-"`
}

// ComputeViewership derives counts from a raw viewer count, an authoritative
// course-level total (totalHint > 0) and the row's own student count.
//
// With a hint, the hint is the total and the viewer count is clamped into it.
// Without one, the total is the larger of the two row counts. A missing viewer
// count is read as zero as long as some total is known; with nothing known the
// result is invalid and callers omit the bars for that category.
func ComputeViewership(rawViewers Num, totalHint int, perRowStudents Num) Viewership {
	if totalHint > 0 {
		viewed := 0
		if rawViewers.Valid {
			viewed = clampInt(roundInt(rawViewers.Value), 0, totalHint)
		}
		return Viewership{
			Viewed:    viewed,
			NotViewed: totalHint - viewed,
			Total:     totalHint,
			Valid:     true,
		}
	}
	if !rawViewers.Valid && !perRowStudents.Valid {
		return Viewership{}
	}
	raw := 0.0
	if rawViewers.Valid {
		raw = rawViewers.Value
	}
	students := 0.0
	if perRowStudents.Valid {
		students = perRowStudents.Value
	}
	total := roundInt(math.Max(raw, students))
	if total < 0 {
		total = 0
	}
	viewed := clampInt(roundInt(raw), 0, total)
	notViewed := total - viewed
	if notViewed < 0 {
		notViewed = 0
	}
	return Viewership{Viewed: viewed, NotViewed: notViewed, Total: total, Valid: true}
}

// roundInt rounds half up and saturates at the int range.
func roundInt(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Floor(v + 0.5)
	if r >= math.MaxInt {
		return math.MaxInt
	}
	if r <= math.MinInt {
		return math.MinInt
	}
	return int(r)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
