package analysis

import (
	"encoding/json"
	"fmt"
	"math"
)

// Series keys on the count axis.
const (
	SeriesViewed    = "viewed"
	SeriesNotViewed = "notViewed"
	SeriesTotal     = "total"
)

// Axis names a chart axis.
type Axis string

const (
	AxisCount   Axis = "count"
	AxisPercent Axis = "percent"
)

// NoViewershipMessage replaces the stacked bars when no row has a viewed/not-viewed pair.
const NoViewershipMessage = "Viewer counts are not available for this export."

// NoDataMessage is shown for an empty row set.
const NoDataMessage = "No data to display."

// TrendField declares one percent-axis line.
type TrendField struct {
	Key   string
	Label string
	Field CanonicalField
}

// ChartOptions configures a projection. Everything that changes the output is here,
// so it doubles as the memo key material.
type ChartOptions struct {
	Schema Schema
	// CategoryKey names the label property in serialized points, e.g. "Module".
	CategoryKey string
	LabelField  CanonicalField
	// ViewerField and TotalField feed the stacked count pair; empty disables it.
	ViewerField CanonicalField
	TotalField  CanonicalField
	Trends      []TrendField
	// TotalHint is the authoritative enrollment; <= 0 means none.
	TotalHint int
}

// VideoChartOptions is the preset for video-engagement exports.
func VideoChartOptions(s Schema, totalHint int) ChartOptions {
	return ChartOptions{
		Schema:      s,
		CategoryKey: "Module",
		LabelField:  FieldModuleName,
		ViewerField: FieldViewerCount,
		TotalField:  FieldTotalStudents,
		Trends: []TrendField{
			{Key: "avgViewPct", Label: "Average View %", Field: FieldAverageViewPercent},
			{Key: "overallViewPct", Label: "Overall View %", Field: FieldOverallViewPercent},
		},
		TotalHint: totalHint,
	}
}

// GradebookChartOptions is the preset for gradebook summary exports.
func GradebookChartOptions(s Schema) ChartOptions {
	return ChartOptions{
		Schema:      s,
		CategoryKey: "Assignment",
		LabelField:  FieldAssignmentName,
		Trends: []TrendField{
			{Key: "turnedInPct", Label: "% Turned In", Field: FieldTurnedInPercent},
			{Key: "avgScorePct", Label: "Average", Field: FieldAverageScore},
			{Key: "avgExclZeroPct", Label: "Average Excluding Zeroes", Field: FieldExcludingZeroesAverage},
		},
	}
}

// SeriesSpec declares one rendered series.
type SeriesSpec struct {
	Key          string         `json:"key"`
	Label        string         `json:"label"`
	Axis         Axis           `json:"axis"`
	Field        CanonicalField `json:"field,omitempty"`
	Column       string         `json:"column,omitempty"`
	Stacked      bool           `json:"stacked,omitempty"`
	ConnectNulls bool           `json:"connectNulls,omitempty"`
}

// ChartSeriesPoint is one category with its count-axis and percent-axis values.
type ChartSeriesPoint struct {
	CategoryKey string
	Category    string
	Counts      map[string]Num
	Percents    map[string]Num
}

// MarshalJSON flattens the point into {CategoryKey: Category, key: value...}.
// Null values are omitted.
func (p ChartSeriesPoint) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 1+len(p.Counts)+len(p.Percents))
	key := p.CategoryKey
	if key == "" {
		key = "category"
	}
	m[key] = p.Category
	for k, v := range p.Counts {
		if v.Valid {
			m[k] = v.Value
		}
	}
	for k, v := range p.Percents {
		if v.Valid {
			m[k] = v.Value
		}
	}
	return json.Marshal(m)
}

// ChartData is the render-ready projection consumed by a composed bar+line chart.
type ChartData struct {
	CategoryKey   string             `json:"categoryKey"`
	Categories    []string           `json:"categories"`
	Points        []ChartSeriesPoint `json:"points"`
	CountSeries   []SeriesSpec       `json:"countSeries"`
	TrendSeries   []SeriesSpec       `json:"trendSeries"`
	ShowStacked   bool               `json:"showStacked"`
	Message       string             `json:"message,omitempty"`
	PercentDomain [2]float64         `json:"percentDomain"`
	CountDomain   [2]float64         `json:"countDomain"`
	ReferenceLine Num                `json:"referenceLine"`
	Empty         bool               `json:"empty"`
}

// TrendValues returns the values of a trend series in category order.
func (c ChartData) TrendValues(key string) []Num {
	out := make([]Num, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Percents[key]
	}
	return out
}

// CountValues returns the values of a count series in category order.
func (c ChartData) CountValues(key string) []Num {
	out := make([]Num, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Counts[key]
	}
	return out
}

// ProjectChart builds one point per row in input order. The stacked pair appears only
// when at least one row has it; a trend line appears only when at least one row has a
// value for it.
func ProjectChart(rs *RowSet, opt ChartOptions) ChartData {
	cd := ChartData{
		CategoryKey:   opt.CategoryKey,
		PercentDomain: [2]float64{0, 100},
		CountDomain:   [2]float64{0, 5},
	}
	if opt.TotalHint > 0 {
		cd.ReferenceLine = Some(float64(opt.TotalHint))
	}
	if rs.Len() == 0 {
		cd.Empty = true
		cd.Message = NoDataMessage
		return cd
	}
	res, recs := Normalize(rs, opt.Schema)

	_, hasViewer := res.Column(opt.ViewerField)
	_, hasTotal := res.Column(opt.TotalField)
	// A hint alone is not viewer data; some count column must resolve.
	usePair := opt.ViewerField != "" && (hasViewer || hasTotal)

	anyPair := false
	maxTotal := max(opt.TotalHint, 0)
	trendSeen := make(map[string]bool, len(opt.Trends))

	cd.Categories = make([]string, 0, len(recs))
	cd.Points = make([]ChartSeriesPoint, 0, len(recs))
	for i, rec := range recs {
		label := rec.Label(opt.LabelField)
		if label == "" {
			label = fmt.Sprintf("Row %d", i+1)
		}
		pt := ChartSeriesPoint{
			CategoryKey: opt.CategoryKey,
			Category:    label,
			Counts:      map[string]Num{},
			Percents:    map[string]Num{},
		}
		if usePair {
			var viewers, students Num
			if hasViewer {
				viewers = rec.Num(opt.ViewerField)
			}
			if hasTotal {
				students = rec.Num(opt.TotalField)
			}
			v := ComputeViewership(viewers, opt.TotalHint, students)
			if v.Valid {
				anyPair = true
				pt.Counts[SeriesViewed] = Some(float64(v.Viewed))
				pt.Counts[SeriesNotViewed] = Some(float64(v.NotViewed))
				pt.Counts[SeriesTotal] = Some(float64(v.Total))
				maxTotal = max(maxTotal, v.Total)
			}
		}
		for _, tf := range opt.Trends {
			if _, ok := res.Column(tf.Field); !ok {
				continue
			}
			n := rec.Num(tf.Field)
			pt.Percents[tf.Key] = n
			if n.Valid {
				trendSeen[tf.Key] = true
			}
		}
		cd.Categories = append(cd.Categories, label)
		cd.Points = append(cd.Points, pt)
	}

	if anyPair {
		cd.ShowStacked = true
		viewerCol, _ := res.Column(opt.ViewerField)
		totalCol, _ := res.Column(opt.TotalField)
		cd.CountSeries = []SeriesSpec{
			{Key: SeriesViewed, Label: "Viewed", Axis: AxisCount, Field: opt.ViewerField, Column: viewerCol, Stacked: true},
			{Key: SeriesNotViewed, Label: "Not Viewed", Axis: AxisCount, Field: opt.TotalField, Column: totalCol, Stacked: true},
		}
	} else {
		cd.Message = NoViewershipMessage
	}
	for _, tf := range opt.Trends {
		if !trendSeen[tf.Key] {
			continue
		}
		col, _ := res.Column(tf.Field)
		cd.TrendSeries = append(cd.TrendSeries, SeriesSpec{
			Key:          tf.Key,
			Label:        tf.Label,
			Axis:         AxisPercent,
			Field:        tf.Field,
			Column:       col,
			ConnectNulls: true,
		})
	}
	cd.CountDomain = [2]float64{0, CountAxisMax(maxTotal)}
	return cd
}

// CountAxisMax adds headroom of max(5, 12%) above the largest total.
func CountAxisMax(maxTotal int) float64 {
	if maxTotal < 0 {
		maxTotal = 0
	}
	head := math.Max(5, math.Ceil(0.12*float64(maxTotal)))
	return float64(maxTotal) + head
}

// ConnectNulls fills interior nulls by linear interpolation between the nearest
// present neighbours. Leading and trailing nulls stay null.
func ConnectNulls(vals []Num) []Num {
	out := make([]Num, len(vals))
	copy(out, vals)
	prev := -1
	for i, v := range vals {
		if !v.Valid {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			a, b := vals[prev].Value, v.Value
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				out[j] = Some(a + (b-a)*float64(j-prev)/span)
			}
		}
		prev = i
	}
	return out
}
