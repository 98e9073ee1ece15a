package visuals

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
)

// Mermaid renders the projection as Markdown: a count chart (when the stacked pair is
// shown), a percent chart (when any trend line exists), and the fallback message.
// xychart-beta has a single y-axis, so the two axes become two charts.
func Mermaid(cd analysis.ChartData, title string) string {
	if cd.Empty {
		return "> " + cd.Message + "\n"
	}
	var parts []string
	if c := MermaidCounts(cd, title); c != "" {
		parts = append(parts, c)
	}
	if t := MermaidTrends(cd, title); t != "" {
		parts = append(parts, t)
	}
	if cd.Message != "" {
		parts = append(parts, "> "+cd.Message)
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// MermaidCounts draws the total bar with the viewed bar over it, which reads as a
// viewed/not-viewed stack. Categories without a pair are left off the axis.
func MermaidCounts(cd analysis.ChartData, title string) string {
	if !cd.ShowStacked || len(cd.Points) == 0 {
		return ""
	}
	allTotals := cd.CountValues(analysis.SeriesTotal)
	allViewed := cd.CountValues(analysis.SeriesViewed)
	var cats []string
	var totals, viewed []analysis.Num
	for i, cat := range cd.Categories {
		if !allTotals[i].Valid || !allViewed[i].Valid {
			continue
		}
		cats = append(cats, cat)
		totals = append(totals, allTotals[i])
		viewed = append(viewed, allViewed[i])
	}
	if len(cats) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(titled(title, "Students Viewed"))))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", labels(cats)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Students\" %s --> %s\n", num(cd.CountDomain[0]), num(cd.CountDomain[1])))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(formatValues(totals, 0), ", ")))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(formatValues(viewed, 0), ", ")))
	if cd.ReferenceLine.Valid {
		ref := make([]string, len(cats))
		for i := range ref {
			ref[i] = num(cd.ReferenceLine.Value)
		}
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(ref, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

// MermaidTrends draws one line per trend series on the [0,100] axis. Interior gaps are
// interpolated; leading and trailing gaps draw as 0 because xychart lines cannot break.
func MermaidTrends(cd analysis.ChartData, title string) string {
	if len(cd.TrendSeries) == 0 || len(cd.Points) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(titled(title, legend(cd.TrendSeries)))))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", labels(cd.Categories)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Percent\" %s --> %s\n", num(cd.PercentDomain[0]), num(cd.PercentDomain[1])))
	for _, s := range cd.TrendSeries {
		vals := cd.TrendValues(s.Key)
		if s.ConnectNulls {
			vals = analysis.ConnectNulls(vals)
		}
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(formatValues(vals, 1), ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

func titled(title, suffix string) string {
	if title == "" {
		return suffix
	}
	return title + ": " + suffix
}

func legend(series []analysis.SeriesSpec) string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Label
	}
	return strings.Join(names, " / ")
}

func labels(cats []string) string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = quote(c)
	}
	return strings.Join(out, ", ")
}

// quote wraps s in double quotes; embedded quotes become single quotes since
// xychart has no escape syntax.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return "\"" + s + "\""
}

func formatValues(vals []analysis.Num, prec int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		if !v.Valid {
			out[i] = "0"
			continue
		}
		out[i] = strconv.FormatFloat(round(v.Value, prec), 'f', -1, 64)
	}
	return out
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func round(v float64, prec int) float64 {
	p := math.Pow(10, float64(prec))
	return math.Round(v*p) / p
}
