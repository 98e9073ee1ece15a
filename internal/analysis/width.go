package analysis

import (
	"regexp"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
)

// ColumnCategory controls the width ceiling of a column.
type ColumnCategory int

const (
	NumericLike ColumnCategory = iota
	TextHeavy
)

func (c ColumnCategory) String() string {
	if c == TextHeavy {
		return "text"
	}
	return "numeric"
}

var textHeavyPattern = regexp.MustCompile(`(?i)(title|name|description|module|assignment|comment|label|section|email)`)

// Reference fonts available for measurement.
const (
	FontBasic7x13       = "basic7x13"
	FontInconsolata8x16 = "inconsolata8x16"
)

// FaceByName returns the reference face for a configured font name; unknown names
// fall back to the 7x13 face.
func FaceByName(name string) font.Face {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FontInconsolata8x16:
		return inconsolata.Regular8x16
	default:
		return basicfont.Face7x13
	}
}

// WidthOptions bounds the column width estimate.
type WidthOptions struct {
	Face       font.Face
	Min        int
	TextMax    int
	NumericMax int
	Padding    int
	// SampleRows caps how many rows are measured regardless of table size.
	SampleRows int
}

// DefaultWidthOptions returns the bounds used by the table surface.
func DefaultWidthOptions() WidthOptions {
	return WidthOptions{
		Face:       basicfont.Face7x13,
		Min:        72,
		TextMax:    360,
		NumericMax: 140,
		Padding:    24,
		SampleRows: 100,
	}
}

func (o WidthOptions) withDefaults() WidthOptions {
	d := DefaultWidthOptions()
	if o.Face == nil {
		o.Face = d.Face
	}
	if o.Min <= 0 {
		o.Min = d.Min
	}
	if o.TextMax <= 0 {
		o.TextMax = d.TextMax
	}
	if o.NumericMax <= 0 {
		o.NumericMax = d.NumericMax
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.SampleRows <= 0 {
		o.SampleRows = d.SampleRows
	}
	if o.TextMax < o.Min {
		o.TextMax = o.Min
	}
	if o.NumericMax < o.Min {
		o.NumericMax = o.Min
	}
	return o
}

// CategorizeColumn applies the naming heuristic.
func CategorizeColumn(name string) ColumnCategory {
	if textHeavyPattern.MatchString(name) {
		return TextHeavy
	}
	return NumericLike
}

// MeasureText returns the advance width of s in pixels.
func MeasureText(face font.Face, s string) int {
	if s == "" {
		return 0
	}
	return font.MeasureString(face, s).Ceil()
}

// EstimateWidth measures the header and the first SampleRows cells, adds padding,
// and clamps to [Min, category ceiling].
func EstimateWidth(header string, cells []string, cat ColumnCategory, opt WidthOptions) int {
	o := opt.withDefaults()
	widest := MeasureText(o.Face, header)
	n := min(len(cells), o.SampleRows)
	for i := 0; i < n; i++ {
		if w := MeasureText(o.Face, cells[i]); w > widest {
			widest = w
		}
	}
	ceiling := o.NumericMax
	if cat == TextHeavy {
		ceiling = o.TextMax
	}
	return clampInt(widest+o.Padding, o.Min, ceiling)
}
