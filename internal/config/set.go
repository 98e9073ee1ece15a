package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
)

// Set assigns a scalar key from its string form. "candidates.<field>" takes a
// comma-separated list and replaces that field's candidates.
func (c *Global) Set(key, val string) error {
	if field, ok := strings.CutPrefix(key, "candidates."); ok {
		f, ok := analysis.ParseField(field)
		if !ok {
			return fmt.Errorf("unknown field: %s", field)
		}
		var names []string
		for _, n := range strings.Split(val, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) == 0 {
			return fmt.Errorf("empty candidate list for %s", field)
		}
		if c.Candidates == nil {
			c.Candidates = map[string][]string{}
		}
		c.Candidates[string(f)] = names
		return nil
	}

	switch key {
	case "percent_threshold":
		return setFloat(&c.PercentThreshold, key, val)
	case "eligibility_min_fraction":
		return setFloat(&c.EligibilityMinFraction, key, val)
	case "eligibility_sample_rows":
		return setInt(&c.EligibilitySampleRows, key, val)
	case "width_min":
		return setInt(&c.WidthMin, key, val)
	case "width_text_max":
		return setInt(&c.WidthTextMax, key, val)
	case "width_numeric_max":
		return setInt(&c.WidthNumericMax, key, val)
	case "width_padding":
		return setInt(&c.WidthPadding, key, val)
	case "width_sample_rows":
		return setInt(&c.WidthSampleRows, key, val)
	case "width_font":
		switch strings.ToLower(val) {
		case analysis.FontBasic7x13, analysis.FontInconsolata8x16:
			c.WidthFont = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid width_font: %s (use %s or %s)", val, analysis.FontBasic7x13, analysis.FontInconsolata8x16)
		}
	case "table_max_rows":
		return setInt(&c.TableMaxRows, key, val)
	case "locale":
		c.Locale = val
	case "memo_size":
		return setInt(&c.MemoSize, key, val)
	case "log_file":
		c.LogFile = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setInt(dst *int, key, val string) error {
	i, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid int for %s: %v", key, val)
	}
	*dst = i
	return nil
}

func setFloat(dst *float64, key, val string) error {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("invalid float for %s: %v", key, val)
	}
	*dst = f
	return nil
}
