package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/KaramelBytes/coursecharts-cli/internal/parser"
	"github.com/KaramelBytes/coursecharts-cli/internal/utils"
)

const (
	presetVideo     = "video"
	presetGradebook = "gradebook"
)

// chartOptions builds the preset projection options from the loaded config.
func chartOptions(preset string, totalHint int) (analysis.ChartOptions, error) {
	s, err := currentConfig().Schema()
	if err != nil {
		return analysis.ChartOptions{}, err
	}
	switch strings.ToLower(preset) {
	case presetVideo, "":
		return analysis.VideoChartOptions(s, totalHint), nil
	case presetGradebook:
		return analysis.GradebookChartOptions(s), nil
	default:
		return analysis.ChartOptions{}, fmt.Errorf("unknown --preset: %s (use %s or %s)", preset, presetVideo, presetGradebook)
	}
}

func projectChart(rs *analysis.RowSet, opt analysis.ChartOptions) analysis.ChartData {
	if memo == nil {
		return analysis.ProjectChart(rs, opt)
	}
	return memo.Chart(rs, opt)
}

func buildTable(rs *analysis.RowSet, opt analysis.TableOptions) analysis.Table {
	if memo == nil {
		return analysis.BuildTable(rs, opt)
	}
	return memo.Table(rs, opt)
}

func loadRows(path string) (*analysis.RowSet, error) {
	rs, err := parser.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("file", path).Str("row_set", rs.ID).Int("rows", rs.Len()).Msg("rows loaded")
	return rs, nil
}

// expandInputs resolves globs, keeps literal paths that exist, and de-duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// writeOutput writes to path atomically, or to stdout when path is empty.
func writeOutput(out string, data []byte, w io.Writer) error {
	if out == "" {
		_, err := w.Write(data)
		return err
	}
	return utils.SafeWriteFile(out, data)
}
