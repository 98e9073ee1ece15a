package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/KaramelBytes/coursecharts-cli/internal/utils"
	"github.com/KaramelBytes/coursecharts-cli/internal/visuals"
	"github.com/spf13/cobra"
)

var (
	chPreset string
	chTotal  int
	chFormat string
	chOutput string
	chTitle  string
	chWidth  int
	chHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart <rows.json|rows.yaml>",
	Short: "Project an export into stacked viewed/not-viewed bars and percent trend lines",
	Long: `Project an export into chart data. Column names are reconciled against the configured
candidates, percentages are put on a 0-100 scale, and viewed/not-viewed counts are derived
from whatever viewer and enrollment data is present.

Formats: json (chart data), mermaid (xychart-beta Markdown), png (requires -o; writes
<name>-counts.png and <name>-trends.png for the charts that have data).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := chartOptions(chPreset, chTotal)
		if err != nil {
			return err
		}
		rs, err := loadRows(args[0])
		if err != nil {
			return err
		}
		cd := projectChart(rs, opt)
		out := cmd.OutOrStdout()

		switch strings.ToLower(chFormat) {
		case "json", "":
			b, err := utils.PrettyJSON(cd)
			if err != nil {
				return err
			}
			if err := writeOutput(chOutput, append(b, '\n'), out); err != nil {
				return err
			}
		case "mermaid", "md":
			if err := writeOutput(chOutput, []byte(visuals.Mermaid(cd, chTitle)), out); err != nil {
				return err
			}
		case "png":
			if chOutput == "" {
				return fmt.Errorf("--format png requires -o <file.png>")
			}
			written, err := writeChartPNGs(cd, chOutput, visuals.PNGOptions{Title: chTitle, Width: chWidth, Height: chHeight})
			if err != nil {
				return err
			}
			for _, p := range written {
				successf(out, "Wrote %s", p)
			}
			if cd.Message != "" {
				warnf(out, "%s", cd.Message)
			}
			return nil
		default:
			return fmt.Errorf("unknown --format: %s (use json, mermaid or png)", chFormat)
		}
		if chOutput != "" {
			successf(out, "Wrote %s (%d categories)", chOutput, len(cd.Categories))
		}
		return nil
	},
}

// writeChartPNGs renders both charts next to base. A chart without data is skipped;
// it is an error only when neither renders.
func writeChartPNGs(cd analysis.ChartData, base string, opt visuals.PNGOptions) ([]string, error) {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	renders := []struct {
		suffix string
		fn     func(analysis.ChartData, visuals.PNGOptions) ([]byte, error)
	}{
		{"-counts.png", visuals.CountsPNG},
		{"-trends.png", visuals.TrendsPNG},
	}
	var written []string
	for _, r := range renders {
		b, err := r.fn(cd, opt)
		if errors.Is(err, visuals.ErrNothingToRender) {
			continue
		}
		if err != nil {
			return written, err
		}
		p := stem + r.suffix
		if err := utils.SafeWriteFile(p, b); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	if len(written) == 0 {
		msg := cd.Message
		if msg == "" {
			msg = analysis.NoDataMessage
		}
		return nil, fmt.Errorf("no chart rendered: %s", msg)
	}
	return written, nil
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chPreset, "preset", presetVideo, "column preset: video or gradebook")
	chartCmd.Flags().IntVar(&chTotal, "total", 0, "authoritative total student count (0 = unknown)")
	chartCmd.Flags().StringVar(&chFormat, "format", "json", "output format: json, mermaid or png")
	chartCmd.Flags().StringVarP(&chOutput, "output", "o", "", "write to file instead of stdout")
	chartCmd.Flags().StringVar(&chTitle, "title", "", "chart title prefix")
	chartCmd.Flags().IntVar(&chWidth, "width", 0, "png width in pixels (default 960)")
	chartCmd.Flags().IntVar(&chHeight, "height", 0, "png height in pixels (default 480)")
}
