package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/KaramelBytes/coursecharts-cli/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var pfJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile <rows.json|rows.yaml>",
	Short: "Show which columns count as numeric and summary statistics for them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := loadRows(args[0])
		if err != nil {
			return err
		}
		c := currentConfig()
		sums := analysis.Summarize(rs, c.TableOptions().Percent, c.Eligibility())
		out := cmd.OutOrStdout()
		if pfJSON {
			b, err := utils.PrettyJSON(sums)
			if err != nil {
				return err
			}
			_, err = out.Write(append(b, '\n'))
			return err
		}
		renderSummary(out, sums, analysis.NewFormatter(c.TableOptions().Percent, c.Locale))
		fmt.Fprintf(out, "%s rows, %d columns\n", humanize.Comma(int64(rs.Len())), len(rs.Columns))
		return nil
	},
}

func renderSummary(w io.Writer, sums []analysis.ColumnSummary, f *analysis.Formatter) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Column", "Kind", "Parsed", "Min", "Max", "Mean", "Median"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	num := func(n analysis.Num) string {
		if !n.Valid {
			return ""
		}
		return f.Number(n.Value)
	}
	for _, s := range sums {
		tw.Append([]string{
			s.Name,
			s.Kind,
			fmt.Sprintf("%d/%d", s.Parsed, s.NonEmpty),
			num(s.Min), num(s.Max), num(s.Mean), num(s.Median),
		})
	}
	tw.Render()
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().BoolVar(&pfJSON, "json", false, "print JSON")
}
