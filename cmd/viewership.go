package cmd

import (
	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/KaramelBytes/coursecharts-cli/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	vwViewers  string
	vwTotal    int
	vwStudents string
	vwJSON     bool
)

var viewershipCmd = &cobra.Command{
	Use:   "viewership",
	Short: "Derive viewed/not-viewed counts from raw cell values",
	Long: `Derive viewed/not-viewed counts. --viewers and --students accept raw cell text
("18", "1,234", "n/a"); --total is the authoritative enrollment and wins over --students.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var viewers, students analysis.Num
		if cmd.Flags().Changed("viewers") {
			viewers = analysis.Coerce(vwViewers)
		}
		if cmd.Flags().Changed("students") {
			students = analysis.Coerce(vwStudents)
		}
		v := analysis.ComputeViewership(viewers, vwTotal, students)
		out := cmd.OutOrStdout()
		if vwJSON {
			var payload any
			if v.Valid {
				payload = v
			}
			b, err := utils.PrettyJSON(payload)
			if err != nil {
				return err
			}
			_, err = out.Write(append(b, '\n'))
			return err
		}
		if !v.Valid {
			warnf(out, "%s", analysis.NoViewershipMessage)
			return nil
		}
		successf(out, "Viewed %s, not viewed %s of %s students",
			humanize.Comma(int64(v.Viewed)), humanize.Comma(int64(v.NotViewed)), humanize.Comma(int64(v.Total)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewershipCmd)
	viewershipCmd.Flags().StringVar(&vwViewers, "viewers", "", "raw viewer count cell")
	viewershipCmd.Flags().IntVar(&vwTotal, "total", 0, "authoritative total student count (0 = unknown)")
	viewershipCmd.Flags().StringVar(&vwStudents, "students", "", "raw per-row student count cell")
	viewershipCmd.Flags().BoolVar(&vwJSON, "json", false, "print JSON")
}
