package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/KaramelBytes/coursecharts-cli/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	tbColumns     []string
	tbPercentCols []string
	tbMaxRows     int
	tbFormat      string
	tbOutput      string
)

var tableCmd = &cobra.Command{
	Use:   "table <rows.json|rows.yaml>",
	Short: "Render an export as a formatted, width-sized table",
	Long: `Render an export as a table. Numeric columns are detected by sampling, percent columns
are shown with one decimal and a % sign, and each column gets a pixel width estimate.

Formats: text (console table), markdown, html, json (columns with widths plus formatted rows).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := loadRows(args[0])
		if err != nil {
			return err
		}
		opt := currentConfig().TableOptions()
		opt.Columns = tbColumns
		if cmd.Flags().Changed("percent-cols") {
			opt.PercentColumns = tbPercentCols
		}
		if cmd.Flags().Changed("max-rows") {
			opt.MaxRows = tbMaxRows
		}
		t := buildTable(rs, opt)

		var data []byte
		switch strings.ToLower(tbFormat) {
		case "text", "":
			var buf bytes.Buffer
			renderText(&buf, t)
			data = buf.Bytes()
		case "markdown", "md":
			data = []byte(t.Markdown())
		case "html":
			data = markdownToHTML(t.Markdown())
		case "json":
			b, err := utils.PrettyJSON(t)
			if err != nil {
				return err
			}
			data = append(b, '\n')
		default:
			return fmt.Errorf("unknown --format: %s (use text, markdown, html or json)", tbFormat)
		}
		out := cmd.OutOrStdout()
		if err := writeOutput(tbOutput, data, out); err != nil {
			return err
		}
		if tbOutput != "" {
			successf(out, "Wrote %s (%s rows)", tbOutput, humanize.Comma(int64(len(t.Rows))))
		}
		return nil
	},
}

// pixelsPerChar converts the pixel width estimate into console columns.
const pixelsPerChar = 7

// renderText prints the table with tablewriter, using the estimated widths as
// minimum column widths.
func renderText(w io.Writer, t analysis.Table) {
	if len(t.Columns) == 0 {
		fmt.Fprintln(w, t.Message)
		return
	}
	tw := tablewriter.NewWriter(w)
	header := make([]string, len(t.Columns))
	align := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
		tw.SetColMinWidth(i, c.Width/pixelsPerChar)
		align[i] = tablewriter.ALIGN_LEFT
		if c.Kind != analysis.KindText {
			align[i] = tablewriter.ALIGN_RIGHT
		}
	}
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetColumnAlignment(align)
	for _, r := range t.Rows {
		tw.Append(r)
	}
	tw.Render()
	if t.Truncated() {
		fmt.Fprintf(w, "Showing %s of %s rows.\n", humanize.Comma(int64(len(t.Rows))), humanize.Comma(int64(t.TotalRows)))
	}
}

// markdownToHTML renders the markdown table as an HTML fragment.
func markdownToHTML(md string) []byte {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.ToHTML([]byte(md), p, r)
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().StringSliceVar(&tbColumns, "columns", nil, "columns to show, in order (default all)")
	tableCmd.Flags().StringSliceVar(&tbPercentCols, "percent-cols", nil, "columns to format as percentages (default: numeric columns named with % or percent)")
	tableCmd.Flags().IntVar(&tbMaxRows, "max-rows", 0, "maximum rows to render (default from config)")
	tableCmd.Flags().StringVar(&tbFormat, "format", "text", "output format: text, markdown, html or json")
	tableCmd.Flags().StringVarP(&tbOutput, "output", "o", "", "write to file instead of stdout")
}
