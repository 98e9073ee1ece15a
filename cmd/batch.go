package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/KaramelBytes/coursecharts-cli/internal/utils"
	"github.com/KaramelBytes/coursecharts-cli/internal/visuals"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	btOutDir      string
	btPreset      string
	btTotal       int
	btFormat      string
	btConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Render several exports concurrently into an output directory",
	Long: `Render several exports concurrently. Each input <name>.json|yaml produces
<out-dir>/<name>.<ext>: chart JSON (json), Mermaid Markdown (mermaid) or a Markdown table
(markdown). The first failure cancels files that have not started.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		format := strings.ToLower(btFormat)
		ext, ok := map[string]string{"json": "chart.json", "mermaid": "chart.md", "markdown": "table.md"}[format]
		if !ok {
			return fmt.Errorf("unknown --format: %s (use json, mermaid or markdown)", btFormat)
		}
		opt, err := chartOptions(btPreset, btTotal)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(btOutDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		tableOpt := currentConfig().TableOptions()

		limit := btConcurrency
		if limit <= 0 {
			limit = runtime.GOMAXPROCS(0)
		}
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(limit)

		dsts := batchOutputs(files, ext)
		var mu sync.Mutex
		written := make(map[string]string, len(files))
		for _, f := range files {
			f := f
			dst := dsts[f]
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rs, err := loadRows(f)
				if err != nil {
					return err
				}
				var data []byte
				switch format {
				case "json":
					b, err := utils.PrettyJSON(projectChart(rs, opt))
					if err != nil {
						return err
					}
					data = append(b, '\n')
				case "mermaid":
					title := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
					data = []byte(visuals.Mermaid(projectChart(rs, opt), title))
				case "markdown":
					data = []byte(buildTable(rs, tableOpt).Markdown())
				}
				if err := utils.SafeWriteFile(dst, data); err != nil {
					return fmt.Errorf("%s: %w", f, err)
				}
				mu.Lock()
				written[f] = dst
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range files {
			successf(out, "%s -> %s", f, written[f])
		}
		logger.Debug().Int("files", len(files)).Int("memo_entries", memoLen()).Msg("batch complete")
		return nil
	},
}

// batchOutputs assigns each input its output path; inputs sharing a base name get
// a __2, __3 ... suffix in input order.
func batchOutputs(files []string, ext string) map[string]string {
	out := make(map[string]string, len(files))
	used := map[string]int{}
	for _, f := range files {
		dst := utils.OutputPath(btOutDir, f, ext)
		used[dst]++
		if n := used[dst]; n > 1 {
			dst = strings.TrimSuffix(dst, "."+ext) + fmt.Sprintf("__%d.", n) + ext
		}
		out[f] = dst
	}
	return out
}

func memoLen() int {
	if memo == nil {
		return 0
	}
	return memo.Len()
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&btOutDir, "out-dir", ".", "directory for rendered outputs")
	batchCmd.Flags().StringVar(&btPreset, "preset", presetVideo, "column preset: video or gradebook")
	batchCmd.Flags().IntVar(&btTotal, "total", 0, "authoritative total student count (0 = unknown)")
	batchCmd.Flags().StringVar(&btFormat, "format", "json", "output format: json, mermaid or markdown")
	batchCmd.Flags().IntVar(&btConcurrency, "concurrency", 4, "files rendered at once (0 = GOMAXPROCS)")
}
