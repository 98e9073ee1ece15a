package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/coursecharts-cli/internal/config"
	"github.com/KaramelBytes/coursecharts-cli/internal/logging"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	logFile string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = zerolog.Nop()
	memo   *analysis.Memo
)

var rootCmd = &cobra.Command{
	Use:   "coursecharts",
	Short: "CourseCharts CLI: chart and tabulate LMS gradebook and video-engagement exports",
	Long: `CourseCharts reconciles gradebook and video-engagement exports whose column names drift
between versions, normalizes percentages and counts, and renders chart data, Mermaid charts,
PNG images and sized tables from them.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.coursecharts/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotating file")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		warnf(os.Stderr, "failed to load config: %v", err)
		c = cfgpkg.Default()
	}
	cfg = c

	lf := logFile
	if lf == "" {
		lf = cfg.LogFile
	}
	logger = logging.Init(debug, lf)

	m, err := analysis.NewMemo(cfg.MemoSize, logger.With().Str("component", "memo").Logger())
	if err != nil {
		logger.Warn().Err(err).Msg("memo disabled")
		memo = nil
		return
	}
	memo = m
	logger.Debug().Str("config", cfgFile).Int("memo_size", cfg.MemoSize).Msg("configuration loaded")
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func successf(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func warnf(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "⚠ "+format+"\n", args...)
}
