package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/coursecharts-cli/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set CourseCharts configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		b, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Fprint(out, string(b))

		s, err := c.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "# effective candidates")
		fields := make([]string, 0, len(analysis.AllFields))
		for _, f := range analysis.AllFields {
			fields = append(fields, string(f))
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(out, "#   %s: %s\n", f, strings.Join(s.Candidates[analysis.CanonicalField(f)], " | "))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: fmt.Sprintf(`Set a config value and save to disk.

Keys: %s
Candidates: candidates.<field> "Name A, Name B" replaces the ordered candidate list.`, strings.Join(cfgpkg.Keys(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Saved %s", args[0])
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			dir, err := cfgpkg.Dir()
			if err != nil {
				return err
			}
			path = filepath.Join(dir, "config.yaml")
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := cfgpkg.Save(cfgpkg.Default(), cfgFile); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Wrote %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}
