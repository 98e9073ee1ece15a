package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	PercentThreshold float64 `mapstructure:"percent_threshold" yaml:"percent_threshold" validate:"gt=0"`

	EligibilityMinFraction float64 `mapstructure:"eligibility_min_fraction" yaml:"eligibility_min_fraction" validate:"gt=0,lte=1"`
	EligibilitySampleRows  int     `mapstructure:"eligibility_sample_rows" yaml:"eligibility_sample_rows" validate:"gt=0"`

	// Column sizing, in pixels of the reference font
	WidthMin        int    `mapstructure:"width_min" yaml:"width_min" validate:"gt=0"`
	WidthTextMax    int    `mapstructure:"width_text_max" yaml:"width_text_max" validate:"gtefield=WidthMin"`
	WidthNumericMax int    `mapstructure:"width_numeric_max" yaml:"width_numeric_max" validate:"gtefield=WidthMin"`
	WidthPadding    int    `mapstructure:"width_padding" yaml:"width_padding" validate:"gte=0"`
	WidthSampleRows int    `mapstructure:"width_sample_rows" yaml:"width_sample_rows" validate:"gt=0"`
	WidthFont       string `mapstructure:"width_font" yaml:"width_font" validate:"oneof=basic7x13 inconsolata8x16"`

	TableMaxRows int    `mapstructure:"table_max_rows" yaml:"table_max_rows" validate:"gte=0"`
	Locale       string `mapstructure:"locale" yaml:"locale"`
	MemoSize     int    `mapstructure:"memo_size" yaml:"memo_size" validate:"gt=0"`

	// Candidates overrides the ordered candidate column names per canonical field.
	Candidates map[string][]string `mapstructure:"candidates" yaml:"candidates,omitempty" validate:"dive,keys,required,endkeys,min=1,dive,required"`

	LogFile string `mapstructure:"log_file" yaml:"log_file,omitempty"`
}

var validate = validator.New()

// Validate checks ranges and that every candidates key names a canonical field.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	for k := range c.Candidates {
		if _, ok := analysis.ParseField(k); !ok {
			return fmt.Errorf("invalid config: unknown field %q in candidates", k)
		}
	}
	return nil
}

// Dir returns ~/.coursecharts.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".coursecharts"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.coursecharts/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("percent_threshold", d.PercentThreshold)
	v.SetDefault("eligibility_min_fraction", d.EligibilityMinFraction)
	v.SetDefault("eligibility_sample_rows", d.EligibilitySampleRows)
	v.SetDefault("width_min", d.WidthMin)
	v.SetDefault("width_text_max", d.WidthTextMax)
	v.SetDefault("width_numeric_max", d.WidthNumericMax)
	v.SetDefault("width_padding", d.WidthPadding)
	v.SetDefault("width_sample_rows", d.WidthSampleRows)
	v.SetDefault("width_font", d.WidthFont)
	v.SetDefault("table_max_rows", d.TableMaxRows)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("memo_size", d.MemoSize)
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	w := analysis.DefaultWidthOptions()
	e := analysis.DefaultEligibility()
	return &Global{
		PercentThreshold:       analysis.DefaultProportionThreshold,
		EligibilityMinFraction: e.MinFraction,
		EligibilitySampleRows:  e.SampleRows,
		WidthMin:               w.Min,
		WidthTextMax:           w.TextMax,
		WidthNumericMax:        w.NumericMax,
		WidthPadding:           w.Padding,
		WidthSampleRows:        w.SampleRows,
		WidthFont:              analysis.FontBasic7x13,
		TableMaxRows:           analysis.DefaultTableMaxRows,
		Locale:                 "en",
		MemoSize:               analysis.DefaultMemoSize,
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is read first so its values act as env.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("COURSECHARTS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Schema merges candidate overrides onto the defaults.
func (c *Global) Schema() (analysis.Schema, error) {
	s := analysis.DefaultSchema()
	s.Percent = analysis.PercentPolicy{ProportionThreshold: c.PercentThreshold}
	if len(c.Candidates) == 0 {
		return s, nil
	}
	override := analysis.ColumnCandidateMap{}
	for k, names := range c.Candidates {
		f, ok := analysis.ParseField(k)
		if !ok {
			return s, fmt.Errorf("unknown field %q in candidates", k)
		}
		override[f] = names
	}
	s.Candidates = s.Candidates.Merge(override)
	return s, nil
}

// Eligibility returns the numeric-column predicate settings.
func (c *Global) Eligibility() analysis.Eligibility {
	return analysis.Eligibility{SampleRows: c.EligibilitySampleRows, MinFraction: c.EligibilityMinFraction}
}

// WidthOptions returns the column sizing bounds.
func (c *Global) WidthOptions() analysis.WidthOptions {
	return analysis.WidthOptions{
		Face:       analysis.FaceByName(c.WidthFont),
		Min:        c.WidthMin,
		TextMax:    c.WidthTextMax,
		NumericMax: c.WidthNumericMax,
		Padding:    c.WidthPadding,
		SampleRows: c.WidthSampleRows,
	}
}

// TableOptions returns table defaults; callers fill Columns and PercentColumns.
func (c *Global) TableOptions() analysis.TableOptions {
	return analysis.TableOptions{
		MaxRows:     c.TableMaxRows,
		Percent:     analysis.PercentPolicy{ProportionThreshold: c.PercentThreshold},
		Eligibility: c.Eligibility(),
		Width:       c.WidthOptions(),
		Locale:      c.Locale,
	}
}

// Keys lists the settable scalar keys in a stable order.
func Keys() []string {
	keys := []string{
		"percent_threshold", "eligibility_min_fraction", "eligibility_sample_rows",
		"width_min", "width_text_max", "width_numeric_max", "width_padding",
		"width_sample_rows", "width_font", "table_max_rows", "locale", "memo_size", "log_file",
	}
	sort.Strings(keys)
	return keys
}
