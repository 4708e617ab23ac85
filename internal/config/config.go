// Package config merges flags, CLEAVR_* environment variables and an
// optional config file into one validated settings struct (via Viper).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cleavr/core/errs"
	"cleavr/core/profile"
)

// EnvPrefix namespaces environment overrides, e.g. CLEAVR_TOP_K=5.
const EnvPrefix = "CLEAVR"

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Config is the root-level settings struct. Keys match flag names.
type Config struct {
	// inputs
	Proteins string `mapstructure:"proteins"`
	Peptides string `mapstructure:"peptides"`
	Enzymes  string `mapstructure:"enzymes"` // optional site table added to the standard set

	// model
	HalfWidth   int     `mapstructure:"half-width"`
	K           int     `mapstructure:"k"`
	Threshold   float64 `mapstructure:"threshold"`
	Pseudocount float64 `mapstructure:"pseudocount"`
	TopK        int     `mapstructure:"top-k"`

	// enzyme filter
	Standard    bool     `mapstructure:"standard"`
	Species     []string `mapstructure:"species"`
	EnzymeNames []string `mapstructure:"enzyme-names"`

	KeepZeroIntensity bool `mapstructure:"keep-zero-intensity"`

	// performance
	Threads   int `mapstructure:"threads"`
	BatchSize int `mapstructure:"batch-size"`

	// output
	Output          string `mapstructure:"output"`
	Matches         string `mapstructure:"matches"` // path for per-window rows; "" = off, "-" = stdout
	Pretty          bool   `mapstructure:"pretty"`
	Sort            bool   `mapstructure:"sort"`
	NoHeader        bool   `mapstructure:"no-header"`
	Quiet           bool   `mapstructure:"quiet"`
	Progress        bool   `mapstructure:"progress"`
	NoMatchExitCode int    `mapstructure:"no-match-exit-code"`

	// profile / proteins commands
	Metadata   string   `mapstructure:"metadata"` // per-sample table; enables column group-by and --group
	GroupBy    string   `mapstructure:"group-by"`
	Method     string   `mapstructure:"method"`
	ProteinIDs []string `mapstructure:"protein"`
	Samples    []string `mapstructure:"sample"`
	Groups     []string `mapstructure:"group"`
	Filter     string   `mapstructure:"filter"`
	Limit      int      `mapstructure:"limit"`
}

// Load binds fs to a fresh Viper instance, reads file (if non-empty) and
// environment overrides, and decodes the result. Flags set on the command
// line win over the environment, which wins over the file.
func Load(fs *pflag.FlagSet, file string) (Config, error) {
	var c Config
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return c, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("config %s: %w", file, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode config: %w", err)
	}
	c.Species = splitAll(c.Species)
	c.EnzymeNames = splitAll(c.EnzymeNames)
	c.ProteinIDs = splitAll(c.ProteinIDs)
	c.Samples = splitAll(c.Samples)
	return c, nil
}

// splitAll flattens comma-joined entries and drops blanks.
func splitAll(in []string) []string {
	var out []string
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func bad(key string, val any, allowed ...string) error {
	return &errs.ConfigurationError{Key: key, Value: fmt.Sprint(val), Allowed: allowed}
}

// ValidateModel checks the settings shared by every command that compiles
// the enzyme library.
func (c Config) ValidateModel() error {
	if c.HalfWidth < 1 || c.HalfWidth > 4 {
		return bad("half-width", c.HalfWidth, "1", "2", "3", "4")
	}
	if c.K < 1 {
		return bad("k", c.K)
	}
	if c.Threshold < 0 {
		return bad("threshold", c.Threshold)
	}
	if c.Pseudocount < 0 {
		return bad("pseudocount", c.Pseudocount)
	}
	return nil
}

// ValidateOutput checks the output format.
func (c Config) ValidateOutput() error {
	switch c.Output {
	case FormatText, FormatJSON, FormatJSONL:
		return nil
	}
	return bad("output", c.Output, FormatText, FormatJSON, FormatJSONL)
}

// ValidateAnalyze checks the settings of `cleavr analyze`.
func (c Config) ValidateAnalyze() error {
	if c.Proteins == "" {
		return bad("proteins", c.Proteins)
	}
	if c.Peptides == "" {
		return bad("peptides", c.Peptides)
	}
	if err := c.ValidateModel(); err != nil {
		return err
	}
	if c.TopK < 0 {
		return bad("top-k", c.TopK)
	}
	if err := c.ValidateOutput(); err != nil {
		return err
	}
	if c.Threads < 0 {
		return bad("threads", c.Threads)
	}
	if c.BatchSize < 0 {
		return bad("batch-size", c.BatchSize)
	}
	if c.Proteins == "-" && c.Peptides == "-" {
		return bad("peptides", c.Peptides)
	}
	return nil
}

// ValidateProfile checks the settings of `cleavr profile`.
func (c Config) ValidateProfile() error {
	if c.Proteins == "" {
		return bad("proteins", c.Proteins)
	}
	if c.Peptides == "" {
		return bad("peptides", c.Peptides)
	}
	if c.K < 1 {
		return bad("k", c.K)
	}
	// metadata columns are checked once the table is loaded
	if c.Metadata == "" {
		if _, err := profile.ParseGroupBy(c.GroupBy, nil); err != nil {
			return err
		}
		if len(c.Groups) > 0 {
			return bad("group", strings.Join(c.Groups, ","))
		}
	} else if c.GroupBy == "" {
		return bad("group-by", c.GroupBy)
	}
	if _, err := profile.ParseMethod(c.Method); err != nil {
		return err
	}
	if err := c.ValidateOutput(); err != nil {
		return err
	}
	return nil
}
