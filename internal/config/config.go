// Package config provides configuration management for skillreg.
// It supports a YAML configuration file, environment variables, and
// sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/skillreg/internal/util"
)

// Config represents the complete skillreg configuration.
type Config struct {
	// Registry configures skill discovery
	Registry RegistryConfig `yaml:"registry"`

	// Matcher configures the relevance strategy used for selection
	Matcher MatcherConfig `yaml:"matcher"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// RegistryConfig holds skill discovery settings.
type RegistryConfig struct {
	// Roots is an ordered list of directories to scan for skills.
	// Paths can use ~ for the home directory or be relative.
	Roots []string `yaml:"roots,omitempty"`
	// Strict turns the first discovery error into a hard failure instead
	// of skip-and-warn.
	Strict bool `yaml:"strict"`
}

// MatcherConfig holds relevance matching settings.
type MatcherConfig struct {
	// Algorithm selects the scoring strategy (keyword, jaccard)
	Algorithm string `yaml:"algorithm"`
	// Threshold is the minimum score for a selection match (0.0-1.0)
	Threshold float64 `yaml:"threshold"`
	// NGramSize is the n-gram size for the jaccard strategy
	NGramSize int `yaml:"ngram_size"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			Roots:  util.DefaultSkillRoots(),
			Strict: false,
		},
		Matcher: MatcherConfig{
			Algorithm: "keyword",
			Threshold: 0.2,
			NGramSize: 3,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  "auto",
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file, honoring SKILLREG_CONFIG.
func FilePath() string {
	if v := os.Getenv("SKILLREG_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// A missing config file is not an error; defaults plus environment
// overrides apply.
func Load() (*Config, error) {
	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}
	return parse(data)
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	configPath := FilePath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(configPath, data, 0o644)
}

// ExpandedRoots returns the configured roots with ~ expansion applied.
func (c *Config) ExpandedRoots() []string {
	out := make([]string, 0, len(c.Registry.Roots))
	for _, root := range c.Registry.Roots {
		out = append(out, util.ExpandPath(root))
	}
	return out
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern SKILLREG_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SKILLREG_REGISTRY_ROOTS"); v != "" {
		c.Registry.Roots = util.SplitPaths(v)
	}
	if v := os.Getenv("SKILLREG_REGISTRY_STRICT"); v != "" {
		c.Registry.Strict = parseBool(v)
	}

	if v := os.Getenv("SKILLREG_MATCHER_ALGORITHM"); v != "" {
		c.Matcher.Algorithm = v
	}
	if v := os.Getenv("SKILLREG_MATCHER_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			c.Matcher.Threshold = f
		}
	}

	if v := os.Getenv("SKILLREG_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("SKILLREG_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("SKILLREG_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool interprets common truthy strings.
func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
