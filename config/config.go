// Package config loads optional YAML tuning for the search budget,
// score-sheet size and diagnostics side channel, falling back to built-in
// defaults when no file is given.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults, used whenever no config file is supplied or a field is absent
// from it.
const (
	DefaultSearchBudget   = 90 * time.Millisecond
	DefaultScoreSheetSize = 10
	DefaultDiagnosticsAddr = ":8080"
)

// DiagnosticsConfig controls the optional live diagnostics HTTP/WebSocket
// feed.
type DiagnosticsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// SearchConfig is the tunable surface of the agent: how long it searches
// per turn, how many score-sheet entries it maintains, the seed for
// reproducible replays, and diagnostics.
type SearchConfig struct {
	SearchBudget   time.Duration `yaml:"searchBudget"`
	ScoreSheetSize int           `yaml:"scoreSheetSize"`
	RandomSeed     int64         `yaml:"randomSeed"`
	Diagnostics    DiagnosticsConfig `yaml:"diagnostics"`
}

// Default returns the built-in configuration used when no config file is
// present. RandomSeed of 0 is a sentinel the driver replaces with a
// wall-clock-derived seed.
func Default() *SearchConfig {
	return &SearchConfig{
		SearchBudget:   DefaultSearchBudget,
		ScoreSheetSize: DefaultScoreSheetSize,
		RandomSeed:     0,
		Diagnostics: DiagnosticsConfig{
			Enabled: false,
			Addr:    DefaultDiagnosticsAddr,
		},
	}
}

// outerConfig mirrors the shape Viper decodes a YAML document into before
// the nested definition is re-marshaled and unmarshaled into a typed
// rawSearchConfig: Viper's generic decoding otherwise flattens nested
// structure into maps of interface{}, which doesn't round-trip cleanly into
// typed fields.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// rawSearchConfig is the YAML-facing shape: SearchBudget is a duration
// string ("90ms") rather than time.Duration, since yaml.v3 has no built-in
// string-to-Duration conversion, the same reason the teacher's
// TrainingConfig keeps its deadline as a map[string]string parsed with
// time.ParseDuration rather than a typed field. Its tags are lower-case
// because Viper lower-cases every key it reads.
type rawSearchConfig struct {
	SearchBudget   string            `yaml:"searchbudget"`
	ScoreSheetSize int               `yaml:"scoresheetsize"`
	RandomSeed     int64             `yaml:"randomseed"`
	Diagnostics    DiagnosticsConfig `yaml:"diagnostics"`
}

// Load reads path as a YAML config file and returns a SearchConfig,
// defaults applied for any field the file doesn't set. If path is empty or
// the file doesn't exist, Load returns Default() with a nil error: config
// is optional ambient tuning, never required to run.
func Load(path string) (*SearchConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, err
	}

	raw := rawSearchConfig{
		SearchBudget:   cfg.SearchBudget.String(),
		ScoreSheetSize: cfg.ScoreSheetSize,
		RandomSeed:     cfg.RandomSeed,
		Diagnostics:    cfg.Diagnostics,
	}
	if err := yaml.Unmarshal(spec, &raw); err != nil {
		return nil, err
	}

	budget, err := time.ParseDuration(raw.SearchBudget)
	if err != nil {
		return nil, err
	}

	cfg.SearchBudget = budget
	cfg.ScoreSheetSize = raw.ScoreSheetSize
	cfg.RandomSeed = raw.RandomSeed
	cfg.Diagnostics = raw.Diagnostics
	return cfg, nil
}
