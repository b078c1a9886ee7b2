package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	LanguageModeAuto       = "auto"
	LanguageModeZimbabwean = "zimbabwean-focus"
	LanguageModeEnglish    = "english-only"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config collects every knob of an analysis run. It is validated once when a
// run starts.
type Config struct {
	Engine          string        `mapstructure:"engine"`
	Threshold       float64       `mapstructure:"threshold"`
	BatchSize       int           `mapstructure:"batch_size"`
	LanguageMode    string        `mapstructure:"language_mode"`
	ParallelWorkers int           `mapstructure:"parallel_workers"`
	SampleSize      int           `mapstructure:"sample_size"`
	TopKeywords     int           `mapstructure:"top_keywords"`
	CacheSize       int           `mapstructure:"cache_size"`
	RemoteBudget    int           `mapstructure:"remote_budget"`
	RemoteTimeout   time.Duration `mapstructure:"remote_timeout"`
	MaxFileBytes    int64         `mapstructure:"max_file_bytes"`
	Operator        string        `mapstructure:"operator"`
}

func Default() Config {
	return Config{
		Engine:          "primary",
		Threshold:       0.1,
		BatchSize:       100,
		LanguageMode:    LanguageModeAuto,
		ParallelWorkers: 2,
		SampleSize:      1000,
		TopKeywords:     15,
		CacheSize:       1000,
		RemoteBudget:    500,
		RemoteTimeout:   2 * time.Second,
		MaxFileBytes:    10 << 20,
	}
}

// SetDefaults registers Default() with v so flags, env and config files
// only need to override what they change.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("engine", d.Engine)
	v.SetDefault("threshold", d.Threshold)
	v.SetDefault("batch_size", d.BatchSize)
	v.SetDefault("language_mode", d.LanguageMode)
	v.SetDefault("parallel_workers", d.ParallelWorkers)
	v.SetDefault("sample_size", d.SampleSize)
	v.SetDefault("top_keywords", d.TopKeywords)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("remote_budget", d.RemoteBudget)
	v.SetDefault("remote_timeout", d.RemoteTimeout)
	v.SetDefault("max_file_bytes", d.MaxFileBytes)
}

func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	cfg.LanguageMode = strings.ToLower(strings.TrimSpace(cfg.LanguageMode))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	switch c.Engine {
	case "primary", "fallback", "remote":
	default:
		errs = append(errs, fmt.Errorf("engine must be primary, fallback or remote, got %q", c.Engine))
	}
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		errs = append(errs, fmt.Errorf("threshold must be within [0, 1], got %v", c.Threshold))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", c.BatchSize))
	}
	switch c.LanguageMode {
	case LanguageModeAuto, LanguageModeZimbabwean, LanguageModeEnglish:
	default:
		errs = append(errs, fmt.Errorf("language_mode must be auto, zimbabwean-focus or english-only, got %q", c.LanguageMode))
	}
	if c.ParallelWorkers < 1 || c.ParallelWorkers > 8 {
		errs = append(errs, fmt.Errorf("parallel_workers must be within [1, 8], got %d", c.ParallelWorkers))
	}
	if c.SampleSize < 0 {
		errs = append(errs, fmt.Errorf("sample_size must not be negative, got %d", c.SampleSize))
	}
	if c.TopKeywords < 0 {
		errs = append(errs, fmt.Errorf("top_keywords must not be negative, got %d", c.TopKeywords))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize))
	}
	if c.RemoteTimeout < 0 {
		errs = append(errs, fmt.Errorf("remote_timeout must not be negative, got %s", c.RemoteTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
