package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file.
const FileName = "mymoney.yaml"

// EnvPrefix prefixes environment overrides: MYMONEY_<SECTION>_<FIELD>, e.g.
// MYMONEY_LOGGING_LEVEL or MYMONEY_IMPORT_XLS_CHARSET.
const EnvPrefix = "MYMONEY"

// Config represents the top-level mymoney.yaml configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage" envconfig:"STORAGE"`
	Import     ImportConfig     `yaml:"import" envconfig:"IMPORT"`
	Analysis   AnalysisConfig   `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Locale     LocaleConfig     `yaml:"locale" envconfig:"LOCALE"`
	Vocabulary VocabularyConfig `yaml:"vocabulary,omitempty" envconfig:"VOCABULARY"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path" validate:"required"` // relative to the workspace root
}

// ImportConfig controls ingestion of workbooks dropped into import/.
type ImportConfig struct {
	Workers    int           `yaml:"workers" validate:"gte=1,lte=64"`
	Interval   time.Duration `yaml:"interval" validate:"gte=0"`
	XLSCharset string        `yaml:"xls_charset,omitempty" split_words:"true"`
}

// AnalysisConfig tunes column detection.
type AnalysisConfig struct {
	StrictColumns bool `yaml:"strict_columns" split_words:"true"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// LocaleConfig sets the time zone used to bucket dates into months.
type LocaleConfig struct {
	Timezone string `yaml:"timezone" validate:"required"`
}

// VocabularyConfig overrides statement captions. Empty lists keep the defaults.
type VocabularyConfig struct {
	Income  []string `yaml:"income,omitempty"`
	Expense []string `yaml:"expense,omitempty"`
	Totals  []string `yaml:"totals,omitempty"`
}

// Load reads a mymoney.yaml file from disk, applies MYMONEY_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "data/mymoney.db",
		},
		Import: ImportConfig{
			Workers:  4,
			Interval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Locale: LocaleConfig{
			Timezone: "Asia/Seoul",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and that the time zone exists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Locale.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid config: timezone %q: %w", c.Locale.Timezone, err)
	}
	return loc, nil
}
