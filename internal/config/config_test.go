package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Import.Workers = 2
	cfg.Import.Interval = time.Minute
	cfg.Analysis.StrictColumns = true
	cfg.Vocabulary.Income = []string{"급여", "배당"}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data/mymoney.db", cfg.Storage.Path)
	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, 30*time.Second, cfg.Import.Interval)
	assert.False(t, cfg.Analysis.StrictColumns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "Asia/Seoul", cfg.Locale.Timezone)
	assert.Empty(t, cfg.Vocabulary.Income)
	require.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Import.Workers)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	t.Setenv("MYMONEY_LOGGING_FORMAT", "json")
	t.Setenv("MYMONEY_IMPORT_WORKERS", "8")
	t.Setenv("MYMONEY_IMPORT_INTERVAL", "5m")
	t.Setenv("MYMONEY_IMPORT_XLS_CHARSET", "cp949")
	t.Setenv("MYMONEY_ANALYSIS_STRICT_COLUMNS", "true")
	t.Setenv("MYMONEY_VOCABULARY_TOTALS", "합계,총계")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8, cfg.Import.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Import.Interval)
	assert.Equal(t, "cp949", cfg.Import.XLSCharset)
	assert.True(t, cfg.Analysis.StrictColumns)
	assert.Equal(t, []string{"합계", "총계"}, cfg.Vocabulary.Totals)
	assert.Equal(t, "data/mymoney.db", cfg.Storage.Path, "unrelated variables such as PATH are ignored")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("import: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no workers", func(c *Config) { c.Import.Workers = 0 }, "Workers"},
		{"negative interval", func(c *Config) { c.Import.Interval = -time.Second }, "Interval"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"no storage", func(c *Config) { c.Storage.Path = "" }, "Path"},
		{"unknown timezone", func(c *Config) { c.Locale.Timezone = "Mars/Olympus" }, "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLocation(t *testing.T) {
	loc, err := Default().Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "path: data/mymoney.db")
	assert.Contains(t, contents, "workers: 4")
	assert.Contains(t, contents, "interval: 30s")
	assert.Contains(t, contents, "timezone: Asia/Seoul")
	assert.NotContains(t, contents, "vocabulary")
}
