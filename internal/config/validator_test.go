package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
)

func TestValidatorSetsDefaults(t *testing.T) {
	cfg := Default()
	cfg.Project.Root = "/work/shop"
	cfg.Performance.MaxWorkers = 0
	cfg.Output.Format = ""
	cfg.Watch.DebounceMs = 0

	require.NoError(t, ValidateConfig(cfg))
	assert.GreaterOrEqual(t, cfg.Performance.MaxWorkers, 1)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, DefaultDebounceMs, cfg.Watch.DebounceMs)
	assert.Equal(t, "shop", cfg.Project.Name)
}

func TestValidatorRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty root", func(c *Config) { c.Project.Root = "" }, "project"},
		{"zero file size", func(c *Config) { c.Index.MaxFileSize = 0 }, "index"},
		{"huge file size", func(c *Config) { c.Index.MaxFileSize = 200 * 1024 * 1024 }, "index"},
		{"zero file count", func(c *Config) { c.Index.MaxFileCount = 0 }, "index"},
		{"negative workers", func(c *Config) { c.Performance.MaxWorkers = -1 }, "performance"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -5 }, "watch.debounce_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			var cfgErr *rberrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
