package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/encryption"
)

func valid() config.Config {
	return config.Config{
		Database:    "vault.db",
		BlobBackend: "fs",
		BlobDir:     "blobs",
		Cipher:      "fernet",
		Parallel:    4,
		LogLevel:    "warn",
		LogFormat:   "text",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := valid()
	require.NoError(t, cfg.Validate(cfg))

	tests := map[string]struct {
		mutate func(*config.Config)
		field  string
	}{
		"missing db":       {func(c *config.Config) { c.Database = "" }, "--db"},
		"unknown backend":  {func(c *config.Config) { c.BlobBackend = "s3" }, "--blob-backend"},
		"missing blob dir": {func(c *config.Config) { c.BlobDir = "" }, "--blob-dir"},
		"unknown cipher":   {func(c *config.Config) { c.Cipher = "rot13" }, "--cipher"},
		"zero parallel":    {func(c *config.Config) { c.Parallel = 0 }, "--parallel"},
		"bad log level":    {func(c *config.Config) { c.LogLevel = "loud" }, "--log-level"},
		"bad log format":   {func(c *config.Config) { c.LogFormat = "xml" }, "--log-format"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate(&cfg)
			require.ErrorIs(t, err, validator.ErrValidation)
			require.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLogLevelMessage(t *testing.T) {
	t.Parallel()

	cfg := valid()
	cfg.LogLevel = "loud"

	err := cfg.Validate(cfg)
	require.ErrorContains(t, err, "--log-level must be one of trace, debug, info, warn, error, fatal or panic")
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	cfg := valid()
	require.False(t, cfg.Display())

	cfg.Show = true
	require.True(t, cfg.Display())
}

func TestMode(t *testing.T) {
	t.Parallel()

	cfg := valid()

	mode, err := cfg.Mode()
	require.NoError(t, err)
	require.Equal(t, encryption.ModeFernet, mode)

	cfg.Cipher = "gcm"

	mode, err = cfg.Mode()
	require.NoError(t, err)
	require.Equal(t, encryption.ModeGCM, mode)
}
