package filltest

import (
	"math"
	"testing"

	"github.com/hupe1980/filltest/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero file size", func(c *Config) { c.FileSizeMiB = 0 }, "FileSizeMiB"},
		{"negative file limit", func(c *Config) { c.FileLimit = -1 }, "FileLimit"},
		{"file limit with top-off", func(c *Config) { c.FileLimit = 3; c.TopOff = true }, ""},
		{"file limit alone", func(c *Config) { c.FileLimit = 3 }, ""},
		{"top-off without block size", func(c *Config) { c.TopOff = true; c.TopOffSectors = 0 }, "TopOffSectors"},
		{"block size unused", func(c *Config) { c.TopOffSectors = 0 }, ""},
		{"verify-only with unlink-immediate", func(c *Config) { c.VerifyOnly = true; c.UnlinkImmediate = true }, "UnlinkImmediate"},
		{"verify-only with unlink-after", func(c *Config) { c.VerifyOnly = true; c.UnlinkAfter = true }, ""},
		{"negative io limit", func(c *Config) { c.IOLimitBytesPerSec = -1 }, "IOLimitBytesPerSec"},
		{"negative memory limit", func(c *Config) { c.MemoryLimitBytes = -1 }, "MemoryLimitBytes"},
		{"memory limit below large block", func(c *Config) { c.MemoryLimitBytes = 4096 }, "MemoryLimitBytes"},
		{"memory limit of one large block", func(c *Config) { c.MemoryLimitBytes = 1 << 20 }, ""},
		{"memory limit below top-off block", func(c *Config) {
			c.TopOff = true
			c.TopOffSectors = 4096
			c.MemoryLimitBytes = 1 << 20
		}, "MemoryLimitBytes"},
		{"big top-off block with file limit", func(c *Config) {
			c.TopOff = true
			c.TopOffSectors = 4096
			c.FileLimit = 1
			c.MemoryLimitBytes = 1 << 20
		}, ""},
		{"top-off block overflows", func(c *Config) { c.TopOff = true; c.TopOffSectors = math.MaxInt }, "TopOffSectors"},
		{"largest 32-bit seed", func(c *Config) { c.Seed = math.MaxUint32 }, ""},
		{"seed beyond 32 bits", func(c *Config) { c.Seed = math.MaxUint32 + 1 }, "Seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ic *ErrInvalidConfig
			require.ErrorAs(t, err, &ic)
			assert.Equal(t, tt.field, ic.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestConfig_Normalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopOff = true

	got, notes := cfg.Normalize()
	assert.Equal(t, cfg, got)
	assert.Empty(t, notes)

	cfg.FileLimit = 2
	got, notes = cfg.Normalize()
	assert.False(t, got.TopOff)
	assert.Equal(t, 2, got.FileLimit)
	assert.Equal(t, []string{"file limit set, top-off phase disabled"}, notes)
	assert.True(t, cfg.TopOff, "receiver is left alone")
	assert.Nil(t, got.VerifyLaterArgs())
}

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, engine.DefaultSeed, cfg.Seed)
	assert.Equal(t, 1024, cfg.FileSizeMiB)
	assert.Equal(t, 8, cfg.TopOffSectors)
	assert.False(t, cfg.TopOff)
	assert.Zero(t, cfg.FileLimit)
}

func TestConfig_VerifyLaterArgs(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.VerifyLaterArgs())

	cfg.TopOff = true
	assert.Equal(t, []string{"-v", "-z"}, cfg.VerifyLaterArgs())

	cfg.TopOffSectors = 16
	cfg.Seed = 42
	cfg.FileSizeMiB = 64
	assert.Equal(t, []string{"-v", "-S", "64", "-s", "42", "-d", "16"}, cfg.VerifyLaterArgs())

	cfg.UnlinkImmediate = true
	assert.Nil(t, cfg.VerifyLaterArgs())

	cfg.UnlinkImmediate = false
	cfg.VerifyOnly = true
	assert.Nil(t, cfg.VerifyLaterArgs())
}
