// Package config handles ospfdump configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/ospfdump/internal/core"
)

// GlobalConfig is the top-level configuration.
// Maps to the `ospfdump:` root key in YAML.
type GlobalConfig struct {
	Display DisplayConfig `mapstructure:"display"`
	Capture CaptureConfig `mapstructure:"capture"`
	Log     LogConfig     `mapstructure:"log"`

	// Filter is decoded separately, see decodeFilter.
	Filter FilterConfig `mapstructure:"-"`
}

// ─── Display ───

// DisplayConfig holds the dissector display flags.
type DisplayConfig struct {
	Quiet                bool `mapstructure:"quiet"`
	Header               bool `mapstructure:"header"`
	Verbose              int  `mapstructure:"verbose"`
	HexDump              bool `mapstructure:"hex_dump"`
	SuppressDefaultPrint bool `mapstructure:"suppress_default_print"`
	MaxEncapDepth        int  `mapstructure:"max_encap_depth"`
}

// Options converts the display section into dissector options.
func (d DisplayConfig) Options() core.Options {
	return core.Options{
		Quiet:                d.Quiet,
		PrintHeader:          d.Header,
		Verbose:              d.Verbose,
		HexDump:              d.HexDump,
		SuppressDefaultPrint: d.SuppressDefaultPrint,
		MaxEncapDepth:        d.MaxEncapDepth,
	}
}

// ─── Capture ───

// CaptureConfig selects the capture source and how much of it to read.
type CaptureConfig struct {
	File            string `mapstructure:"file"`
	Count           int    `mapstructure:"count"`            // 0 = read to EOF
	ChannelCapacity int    `mapstructure:"channel_capacity"` // capture → dissect buffer
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`   // trace / debug / info / warn / error
	Pattern string           `mapstructure:"pattern"` // %time [%level] %field %msg
	Time    string           `mapstructure:"time"`    // Go time layout for %time
	File    FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures rotated file log output.
type FileOutputConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// ─── Loading ───

const rootKey = "ospfdump"

// configRoot is the top-level wrapper matching the YAML structure `ospfdump: ...`.
type configRoot struct {
	Ospfdump GlobalConfig `mapstructure:"ospfdump"`
}

// Load loads configuration from path. An empty path yields the defaults,
// still subject to environment overrides (e.g. OSPFDUMP_DISPLAY_VERBOSE).
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// key "ospfdump.log.level" → env "OSPFDUMP_LOG_LEVEL"
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Ospfdump

	filter, err := decodeFilter(v.Get(rootKey + ".filter.ether_types"))
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %v", core.ErrConfigInvalid, err)
	}
	cfg.Filter = filter

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *GlobalConfig {
	cfg, err := Load("")
	if err != nil {
		// only reachable through a malformed OSPFDUMP_* environment
		cfg = &GlobalConfig{}
		_ = cfg.ValidateAndApplyDefaults()
	}
	return cfg
}

// setDefaults sets default values under the "ospfdump." prefix.
func setDefaults(v *viper.Viper) {
	// Display defaults
	v.SetDefault("ospfdump.display.quiet", false)
	v.SetDefault("ospfdump.display.header", false)
	v.SetDefault("ospfdump.display.verbose", 0)
	v.SetDefault("ospfdump.display.hex_dump", false)
	v.SetDefault("ospfdump.display.suppress_default_print", false)
	v.SetDefault("ospfdump.display.max_encap_depth", core.DefaultMaxEncapDepth)

	// Capture defaults
	v.SetDefault("ospfdump.capture.file", "")
	v.SetDefault("ospfdump.capture.count", 0)
	v.SetDefault("ospfdump.capture.channel_capacity", 1024)

	// Filter defaults: accept everything
	v.SetDefault("ospfdump.filter.ether_types", []string{})

	// Log defaults
	v.SetDefault("ospfdump.log.level", "info")
	v.SetDefault("ospfdump.log.pattern", "%time [%level] %field %msg\n")
	v.SetDefault("ospfdump.log.time", "2006-01-02 15:04:05")
	v.SetDefault("ospfdump.log.file.enabled", false)
	v.SetDefault("ospfdump.log.file.path", "ospfdump.log")
	v.SetDefault("ospfdump.log.file.max_size_mb", 100)
	v.SetDefault("ospfdump.log.file.max_age_days", 30)
	v.SetDefault("ospfdump.log.file.max_backups", 5)
	v.SetDefault("ospfdump.log.file.compress", true)
}

// ValidateAndApplyDefaults validates configuration and fills runtime defaults
// that viper cannot express.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: invalid log level: %s (must be trace/debug/info/warn/error)", core.ErrConfigInvalid, cfg.Log.Level)
	}
	if cfg.Log.Pattern == "" {
		cfg.Log.Pattern = "%time [%level] %field %msg\n"
	}
	if cfg.Log.Time == "" {
		cfg.Log.Time = "2006-01-02 15:04:05"
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return fmt.Errorf("%w: log.file.path is required when log.file.enabled=true", core.ErrConfigInvalid)
	}

	// ── Display validation ──
	if cfg.Display.Verbose < 0 {
		return fmt.Errorf("%w: display.verbose must not be negative", core.ErrConfigInvalid)
	}
	if cfg.Display.MaxEncapDepth < 0 {
		return fmt.Errorf("%w: display.max_encap_depth must not be negative", core.ErrConfigInvalid)
	}
	if cfg.Display.MaxEncapDepth == 0 {
		cfg.Display.MaxEncapDepth = core.DefaultMaxEncapDepth
	}

	// ── Capture validation ──
	if cfg.Capture.Count < 0 {
		return fmt.Errorf("%w: capture.count must not be negative", core.ErrConfigInvalid)
	}
	if cfg.Capture.ChannelCapacity <= 0 {
		cfg.Capture.ChannelCapacity = 1024
	}
	return nil
}
