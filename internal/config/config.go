// Package config provides configuration types and defaults for oddear.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zjrosen/oddear/internal/assets"
	"github.com/zjrosen/oddear/internal/challenge"
)

// EnvPrefix is prepended to every environment override, e.g. ODDEAR_AUDIO_SILENT.
const EnvPrefix = "ODDEAR"

// Config holds all configuration options for oddear.
type Config struct {
	// Categories maps a category name to its clip identifiers. When empty the
	// sound pack's categories.yaml is used instead.
	Categories map[string][]string `mapstructure:"categories"`
	Sounds     SoundsConfig        `mapstructure:"sounds"`
	Audio      AudioConfig         `mapstructure:"audio"`
	Timing     TimingConfig        `mapstructure:"timing"`
	UI         UIConfig            `mapstructure:"ui"`
	Theme      ThemeConfig         `mapstructure:"theme"`
	Tracing    TracingConfig       `mapstructure:"tracing"`
}

// SoundsConfig selects where clip bytes come from.
type SoundsConfig struct {
	// Source is one of "demo", "dir", "http", "s3".
	Source   string        `mapstructure:"source"`
	Dir      string        `mapstructure:"dir"`
	BaseURL  string        `mapstructure:"base_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// Watch invalidates cached clips when files under Dir change.
	Watch bool     `mapstructure:"watch"`
	S3    S3Config `mapstructure:"s3"`
}

// S3Config holds object store settings for the "s3" source.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// AudioConfig holds playback options.
type AudioConfig struct {
	// Player forces a specific player binary (afplay, ffplay, play, paplay, aplay).
	Player string `mapstructure:"player"`
	// Silent simulates playback without producing sound.
	Silent        bool    `mapstructure:"silent"`
	ToneFrequency float64 `mapstructure:"tone_frequency"`
	ToneGain      float64 `mapstructure:"tone_gain"`
	// SpeedJitter bounds the random playback-rate deviation around 1.0.
	SpeedJitter float64 `mapstructure:"speed_jitter"`
	// CacheSize is the number of staged clips kept on disk.
	CacheSize int `mapstructure:"cache_size"`
}

// TimingConfig holds the pauses between playback and regeneration steps.
type TimingConfig struct {
	InterClipPause  time.Duration `mapstructure:"inter_clip_pause"`
	FetchErrorDelay time.Duration `mapstructure:"fetch_error_delay"`
	RegenerateDelay time.Duration `mapstructure:"regenerate_delay"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowAttempts bool `mapstructure:"show_attempts"`
	Mouse        bool `mapstructure:"mouse"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "catppuccin-latte",
	// "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Keys use dot notation: "text.primary", "status.error", etc.
	Colors map[string]string `mapstructure:"colors"`
}

// TracingConfig controls OpenTelemetry span export.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter is "file" (stdouttrace JSON lines) or "otlp" (gRPC).
	Exporter    string  `mapstructure:"exporter"`
	FilePath    string  `mapstructure:"file_path"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

var (
	validSources   = []string{"demo", "dir", "http", "s3"}
	validExporters = []string{"file", "otlp"}
	validModes     = []string{"", "light", "dark"}
)

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Sounds: SoundsConfig{
			Source:   "demo",
			CacheTTL: 10 * time.Minute,
			Watch:    true,
			S3: S3Config{
				Region: "us-east-1",
				UseSSL: true,
			},
		},
		Audio: AudioConfig{
			ToneFrequency: 60,
			ToneGain:      0.02,
			SpeedJitter:   0.05,
			CacheSize:     32,
		},
		Timing: TimingConfig{
			InterClipPause:  300 * time.Millisecond,
			FetchErrorDelay: 500 * time.Millisecond,
			RegenerateDelay: 1000 * time.Millisecond,
		},
		UI: UIConfig{
			ShowAttempts: true,
			Mouse:        true,
		},
		Tracing: TracingConfig{
			Exporter:    "file",
			SampleRatio: 1,
		},
	}
}

// SetDefaults registers every default with v so environment overrides work
// for keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("categories", map[string][]string{})
	v.SetDefault("sounds.source", d.Sounds.Source)
	v.SetDefault("sounds.dir", d.Sounds.Dir)
	v.SetDefault("sounds.base_url", d.Sounds.BaseURL)
	v.SetDefault("sounds.cache_ttl", d.Sounds.CacheTTL)
	v.SetDefault("sounds.watch", d.Sounds.Watch)
	v.SetDefault("sounds.s3.endpoint", d.Sounds.S3.Endpoint)
	v.SetDefault("sounds.s3.region", d.Sounds.S3.Region)
	v.SetDefault("sounds.s3.access_key", d.Sounds.S3.AccessKey)
	v.SetDefault("sounds.s3.secret_key", d.Sounds.S3.SecretKey)
	v.SetDefault("sounds.s3.bucket", d.Sounds.S3.Bucket)
	v.SetDefault("sounds.s3.prefix", d.Sounds.S3.Prefix)
	v.SetDefault("sounds.s3.use_ssl", d.Sounds.S3.UseSSL)
	v.SetDefault("audio.player", d.Audio.Player)
	v.SetDefault("audio.silent", d.Audio.Silent)
	v.SetDefault("audio.tone_frequency", d.Audio.ToneFrequency)
	v.SetDefault("audio.tone_gain", d.Audio.ToneGain)
	v.SetDefault("audio.speed_jitter", d.Audio.SpeedJitter)
	v.SetDefault("audio.cache_size", d.Audio.CacheSize)
	v.SetDefault("timing.inter_clip_pause", d.Timing.InterClipPause)
	v.SetDefault("timing.fetch_error_delay", d.Timing.FetchErrorDelay)
	v.SetDefault("timing.regenerate_delay", d.Timing.RegenerateDelay)
	v.SetDefault("ui.show_attempts", d.UI.ShowAttempts)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("theme.preset", d.Theme.Preset)
	v.SetDefault("theme.mode", d.Theme.Mode)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("tracing.sample_ratio", d.Tracing.SampleRatio)
}

// DefaultConfigPath returns ~/.config/oddear/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "oddear", "config.yaml")
	}
	return filepath.Join(home, ".config", "oddear", "config.yaml")
}

// Load reads configuration into v and unmarshals it. An explicit path must
// exist; otherwise ./.oddear.yaml and the default path are searched and a
// missing file is not an error. A .env file in the working directory is
// loaded first so credentials can live outside the config file.
// The returned string is the config file used, if any.
func Load(v *viper.Viper, path string) (Config, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, "", fmt.Errorf("loading .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, "", fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		for _, candidate := range []string{".oddear.yaml", DefaultConfigPath()} {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			v.SetConfigFile(candidate)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, "", fmt.Errorf("reading config %s: %w", candidate, err)
			}
			break
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Validate checks the configuration for errors.
func Validate(cfg Config) error {
	if !slices.Contains(validSources, cfg.Sounds.Source) {
		return fmt.Errorf("sounds.source: unknown source %q (valid: %s)",
			cfg.Sounds.Source, strings.Join(validSources, ", "))
	}
	switch cfg.Sounds.Source {
	case "dir":
		if strings.TrimSpace(cfg.Sounds.Dir) == "" {
			return fmt.Errorf("sounds.dir: required when source is dir")
		}
	case "http":
		if strings.TrimSpace(cfg.Sounds.BaseURL) == "" {
			return fmt.Errorf("sounds.base_url: required when source is http")
		}
	case "s3":
		if strings.TrimSpace(cfg.Sounds.S3.Bucket) == "" {
			return fmt.Errorf("sounds.s3.bucket: required when source is s3")
		}
		if strings.TrimSpace(cfg.Sounds.S3.Endpoint) == "" {
			return fmt.Errorf("sounds.s3.endpoint: required when source is s3")
		}
	}
	if cfg.Sounds.CacheTTL < 0 {
		return fmt.Errorf("sounds.cache_ttl: must not be negative")
	}

	if cfg.Audio.ToneFrequency <= 0 {
		return fmt.Errorf("audio.tone_frequency: must be positive, got %v", cfg.Audio.ToneFrequency)
	}
	// Zero reads as unset to the runner.
	if cfg.Audio.ToneGain <= 0 || cfg.Audio.ToneGain > 1 {
		return fmt.Errorf("audio.tone_gain: must be greater than 0 and at most 1, got %v", cfg.Audio.ToneGain)
	}
	if cfg.Audio.SpeedJitter < 0 || cfg.Audio.SpeedJitter >= 0.5 {
		return fmt.Errorf("audio.speed_jitter: must be in [0, 0.5), got %v", cfg.Audio.SpeedJitter)
	}
	if cfg.Audio.CacheSize < 1 {
		return fmt.Errorf("audio.cache_size: must be at least 1, got %d", cfg.Audio.CacheSize)
	}

	for name, d := range map[string]time.Duration{
		"timing.inter_clip_pause":  cfg.Timing.InterClipPause,
		"timing.fetch_error_delay": cfg.Timing.FetchErrorDelay,
		"timing.regenerate_delay":  cfg.Timing.RegenerateDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s: must not be negative", name)
		}
	}

	if !slices.Contains(validModes, cfg.Theme.Mode) {
		return fmt.Errorf("theme.mode: must be light, dark or empty, got %q", cfg.Theme.Mode)
	}

	if cfg.Tracing.Enabled {
		if !slices.Contains(validExporters, cfg.Tracing.Exporter) {
			return fmt.Errorf("tracing.exporter: unknown exporter %q (valid: %s)",
				cfg.Tracing.Exporter, strings.Join(validExporters, ", "))
		}
		if cfg.Tracing.Exporter == "otlp" && strings.TrimSpace(cfg.Tracing.Endpoint) == "" {
			return fmt.Errorf("tracing.endpoint: required when exporter is otlp")
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			return fmt.Errorf("tracing.sample_ratio: must be between 0 and 1, got %v", cfg.Tracing.SampleRatio)
		}
	}

	if len(cfg.Categories) > 0 {
		if err := challenge.Categories(cfg.Categories).Validate(); err != nil {
			return fmt.Errorf("categories: %w", err)
		}
	}
	return nil
}

// AssetOptions converts the sounds section into assets.Options.
func (c Config) AssetOptions() assets.Options {
	return assets.Options{
		Kind:     assets.Kind(c.Sounds.Source),
		Dir:      c.Sounds.Dir,
		BaseURL:  c.Sounds.BaseURL,
		CacheTTL: c.Sounds.CacheTTL,
		Watch:    c.Sounds.Watch,
		S3: assets.S3Config{
			Endpoint:  c.Sounds.S3.Endpoint,
			Region:    c.Sounds.S3.Region,
			AccessKey: c.Sounds.S3.AccessKey,
			SecretKey: c.Sounds.S3.SecretKey,
			Bucket:    c.Sounds.S3.Bucket,
			Prefix:    c.Sounds.S3.Prefix,
			UseSSL:    c.Sounds.S3.UseSSL,
		},
	}
}

// InlineCategories returns the configured categories, or nil when the sound
// pack manifest should be used.
func (c Config) InlineCategories() challenge.Categories {
	if len(c.Categories) == 0 {
		return nil
	}
	return challenge.Categories(c.Categories).Clone()
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Oddear Configuration

# Categories of sounds. Each challenge plays three clips from one category and
# one from another. Every category needs at least three clips, and at least two
# categories are required. Leave this out to use the sound pack's
# categories.yaml instead.
# categories:
#   birds: [/sounds/bird1.wav, /sounds/bird2.wav, /sounds/bird3.wav]
#   cars:  [/sounds/car1.wav, /sounds/car2.wav, /sounds/car3.wav]

# Where clip bytes come from
sounds:
  source: demo          # demo | dir | http | s3
  # dir: /path/to/sounds
  # base_url: https://cdn.example.com/oddear/
  cache_ttl: 10m        # how long fetched clips stay in memory
  watch: true           # refetch clips that change under dir
  # s3:
  #   endpoint: localhost:9000
  #   bucket: oddear-sounds
  #   prefix: packs/default
  #   use_ssl: true
  #   # Prefer ODDEAR_SOUNDS_S3_ACCESS_KEY / ODDEAR_SOUNDS_S3_SECRET_KEY (a .env file works)

# Playback
audio:
  # player: ffplay      # afplay | ffplay | play | paplay | aplay (default: auto-detect)
  silent: false         # simulate playback without sound
  tone_frequency: 60    # background hum in Hz
  tone_gain: 0.02       # hum level, greater than 0 and at most 1
  speed_jitter: 0.05    # playback rate is drawn from [1-jitter, 1+jitter]
  cache_size: 32

# Pauses
timing:
  inter_clip_pause: 300ms
  fetch_error_delay: 500ms
  regenerate_delay: 1s

# UI settings
ui:
  show_attempts: true   # Show "Attempts: n / 3"
  mouse: true           # Clickable Play and Submit buttons

# Theme configuration
theme:
  # Use a preset (run 'oddear themes' to see available presets):
  # preset: catppuccin-mocha
  #
  # Available presets:
  #   default           - Default oddear theme
  #   catppuccin-mocha  - Warm, cozy dark theme
  #   catppuccin-latte  - Warm, cozy light theme
  #   dracula           - Dark theme with vibrant colors
  #   nord              - Arctic, north-bluish palette
  #   high-contrast     - High contrast for accessibility
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   text.primary: "#FFFFFF"
  #   status.error: "#FF0000"

# OpenTelemetry spans for playback and answers
tracing:
  enabled: false
  exporter: file        # file | otlp
  # file_path: /tmp/oddear-traces.jsonl
  # endpoint: localhost:4317
  # insecure: true
  sample_ratio: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
