package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/oddear/internal/assets"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))

	require.Equal(t, "demo", cfg.Sounds.Source)
	require.Equal(t, 60.0, cfg.Audio.ToneFrequency)
	require.Equal(t, 0.02, cfg.Audio.ToneGain)
	require.Equal(t, 300*time.Millisecond, cfg.Timing.InterClipPause)
	require.Equal(t, 500*time.Millisecond, cfg.Timing.FetchErrorDelay)
	require.Equal(t, time.Second, cfg.Timing.RegenerateDelay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown source", func(c *Config) { c.Sounds.Source = "ftp" }, `unknown source "ftp"`},
		{"dir without path", func(c *Config) { c.Sounds.Source = "dir" }, "sounds.dir: required"},
		{"http without url", func(c *Config) { c.Sounds.Source = "http" }, "sounds.base_url: required"},
		{"s3 without bucket", func(c *Config) {
			c.Sounds.Source = "s3"
			c.Sounds.S3.Endpoint = "localhost:9000"
		}, "sounds.s3.bucket: required"},
		{"s3 without endpoint", func(c *Config) {
			c.Sounds.Source = "s3"
			c.Sounds.S3.Bucket = "b"
		}, "sounds.s3.endpoint: required"},
		{"negative ttl", func(c *Config) { c.Sounds.CacheTTL = -time.Second }, "cache_ttl"},
		{"zero frequency", func(c *Config) { c.Audio.ToneFrequency = 0 }, "tone_frequency"},
		{"gain too loud", func(c *Config) { c.Audio.ToneGain = 1.5 }, "tone_gain"},
		{"gain zero", func(c *Config) { c.Audio.ToneGain = 0 }, "tone_gain: must be greater than 0"},
		{"gain negative", func(c *Config) { c.Audio.ToneGain = -0.1 }, "tone_gain"},
		{"jitter too wide", func(c *Config) { c.Audio.SpeedJitter = 0.5 }, "speed_jitter"},
		{"cache size zero", func(c *Config) { c.Audio.CacheSize = 0 }, "cache_size"},
		{"negative pause", func(c *Config) { c.Timing.InterClipPause = -1 }, "timing.inter_clip_pause"},
		{"bad mode", func(c *Config) { c.Theme.Mode = "sepia" }, "theme.mode"},
		{"bad exporter", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "zipkin"
		}, `unknown exporter "zipkin"`},
		{"otlp without endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
		}, "tracing.endpoint"},
		{"one category", func(c *Config) {
			c.Categories = map[string][]string{"birds": {"a", "b", "c"}}
		}, "need at least 2 categories"},
		{"short category", func(c *Config) {
			c.Categories = map[string][]string{"birds": {"a", "b", "c"}, "cars": {"x", "y"}}
		}, `category "cars" needs at least 3 clips`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DisabledTracingIgnoresExporter(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Exporter = "zipkin"
	require.NoError(t, Validate(cfg))
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  birds: [/sounds/bird1.wav, /sounds/bird2.wav, /sounds/bird3.wav]
  cars: [/sounds/car1.wav, /sounds/car2.wav, /sounds/car3.wav]
sounds:
  source: http
  base_url: https://cdn.example.com/pack/
  cache_ttl: 2m
timing:
  inter_clip_pause: 150ms
audio:
  silent: true
`), 0o600))

	cfg, used, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.NoError(t, Validate(cfg))

	require.Equal(t, "http", cfg.Sounds.Source)
	require.Equal(t, 2*time.Minute, cfg.Sounds.CacheTTL)
	require.Equal(t, 150*time.Millisecond, cfg.Timing.InterClipPause)
	// Untouched keys keep defaults.
	require.Equal(t, 500*time.Millisecond, cfg.Timing.FetchErrorDelay)
	require.True(t, cfg.Audio.Silent)
	require.Equal(t, []string{"birds", "cars"}, cfg.InlineCategories().Names())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "reading config")
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, used, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Empty(t, used)
	require.Equal(t, Defaults().Sounds.Source, cfg.Sounds.Source)
	require.Nil(t, cfg.InlineCategories())
}

func TestLoad_LocalFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(".oddear.yaml", []byte("audio:\n  tone_gain: 0.1\n"), 0o600))

	cfg, used, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, ".oddear.yaml", used)
	require.Equal(t, 0.1, cfg.Audio.ToneGain)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ODDEAR_AUDIO_SILENT", "true")
	t.Setenv("ODDEAR_SOUNDS_S3_ACCESS_KEY", "from-env")

	cfg, _, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.True(t, cfg.Audio.Silent)
	require.Equal(t, "from-env", cfg.Sounds.S3.AccessKey)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	// Registered with t.Setenv so the value is restored after the test.
	t.Setenv("ODDEAR_SOUNDS_S3_SECRET_KEY", "")
	require.NoError(t, os.Unsetenv("ODDEAR_SOUNDS_S3_SECRET_KEY"))
	require.NoError(t, os.WriteFile(".env", []byte("ODDEAR_SOUNDS_S3_SECRET_KEY=dotenv-secret\n"), 0o600))

	cfg, _, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, "dotenv-secret", cfg.Sounds.S3.SecretKey)
}

func TestAssetOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Sounds.Source = "s3"
	cfg.Sounds.S3.Bucket = "sounds"
	cfg.Sounds.S3.Prefix = "packs/a"

	opts := cfg.AssetOptions()
	require.Equal(t, assets.KindS3, opts.Kind)
	require.Equal(t, "sounds", opts.S3.Bucket)
	require.Equal(t, "packs/a", opts.S3.Prefix)
	require.Equal(t, cfg.Sounds.CacheTTL, opts.CacheTTL)
}

func TestInlineCategories_Copy(t *testing.T) {
	cfg := Defaults()
	cfg.Categories = map[string][]string{"a": {"1", "2", "3"}, "b": {"4", "5", "6"}}

	cats := cfg.InlineCategories()
	cats["a"][0] = "changed"
	require.Equal(t, "1", cfg.Categories["a"][0])
}

func TestDefaultConfigTemplate_ParsesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, Validate(cfg))

	d := Defaults()
	require.Equal(t, d.Sounds, cfg.Sounds)
	require.Equal(t, d.Audio, cfg.Audio)
	require.Equal(t, d.Timing, cfg.Timing)
	require.Equal(t, d.UI, cfg.UI)
	require.Equal(t, d.Tracing, cfg.Tracing)
}

func TestWriteDefaultConfig_CreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
