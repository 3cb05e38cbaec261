// Package cmd implements the oddear command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zjrosen/oddear/internal/assets"
	"github.com/zjrosen/oddear/internal/config"
	"github.com/zjrosen/oddear/internal/log"
	"github.com/zjrosen/oddear/internal/runner"
	"github.com/zjrosen/oddear/internal/sound"
	"github.com/zjrosen/oddear/internal/tracing"
	"github.com/zjrosen/oddear/internal/ui/captcha"
	"github.com/zjrosen/oddear/internal/ui/misconfig"
	"github.com/zjrosen/oddear/internal/ui/styles"
)

// Exit conditions of the interactive session. Both make the process exit
// non-zero so oddear can gate a shell command.
var (
	ErrAccessDenied     = errors.New("access denied")
	ErrChallengeAborted = errors.New("challenge not completed")
)

const (
	defaultDebugLog   = "oddear-debug.log"
	misconfigLogLines = 4
)

var (
	version = "dev"

	cfgFile  string
	debug    bool
	logPath  string
	useDemo  bool
	cfg      config.Config
	cfgPath  string
	cfgErr   error
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "oddear",
	Short: "Odd-one-out audio CAPTCHA for the terminal",
	Long: `oddear plays four short sounds over a low masking tone. Three come from
the same category and one does not. Name the odd one within three attempts
to pass.`,
	SilenceUsage:       true,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeLog() },
	RunE:               runApp,
}

// Execute runs the root command.
func Execute(ver string) error {
	version = ver
	rootCmd.Version = ver
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default ./.oddear.yaml, then ~/.config/oddear/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "",
		"log file path (default "+defaultDebugLog+" when --debug is set)")
	rootCmd.PersistentFlags().BoolVar(&useDemo, "demo", false, "use the built-in sound pack and categories")
	rootCmd.PersistentFlags().Bool("silent", false, "simulate playback without producing sound")
	rootCmd.PersistentFlags().String("source", "", "sound source: demo, dir, http, s3")
	rootCmd.PersistentFlags().String("sounds-dir", "", "directory holding clips for the dir source")
}

// newViper returns a viper instance with the config flags bound.
func newViper(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlag("audio.silent", flags.Lookup("silent"))
	_ = v.BindPFlag("sounds.source", flags.Lookup("source"))
	_ = v.BindPFlag("sounds.dir", flags.Lookup("sounds-dir"))
	return v
}

// loadConfig reads and validates configuration. Read failures abort the
// command; validation failures are kept in cfgErr so the interactive
// session can explain them.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if os.Getenv(config.EnvPrefix+"_DEBUG") != "" {
		debug = true
	}
	path := logPath
	if path == "" && debug {
		path = defaultDebugLog
	}
	closer, err := log.Init(path, debug)
	if err != nil {
		return err
	}
	closeLog = closer

	loaded, used, err := config.Load(newViper(cmd.Root().PersistentFlags()), cfgFile)
	if err != nil {
		return err
	}
	if useDemo {
		loaded.Sounds.Source = string(assets.KindDemo)
		loaded.Categories = nil
	}
	cfg, cfgPath = loaded, used
	cfgErr = config.Validate(cfg)

	log.Info(log.CatConfig, "Configuration loaded", "file", cfgPath,
		"source", cfg.Sounds.Source, "silent", cfg.Audio.Silent)
	if cfgErr != nil {
		log.ErrorErr(log.CatConfig, "Invalid configuration", cfgErr)
	}
	return nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	applyTheme()

	shutdown, err := tracing.Init(ctx, tracingConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}()

	if cfgErr != nil {
		return runMisconfig(ctx, cfgErr)
	}

	sess, err := openSession(ctx, cmd.ErrOrStderr())
	if err != nil {
		return runMisconfig(ctx, err)
	}
	defer sess.Close()

	zones := zone.New()
	defer zones.Close()

	model := captcha.New(captcha.Config{
		Runner:       sess.runner,
		Feed:         sess.feed,
		Zones:        zones,
		Context:      ctx,
		ShowAttempts: cfg.UI.ShowAttempts,
		Badge:        sess.badge(),
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", err)
	}
	// Stops a sequence that is still playing.
	cancel()

	return outcomeError(sess.runner.Snapshot())
}

// outcomeError maps the final session state to the command's result.
func outcomeError(snap runner.Snapshot) error {
	switch snap.Outcome {
	case runner.Success:
		return nil
	case runner.Blocked:
		return ErrAccessDenied
	default:
		return ErrChallengeAborted
	}
}

func runMisconfig(ctx context.Context, err error) error {
	view := misconfig.New(err, cfgPath).WithLog(log.RecentProblems(misconfigLogLines))
	p := tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, runErr := p.Run(); runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", runErr)
	}
	return err
}

func applyTheme() {
	styles.DetectBackground()
	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.Colors,
	}); err != nil {
		log.ErrorErr(log.CatConfig, "Invalid theme, using defaults", err)
	}
}

func tracingConfig() tracing.Config {
	return tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Exporter:    cfg.Tracing.Exporter,
		FilePath:    cfg.Tracing.FilePath,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		ServiceName: "oddear",
		Version:     version,
	}
}

// session bundles everything a running challenge owns.
type session struct {
	pack   *assets.Pack
	output sound.Output
	silent bool
	runner *runner.Runner
	feed   *captcha.Feed
}

// openSession opens the sound pack and audio output and builds the runner.
// A missing audio player falls back to silent playback with a warning.
func openSession(ctx context.Context, warn io.Writer) (*session, error) {
	pack, cats, _, err := openCategories(ctx)
	if err != nil {
		return nil, err
	}
	s := &session{pack: pack, feed: captcha.NewFeed()}

	if cfg.Audio.Silent {
		s.output, s.silent = sound.NewHeadless(), true
	} else {
		dev, err := sound.Open(sound.DeviceConfig{Player: cfg.Audio.Player, CacheSize: cfg.Audio.CacheSize})
		if err != nil {
			log.ErrorErr(log.CatAudio, "No audio device, playing silently", err)
			_, _ = fmt.Fprintf(warn, "warning: %v; running silent\n", err)
			s.output, s.silent = sound.NewHeadless(), true
		} else {
			log.Info(log.CatAudio, "Audio device opened", "player", dev.PlayerName())
			s.output = dev
		}
	}

	timing := runner.Timing{
		InterClipPause:  cfg.Timing.InterClipPause,
		FetchErrorDelay: cfg.Timing.FetchErrorDelay,
		RegenerateDelay: cfg.Timing.RegenerateDelay,
	}
	s.runner, err = runner.New(runner.Config{
		Categories:    cats,
		Source:        pack.Source,
		Output:        s.output,
		Timing:        &timing,
		ToneFrequency: cfg.Audio.ToneFrequency,
		ToneGain:      cfg.Audio.ToneGain,
		SpeedJitter:   cfg.Audio.SpeedJitter,
		OnStatus:      s.feed.Sink(),
		Tracer:        tracing.Tracer(),
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// badge names the sound source and any playback caveats for the panel
// border, e.g. "dir · live · silent".
func (s *session) badge() string {
	parts := []string{string(s.pack.Kind)}
	if s.pack.Watching() {
		parts = append(parts, "live")
	}
	if s.silent {
		parts = append(parts, "silent")
	}
	return strings.Join(parts, " · ")
}

// Close releases the audio output and stops the pack watcher.
func (s *session) Close() {
	if c, ok := s.output.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			log.ErrorErr(log.CatAudio, "Failed to close audio output", err)
		}
	}
	if err := s.pack.Close(); err != nil {
		log.ErrorErr(log.CatAssets, "Failed to close sound pack", err)
	}
}
