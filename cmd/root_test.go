package cmd

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/oddear/internal/config"
	"github.com/zjrosen/oddear/internal/runner"
	"github.com/zjrosen/oddear/internal/sound"
)

// isolate gives the test an empty working directory and home, and resets
// flag state left behind by earlier command runs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		for _, set := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			set.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	}
	cfg, cfgPath, cfgErr = config.Config{}, "", nil
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// copyDemoPack writes the bundled demo pack into dir.
func copyDemoPack(t *testing.T, dir string) {
	t.Helper()
	demo := sound.DemoFS()
	entries, err := fs.ReadDir(demo, ".")
	require.NoError(t, err)
	for _, e := range entries {
		data, err := fs.ReadFile(demo, e.Name())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0o600))
	}
}

func TestLoadConfig_InvalidKeptForView(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "sounds:\n  source: ftp\n")

	_, err := execute(t, "--config", path, "themes")
	require.NoError(t, err, "themes does not need a valid config")
	require.Error(t, cfgErr)
	assert.Contains(t, cfgErr.Error(), `unknown source "ftp"`)
	assert.Equal(t, path, cfgPath)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := execute(t, "--config", filepath.Join(dir, "nope.yaml"), "themes")
	require.Error(t, err)
}

func TestLoadConfig_DemoFlagOverridesSource(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.yaml")
	writeFile(t, path, "sounds:\n  source: http\ncategories:\n  a: [x, y, z]\n")

	_, err := execute(t, "--config", path, "--demo", "themes")
	require.NoError(t, err)
	require.NoError(t, cfgErr)
	assert.Equal(t, "demo", cfg.Sounds.Source)
	assert.Nil(t, cfg.InlineCategories())
}

func TestLoadConfig_FlagsBindToConfig(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--silent", "--source", "dir", "--sounds-dir", "/srv/sounds", "themes")
	require.NoError(t, err)
	assert.True(t, cfg.Audio.Silent)
	assert.Equal(t, "dir", cfg.Sounds.Source)
	assert.Equal(t, "/srv/sounds", cfg.Sounds.Dir)
}

func TestThemes_ListsPresets(t *testing.T) {
	isolate(t)
	out, err := execute(t, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "dracula")
	assert.Contains(t, out, "* default")
}

func TestInit_WritesAndRefusesOverwrite(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "init", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote .oddear.yaml")

	data, err := os.ReadFile(filepath.Join(dir, ".oddear.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigTemplate(), string(data))

	_, err = execute(t, "init", "--local")
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", "--local", "--force")
	require.NoError(t, err)
}

func TestInit_UserConfig(t *testing.T) {
	isolate(t)
	_, err := execute(t, "init")
	require.NoError(t, err)
	_, err = os.Stat(config.DefaultConfigPath())
	require.NoError(t, err)
}

func TestCategories_DemoManifest(t *testing.T) {
	isolate(t)
	out, err := execute(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "demo source, from categories.yaml")
	assert.Contains(t, out, "chirp")
	assert.Contains(t, out, "hum2.wav")
	assert.Contains(t, out, "4 categories, 12 clips")
}

func TestCategories_Inline(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".oddear.yaml"),
		"categories:\n  birds: [chirp1.wav, chirp2.wav, chirp3.wav]\n  engines: [hum1.wav, hum2.wav, hum3.wav]\n")

	out, err := execute(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "from config")
	assert.Contains(t, out, "birds")
	assert.Contains(t, out, "2 categories, 6 clips")
}

func TestCategories_InvalidConfigFails(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".oddear.yaml"), "audio:\n  tone_gain: 2\n")
	_, err := execute(t, "categories")
	require.ErrorContains(t, err, "tone_gain")
}

func TestCheck_DemoPackPasses(t *testing.T) {
	isolate(t)
	out, err := execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Checking 12 clips")
	assert.Contains(t, out, "All clips OK")
	assert.NotContains(t, out, "FAIL")
}

func TestCheck_DirReportsBrokenClips(t *testing.T) {
	dir := isolate(t)
	pack := filepath.Join(dir, "pack")
	require.NoError(t, os.MkdirAll(pack, 0o750))
	copyDemoPack(t, pack)
	writeFile(t, filepath.Join(pack, "noise2.wav"), "not audio")
	require.NoError(t, os.Remove(filepath.Join(pack, "click3.wav")))

	out, err := execute(t, "check", "--source", "dir", "--sounds-dir", pack)
	require.ErrorContains(t, err, "2 of 12 clips failed")
	assert.Contains(t, out, "FAIL  click3.wav")
	assert.Contains(t, out, "FAIL  noise2.wav")
	assert.Contains(t, out, "ok    hum1.wav")
}

func TestOpenSession_SilentDemo(t *testing.T) {
	isolate(t)
	cfg = config.Defaults()
	cfg.Audio.Silent = true

	sess, err := openSession(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	assert.Equal(t, "demo · silent", sess.badge())
	assert.Equal(t, runner.InProgress, sess.runner.Snapshot().Outcome)
	assert.Equal(t, 300*time.Millisecond, sess.runner.Timing().InterClipPause)
}

func TestOpenSession_DirPackWatched(t *testing.T) {
	dir := isolate(t)
	copyDemoPack(t, dir)
	cfg = config.Defaults()
	cfg.Audio.Silent = true
	cfg.Sounds.Source = "dir"
	cfg.Sounds.Dir = dir

	sess, err := openSession(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	assert.Equal(t, "dir · live · silent", sess.badge())

	cfg.Sounds.Watch = false
	unwatched, err := openSession(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(unwatched.Close)
	assert.Equal(t, "dir · silent", unwatched.badge())
}

func TestOpenSession_UnknownPlayerFallsBackToSilent(t *testing.T) {
	isolate(t)
	cfg = config.Defaults()
	cfg.Audio.Player = "no-such-player"

	var warn bytes.Buffer
	sess, err := openSession(context.Background(), &warn)
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	assert.True(t, sess.silent)
	assert.Contains(t, warn.String(), "running silent")
}

func TestOpenSession_BadCategories(t *testing.T) {
	isolate(t)
	cfg = config.Defaults()
	cfg.Audio.Silent = true
	cfg.Categories = map[string][]string{"only": {"a", "b", "c"}}

	_, err := openSession(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
}

func TestOutcomeError(t *testing.T) {
	tests := []struct {
		outcome runner.Outcome
		want    error
	}{
		{runner.Success, nil},
		{runner.Blocked, ErrAccessDenied},
		{runner.InProgress, ErrChallengeAborted},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeError(runner.Snapshot{Outcome: tt.outcome}))
		})
	}
}
