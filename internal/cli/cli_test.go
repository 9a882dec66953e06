package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project_switcher/internal/discovery"
	"project_switcher/internal/logging"
	"project_switcher/internal/tui"
)

// writeFinder installs a shell script that stands in for fd
func writeFinder(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-fd")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(logging.EnvLogLevel, "off")
	t.Chdir(t.TempDir())

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "project_switcher "+version+"\n", out)
}

func TestListCmd(t *testing.T) {
	home := isolate(t)
	finder := writeFinder(t, `printf '/src/web/.git/\n/src/api/.git/\nnot a project\n'`)

	out, err := execute(t, "list", "--finder", finder, "--roots", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "api\t/src/api\ndefault\t"+home+"\nweb\t/src/web\n", out)
}

func TestListCmdConfigFile(t *testing.T) {
	isolate(t)
	finder := writeFinder(t, `printf '/src/api/.git/\n/src/node_modules/dep/.git/\n'`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "finder: " + finder + "\n" +
		"ignore:\n  - \"/**/node_modules/**\"\n" +
		"defaults:\n  scratch: /tmp/scratch\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, err := execute(t, "list", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "api\t/src/api\n")
	assert.Contains(t, out, "scratch\t/tmp/scratch\n")
	assert.NotContains(t, out, "dep\t")
}

func TestListCmdFinderFails(t *testing.T) {
	isolate(t)
	finder := writeFinder(t, `echo "boom" >&2; exit 2`)

	_, err := execute(t, "list", "--finder", finder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestListCmdBadConfig(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("theme: neon\n"), 0o644))

	_, err := execute(t, "list", "--config", cfgPath)
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	isolate(t)
	o := &options{}
	root := newRootCmd(o)
	require.NoError(t, root.ParseFlags([]string{
		"--roots", "/a:/b",
		"--finder", "fdfind",
		"--max-depth", "4",
		"--tmux", "/opt/tmux",
		"--no-watch",
	}))

	cfg, err := o.loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, cfg.RootList())
	assert.Equal(t, "fdfind", cfg.Finder)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, "/opt/tmux", cfg.Tmux)
	assert.False(t, cfg.Watch)
}

func TestLoadConfigKeepsFileValues(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_depth: 5\nfinder: fdfind\n"), 0o644))

	o := &options{}
	root := newRootCmd(o)
	require.NoError(t, root.ParseFlags([]string{"--config", cfgPath}))

	cfg, err := o.loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxDepth, "unset --max-depth must not clobber the file")
	assert.Equal(t, "fdfind", cfg.Finder)
	assert.True(t, cfg.Watch)
}

func TestSessionFunc(t *testing.T) {
	o := &options{currentSession: "dotfiles"}
	fn := o.sessionFunc(nil)
	require.NotNil(t, fn)
	got, err := fn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dotfiles", got)

	assert.Nil(t, (&options{}).sessionFunc(nil))
}

func TestForwardRescans(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := discovery.NewWatcher([]string{t.TempDir()}, time.Millisecond, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	got := make(chan tea.Msg, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		forwardRescans(ctx, w, func(msg tea.Msg) { got <- msg }, logger)
	}()

	ev := discovery.RescanEvent{Root: "/src", Reason: "/src/new"}
	w.Events <- ev

	select {
	case msg := <-got:
		assert.Equal(t, tui.RescanMsg(ev), msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for forwarded rescan")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder did not stop")
	}
}
