package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwveysey/coding-agent-notifications/internal/app"
	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
)

type quietNotifier struct{ sent int }

func (n *quietNotifier) NotifyInstalled() error   { n.sent++; return nil }
func (n *quietNotifier) NotifyUninstalled() error { n.sent++; return nil }
func (n *quietNotifier) NotifyTest(string) error  { n.sent++; return nil }

type cliEnv struct {
	home      string
	resources string
	notifier  *quietNotifier
}

func setupCLITestEnv(t *testing.T) *cliEnv {
	t.Helper()
	root := t.TempDir()
	env := &cliEnv{
		home:      filepath.Join(root, "home"),
		resources: filepath.Join(root, "resources"),
		notifier:  &quietNotifier{},
	}
	script := filepath.Join(env.resources, "scripts", config.MarkerScript)
	require.NoError(t, os.MkdirAll(filepath.Dir(script), 0o755))
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/bash\n"), 0o755))
	return env
}

func (e *cliEnv) paths() *config.Paths {
	return config.NewPaths(e.home, e.resources)
}

func runCLI(t *testing.T, env *cliEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(func(d *app.Deps) { d.Notifier = env.notifier })
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--home", env.home, "--resources", env.resources}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "version")
	require.NoError(t, err)
	assert.Equal(t, "audio-notifier "+version+"\n", out)
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, env.paths().ConfigFile()+"\n", out)

	out, _, err = runCLI(t, env, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "{event} event")
	assert.NoFileExists(t, env.paths().ConfigFile())

	out, _, err = runCLI(t, env, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")
	assert.FileExists(t, env.paths().ConfigFile())

	_, _, err = runCLI(t, env, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	out, _, err = runCLI(t, env, "config", "show", "--json")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.ProviderFishAudio, cfg.GlobalSettings.VoiceProvider)
}

func TestSoundsCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "sounds", "status")
	require.NoError(t, err)
	assert.Equal(t, "Sounds off\n", out)

	_, _, err = runCLI(t, env, "sounds", "on")
	require.NoError(t, err)
	assert.FileExists(t, env.paths().SoundsEnabledFile())

	out, _, err = runCLI(t, env, "sounds", "status")
	require.NoError(t, err)
	assert.Equal(t, "Sounds on\n", out)

	_, _, err = runCLI(t, env, "sounds", "off")
	require.NoError(t, err)
	assert.NoFileExists(t, env.paths().SoundsEnabledFile())
}

func TestInstallInfoUninstall(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "info")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	out, _, err := runCLI(t, env, "install")
	require.NoError(t, err)
	assert.Contains(t, out, "Installation complete!")
	assert.Equal(t, 1, env.notifier.sent)

	out, _, err = runCLI(t, env, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Hooks added")
	assert.Contains(t, out, "Installed")
	assert.Contains(t, out, "none (no settings file existed)")

	out, _, err = runCLI(t, env, "export-log")
	require.NoError(t, err)
	assert.Contains(t, out, `"app_version": "`+version+`"`)

	out, _, err = runCLI(t, env, "hooks", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "All hooks are in place")

	out, _, err = runCLI(t, env, "uninstall")
	require.NoError(t, err)
	assert.Contains(t, out, "Uninstallation complete!")

	_, _, err = runCLI(t, env, "hooks", "check")
	assert.ErrorContains(t, err, "problem(s) found")
}

func TestDevResetNeedsConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "install")
	require.NoError(t, err)

	_, _, err = runCLI(t, env, "dev-reset")
	assert.ErrorContains(t, err, "--yes")
	assert.FileExists(t, env.paths().ConfigFile())

	out, _, err := runCLI(t, env, "dev-reset", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "Reset complete\n", out)
	assert.NoFileExists(t, env.paths().ConfigFile())
}

func TestReaderCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := env.paths()

	out, _, err := runCLI(t, env, "custom-sounds", "list")
	require.NoError(t, err)
	assert.Equal(t, "No custom sounds\n", out)

	out, _, err = runCLI(t, env, "projects")
	require.NoError(t, err)
	assert.Equal(t, "No recent projects\n", out)

	require.NoError(t, os.MkdirAll(paths.ClaudeDir(), 0o755))
	require.NoError(t, os.WriteFile(paths.OutputLog(), []byte("Working directory: /work/api\n"), 0o644))
	out, _, err = runCLI(t, env, "projects")
	require.NoError(t, err)
	assert.Equal(t, "/work/api\n", out)

	require.NoError(t, os.WriteFile(paths.ActivityLog(), []byte(`[
  {"timestamp": "2020-01-01T00:00:00Z", "event": "stop", "audio": true, "visual": false, "project": "api"}
]`), 0o644))
	out, _, err = runCLI(t, env, "activity")
	require.NoError(t, err)
	assert.Contains(t, out, "stop")
	assert.Contains(t, out, "years ago")
	assert.Contains(t, out, "api")

	out, _, err = runCLI(t, env, "diagnostics")
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, version, report["app_version"])
}

func TestTestNotifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "test-notify", "-m", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Test notification sent\n", out)
	assert.Equal(t, 1, env.notifier.sent)
}

func TestLogFlagsAreValidated(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "--log-format", "xml", "sounds", "status")
	assert.ErrorContains(t, err, "log format")
}
