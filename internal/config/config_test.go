package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.GlobalMode)
	assert.True(t, cfg.GlobalSettings.Enabled)
	assert.Equal(t, ProviderFishAudio, cfg.GlobalSettings.VoiceProvider)
	assert.Equal(t, "{event} event", cfg.GlobalSettings.VoiceTemplate)
	assert.Equal(t, "voice:simple", cfg.GlobalSettings.EventSounds.Stop)
	assert.True(t, cfg.GlobalSettings.EventEnabled.Notification)
	assert.False(t, cfg.GlobalSettings.EventEnabled.PreToolUse)
	assert.True(t, cfg.GlobalSettings.VoiceEnabled.SubagentStop)
	assert.Nil(t, cfg.GlobalSettings.FishAudioAPIKey)
	assert.Len(t, cfg.SoundLibrary, 12)
	assert.Equal(t, uint32(2), cfg.MinInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaultsWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio-notifier.yaml")
	store := NewStore(path, nil)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoFileExists(t, path)
}

func TestLoadUnparseableMigratesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio-notifier.yaml")
	require.NoError(t, os.WriteFile(path, []byte("global_mode: [not, a, bool\n\t:::"), 0o644))
	store := NewStore(path, nil)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	expected, err := Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(written))

	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, again)

	afterSecondLoad, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, written, afterSecondLoad)
}

func TestLoadOldSchemaMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio-notifier.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sounds:\n  - Ping\nmin_interval: soon\n"), 0o644))

	cfg, err := NewStore(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), cfg.MinInterval)
}

func TestLoadEmptyFileMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio-notifier.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := NewStore(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio-notifier.yaml")
	content := `global_mode: false
global_settings:
  enabled: true
  event_sounds:
    notification: /System/Library/Sounds/Ping.aiff
    stop: voice:simple
    pre_tool_use: voice:simple
    post_tool_use: voice:simple
    subagent_stop: voice:simple
projects:
  - path: /Users/me/code/app
    enabled: true
    event_sounds:
      notification: voice:simple
      stop: /System/Library/Sounds/Glass.aiff
      pre_tool_use: voice:simple
      post_tool_use: voice:simple
      subagent_stop: voice:simple
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewStore(path, nil).Load()
	require.NoError(t, err)

	assert.False(t, cfg.GlobalMode)
	assert.Equal(t, "/System/Library/Sounds/Ping.aiff", cfg.GlobalSettings.EventSounds.Notification)
	assert.Equal(t, DefaultVoiceTemplate, cfg.GlobalSettings.VoiceTemplate)
	assert.Equal(t, ProviderSystem, cfg.GlobalSettings.VoiceProvider)
	assert.Equal(t, DefaultEventEnabled(), cfg.GlobalSettings.EventEnabled)
	assert.Len(t, cfg.SoundLibrary, 12)

	require.Len(t, cfg.Projects, 1)
	project := cfg.Projects[0]
	assert.Equal(t, "/Users/me/code/app", project.Path)
	assert.Equal(t, "/Users/me/code/app", project.Name())
	assert.Equal(t, "/System/Library/Sounds/Glass.aiff", project.EventSounds.Stop)
	assert.Equal(t, DefaultEventEnabled(), project.EventEnabled)
	assert.Equal(t, DefaultEventEnabled(), project.VoiceEnabled)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audio-notifier.yaml")
	store := NewStore(path, nil)

	key := "sk-test"
	name := "App"
	cfg := DefaultConfig()
	cfg.GlobalSettings.FishAudioAPIKey = &key
	cfg.GlobalSettings.VoiceTemplate = "{project}: {event}"
	cfg.Projects = append(cfg.Projects, ProjectConfig{
		Path:         "/tmp/app",
		DisplayName:  &name,
		Enabled:      true,
		EventSounds:  DefaultEventSounds(),
		EventEnabled: DefaultEventEnabled(),
		VoiceEnabled: EventEnabled{Stop: true},
	})

	require.NoError(t, store.Save(cfg))
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, "sk-test", loaded.GlobalSettings.APIKey())
	assert.Equal(t, "App", loaded.Projects[0].Name())
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio-notifier.yaml")
	store := NewStore(path, nil)

	cfg := DefaultConfig()
	cfg.GlobalSettings.VoiceTemplate = "  "
	cfg.Projects = []ProjectConfig{{Path: ""}}

	err := store.Save(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.ErrorContains(t, err, "voice_template")
	assert.ErrorContains(t, err, "projects[0].path")
	assert.NoFileExists(t, path)
}

func TestEventAccessors(t *testing.T) {
	sounds := EventSounds{Notification: "a", Stop: "b", PreToolUse: "c", PostToolUse: "d", SubagentStop: "e"}
	enabled := EventEnabled{PostToolUse: true}

	var got []string
	for _, e := range Events {
		got = append(got, sounds.Get(e.Key))
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	assert.True(t, enabled.Get("post_tool_use"))
	assert.False(t, enabled.Get("unknown"))
	assert.Equal(t, "", sounds.Get("unknown"))
}

func TestHookTypes(t *testing.T) {
	assert.Equal(t, []string{"Notification", "Stop", "PreToolUse", "PostToolUse", "SubagentStop"}, HookTypes())
	assert.True(t, IsManagedHookType("SubagentStop"))
	assert.False(t, IsManagedHookType("PreCommit"))
}

func TestPaths(t *testing.T) {
	p := NewPaths("/home/u", "/opt/app/resources")

	assert.Equal(t, "/home/u/.claude/settings.json", p.SettingsFile())
	assert.Equal(t, "/home/u/.claude/audio-notifier.yaml", p.ConfigFile())
	assert.Equal(t, "/home/u/.claude/audio-notifier-install.json", p.ManifestFile())
	assert.Equal(t, "/home/u/.claude/scripts/smart-notify.sh", p.MarkerScriptFile())
	assert.Equal(t, "/home/u/.claude/.sounds-enabled", p.SoundsEnabledFile())
	assert.Equal(t, "/opt/app/resources/terminal-notifier/terminal-notifier.app", p.BundledHelperApp())
	assert.Equal(t,
		"/home/u/.claude/voices/projects/"+HashHex("/tmp/app"),
		p.ProjectVoicesDir("/tmp/app"),
	)
	assert.Len(t, HashHex("x"), 64)
}

func TestDefaultPathsUsesEnvironment(t *testing.T) {
	t.Setenv(ResourcesEnv, "/env/resources")

	p, err := DefaultPaths("/home/u", "")
	require.NoError(t, err)
	assert.Equal(t, "/env/resources", p.Resources)

	p, err = DefaultPaths("/home/u", "/flag/resources")
	require.NoError(t, err)
	assert.Equal(t, "/flag/resources", p.Resources)
}
