package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Voice providers accepted in voice_provider
const (
	ProviderFishAudio = "fish_audio"
	ProviderSystem    = "system"
)

// DefaultEventSound is the sound setting that speaks the event's voice file
const DefaultEventSound = "voice:simple"

// DefaultVoiceTemplate is spoken when no template is configured
const DefaultVoiceTemplate = "{event} event"

// Config is the YAML configuration shared with the hook script
type Config struct {
	GlobalMode     bool            `yaml:"global_mode" json:"global_mode"`
	GlobalSettings GlobalSettings  `yaml:"global_settings" json:"global_settings"`
	Projects       []ProjectConfig `yaml:"projects" json:"projects"`
	SoundLibrary   []string        `yaml:"sound_library" json:"sound_library"`
	MinInterval    uint32          `yaml:"min_interval" json:"min_interval"`
	Debug          bool            `yaml:"debug" json:"debug"`
}

// GlobalSettings apply to every project in global mode
type GlobalSettings struct {
	Enabled             bool         `yaml:"enabled" json:"enabled"`
	EventSounds         EventSounds  `yaml:"event_sounds" json:"event_sounds"`
	EventEnabled        EventEnabled `yaml:"event_enabled" json:"event_enabled"`
	VoiceEnabled        EventEnabled `yaml:"voice_enabled" json:"voice_enabled"`
	VoiceTemplate       string       `yaml:"voice_template" json:"voice_template"`
	VoiceProvider       string       `yaml:"voice_provider" json:"voice_provider"`
	VoiceID             *string      `yaml:"voice_id" json:"voice_id"`
	FishAudioAPIKey     *string      `yaml:"fish_audio_api_key" json:"fish_audio_api_key"`
	RespectDoNotDisturb bool         `yaml:"respect_do_not_disturb" json:"respect_do_not_disturb"`
}

// ProjectConfig overrides sounds for a single project directory
type ProjectConfig struct {
	Path         string       `yaml:"path" json:"path"`
	DisplayName  *string      `yaml:"display_name" json:"display_name"`
	Enabled      bool         `yaml:"enabled" json:"enabled"`
	EventSounds  EventSounds  `yaml:"event_sounds" json:"event_sounds"`
	EventEnabled EventEnabled `yaml:"event_enabled" json:"event_enabled"`
	VoiceEnabled EventEnabled `yaml:"voice_enabled" json:"voice_enabled"`
}

// EventSounds maps each event to a sound setting (a file path or "voice:...")
type EventSounds struct {
	Notification string `yaml:"notification" json:"notification"`
	Stop         string `yaml:"stop" json:"stop"`
	PreToolUse   string `yaml:"pre_tool_use" json:"pre_tool_use"`
	PostToolUse  string `yaml:"post_tool_use" json:"post_tool_use"`
	SubagentStop string `yaml:"subagent_stop" json:"subagent_stop"`
}

// EventEnabled holds one switch per event
type EventEnabled struct {
	Notification bool `yaml:"notification" json:"notification"`
	Stop         bool `yaml:"stop" json:"stop"`
	PreToolUse   bool `yaml:"pre_tool_use" json:"pre_tool_use"`
	PostToolUse  bool `yaml:"post_tool_use" json:"post_tool_use"`
	SubagentStop bool `yaml:"subagent_stop" json:"subagent_stop"`
}

// Get returns the sound for an event key
func (s EventSounds) Get(key string) string {
	switch key {
	case "notification":
		return s.Notification
	case "stop":
		return s.Stop
	case "pre_tool_use":
		return s.PreToolUse
	case "post_tool_use":
		return s.PostToolUse
	case "subagent_stop":
		return s.SubagentStop
	}
	return ""
}

// Get returns the switch for an event key
func (e EventEnabled) Get(key string) bool {
	switch key {
	case "notification":
		return e.Notification
	case "stop":
		return e.Stop
	case "pre_tool_use":
		return e.PreToolUse
	case "post_tool_use":
		return e.PostToolUse
	case "subagent_stop":
		return e.SubagentStop
	}
	return false
}

// DefaultSoundLibrary lists the macOS system sounds offered in the picker
var DefaultSoundLibrary = []string{
	"/System/Library/Sounds/Ping.aiff",
	"/System/Library/Sounds/Glass.aiff",
	"/System/Library/Sounds/Hero.aiff",
	"/System/Library/Sounds/Submarine.aiff",
	"/System/Library/Sounds/Tink.aiff",
	"/System/Library/Sounds/Pop.aiff",
	"/System/Library/Sounds/Funk.aiff",
	"/System/Library/Sounds/Purr.aiff",
	"/System/Library/Sounds/Blow.aiff",
	"/System/Library/Sounds/Bottle.aiff",
	"/System/Library/Sounds/Frog.aiff",
	"/System/Library/Sounds/Basso.aiff",
}

// DefaultEventEnabled turns on everything except the tool-use events
func DefaultEventEnabled() EventEnabled {
	return EventEnabled{
		Notification: true,
		Stop:         true,
		PreToolUse:   false,
		PostToolUse:  false,
		SubagentStop: true,
	}
}

// DefaultEventSounds speaks every event
func DefaultEventSounds() EventSounds {
	return EventSounds{
		Notification: DefaultEventSound,
		Stop:         DefaultEventSound,
		PreToolUse:   DefaultEventSound,
		PostToolUse:  DefaultEventSound,
		SubagentStop: DefaultEventSound,
	}
}

// DefaultConfig returns the configuration written on first install
func DefaultConfig() *Config {
	return &Config{
		GlobalMode: true,
		GlobalSettings: GlobalSettings{
			Enabled:       true,
			EventSounds:   DefaultEventSounds(),
			EventEnabled:  DefaultEventEnabled(),
			VoiceEnabled:  DefaultEventEnabled(),
			VoiceTemplate: DefaultVoiceTemplate,
			VoiceProvider: ProviderFishAudio,
		},
		Projects:     []ProjectConfig{},
		SoundLibrary: append([]string(nil), DefaultSoundLibrary...),
		MinInterval:  2,
		Debug:        false,
	}
}

// UnmarshalYAML fills fields absent from the document with their defaults.
// A settings block that omits voice_provider predates Fish Audio support
// and keeps the system voice.
func (g *GlobalSettings) UnmarshalYAML(value *yaml.Node) error {
	type plain GlobalSettings
	out := plain(DefaultConfig().GlobalSettings)
	out.VoiceProvider = ProviderSystem
	if err := value.Decode(&out); err != nil {
		return err
	}
	*g = GlobalSettings(out)
	return nil
}

// UnmarshalYAML fills fields absent from a project entry with their defaults
func (p *ProjectConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ProjectConfig
	out := plain{
		Enabled:      true,
		EventSounds:  DefaultEventSounds(),
		EventEnabled: DefaultEventEnabled(),
		VoiceEnabled: DefaultEventEnabled(),
	}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*p = ProjectConfig(out)
	return nil
}

// Validate checks the fields the hook script cannot work without
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.GlobalSettings.VoiceTemplate) == "" {
		errs = append(errs, errors.New("global_settings.voice_template must not be empty"))
	}
	for i, p := range c.Projects {
		if strings.TrimSpace(p.Path) == "" {
			errs = append(errs, fmt.Errorf("projects[%d].path must not be empty", i))
		}
	}
	return errors.Join(errs...)
}

// APIKey returns the configured Fish Audio key, if any
func (g GlobalSettings) APIKey() string {
	if g.FishAudioAPIKey == nil {
		return ""
	}
	return strings.TrimSpace(*g.FishAudioAPIKey)
}

// Name returns the display name of the project, or its path
func (p ProjectConfig) Name() string {
	if p.DisplayName != nil && *p.DisplayName != "" {
		return *p.DisplayName
	}
	return p.Path
}
