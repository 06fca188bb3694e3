package voice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
	"github.com/cwveysey/coding-agent-notifications/internal/platform"
)

// APIKeyEnv supplies a Fish Audio key when neither the request nor the
// configuration has one
const APIKeyEnv = "FISH_AUDIO_API_KEY"

// Service generates, caches and previews voice notifications
type Service struct {
	paths       *config.Paths
	player      platform.AudioPlayer
	system      Synthesizer
	fishOptions []FishAudioOption
	logger      *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFishAudioOptions applies opts to every Fish Audio client the service
// creates
func WithFishAudioOptions(opts ...FishAudioOption) Option {
	return func(s *Service) { s.fishOptions = append(s.fishOptions, opts...) }
}

// NewService creates a voice service. system is the fallback synthesizer.
func NewService(paths *config.Paths, player platform.AudioPlayer, system Synthesizer, opts ...Option) *Service {
	s := &Service{
		paths:  paths,
		player: player,
		system: system,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BasicText is the spoken text of an event with the default template
func BasicText(e config.Event) string {
	return e.Spoken + " event"
}

// BasicTexts returns the default-template text of every managed event
func BasicTexts() []string {
	texts := make([]string, len(config.Events))
	for i, e := range config.Events {
		texts[i] = BasicText(e)
	}
	return texts
}

// FileName is the voice file name of an event
func FileName(e config.Event) string {
	return e.Key + ".mp3"
}

// Render substitutes the event and project into a voice template
func Render(template string, e config.Event, project string) string {
	text := strings.ReplaceAll(template, "{event}", e.Spoken)
	return strings.ReplaceAll(text, "{project}", project)
}

// PreviewPath is where a previewed text is cached
func (s *Service) PreviewPath(text string) string {
	return filepath.Join(s.paths.PreviewsDir(), config.HashHex(text)+".mp3")
}

// ResolveAPIKey picks the request key, then the configured key, then the
// environment
func ResolveAPIKey(requestKey string, gs config.GlobalSettings) string {
	if k := strings.TrimSpace(requestKey); k != "" {
		return k
	}
	if k := gs.APIKey(); k != "" {
		return k
	}
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}

// Select returns the synthesizer named by the configured provider. Fish
// Audio needs an API key. An unrecognized provider falls back to the system
// voice.
func (s *Service) Select(gs config.GlobalSettings, requestKey string) (Synthesizer, error) {
	switch gs.VoiceProvider {
	case config.ProviderFishAudio, "fish-audio":
		key := ResolveAPIKey(requestKey, gs)
		if key == "" {
			return nil, apperr.Wrap(apperr.ErrConfiguration, "select voice", "Fish Audio API key required", nil)
		}
		voiceID := ""
		if gs.VoiceID != nil {
			voiceID = *gs.VoiceID
		}
		return s.fishAudio(key, voiceID), nil
	case config.ProviderSystem:
		return s.system, nil
	default:
		s.logger.Warn("unknown voice provider, using system voice",
			slog.String("provider", gs.VoiceProvider))
		return s.system, nil
	}
}

func (s *Service) fishAudio(key, voiceID string) Synthesizer {
	opts := append([]FishAudioOption{WithVoice(voiceID)}, s.fishOptions...)
	return NewFishAudio(key, opts...)
}

// PreviewVoice plays text and returns the file it played. Default-template
// event texts use the bundled voice, then the installed global voice.
// Anything else comes from the preview cache, generated on a miss with Fish
// Audio when apiKey is set and the system voice otherwise.
func (s *Service) PreviewVoice(ctx context.Context, text, apiKey string) (string, error) {
	for _, e := range config.Events {
		if text != BasicText(e) {
			continue
		}
		for _, candidate := range []string{
			filepath.Join(s.paths.BundledVoicesDir(), FileName(e)),
			filepath.Join(s.paths.GlobalVoicesDir(), FileName(e)),
		} {
			if fileutil.Exists(candidate) {
				return candidate, s.play(candidate)
			}
		}
		break
	}

	cached := s.PreviewPath(text)
	if fileutil.Exists(cached) {
		return cached, s.play(cached)
	}

	synth := s.system
	if key := strings.TrimSpace(apiKey); key != "" {
		synth = s.fishAudio(key, DefaultVoiceID)
	}

	s.logger.Info("generating voice preview", slog.String("text", text))
	if err := s.generate(ctx, synth, text, cached); err != nil {
		return "", err
	}
	return cached, s.play(cached)
}

// PregenerateResult counts the outcome of PregenerateBasic
type PregenerateResult struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
}

// PregenerateBasic fills the preview cache with every default-template
// event text using Fish Audio. Texts already cached are skipped.
func (s *Service) PregenerateBasic(ctx context.Context, apiKey string) (*PregenerateResult, error) {
	key := ResolveAPIKey(apiKey, config.GlobalSettings{})
	if key == "" {
		return nil, apperr.Wrap(apperr.ErrConfiguration, "pregenerate voices", "Fish Audio API key required", nil)
	}
	synth := s.fishAudio(key, DefaultVoiceID)

	result := &PregenerateResult{}
	for _, text := range BasicTexts() {
		path := s.PreviewPath(text)
		if fileutil.Exists(path) {
			s.logger.Debug("voice already cached", slog.String("text", text))
			result.Skipped++
			continue
		}
		if err := s.generate(ctx, synth, text, path); err != nil {
			return result, err
		}
		result.Generated++
	}
	return result, nil
}

// GenerateNotifications writes the voice file of every voice-enabled event:
// the global set in global mode and one set per configured project.
// It returns how many files were written.
func (s *Service) GenerateNotifications(ctx context.Context, cfg *config.Config, apiKey string) (int, error) {
	if cfg == nil {
		return 0, apperr.Wrap(apperr.ErrConfiguration, "generate voices", "configuration is required", nil)
	}
	gs := cfg.GlobalSettings

	var synth Synthesizer
	synthesizer := func() (Synthesizer, error) {
		if synth != nil {
			return synth, nil
		}
		var err error
		synth, err = s.Select(gs, apiKey)
		return synth, err
	}

	count := 0
	write := func(dir string, enabled config.EventEnabled, project string) error {
		for _, e := range config.Events {
			if !enabled.Get(e.Key) {
				continue
			}
			sy, err := synthesizer()
			if err != nil {
				return err
			}
			text := Render(gs.VoiceTemplate, e, project)
			if err := s.generate(ctx, sy, text, filepath.Join(dir, FileName(e))); err != nil {
				return err
			}
			count++
		}
		return nil
	}

	if cfg.GlobalMode {
		if err := write(s.paths.GlobalVoicesDir(), gs.VoiceEnabled, ""); err != nil {
			return count, err
		}
	}
	for _, p := range cfg.Projects {
		if err := write(s.paths.ProjectVoicesDir(p.Path), p.VoiceEnabled, p.Name()); err != nil {
			return count, err
		}
	}

	s.logger.Info("voice notifications generated", slog.Int("count", count))
	return count, nil
}

func (s *Service) generate(ctx context.Context, synth Synthesizer, text, dst string) error {
	audio, err := synth.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return apperr.Wrap(apperr.ErrIO, "write voice", "create "+filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, audio, 0o644); err != nil {
		return apperr.Wrap(apperr.ErrIO, "write voice", fmt.Sprintf("write %s", dst), err)
	}
	return nil
}

func (s *Service) play(path string) error {
	if s.player == nil {
		return nil
	}
	return s.player.Play(path)
}
