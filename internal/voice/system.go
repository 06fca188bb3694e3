package voice

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/platform"
)

// System synthesizes speech with the macOS say command. The result is AIFF.
type System struct {
	runner  platform.Runner
	goos    string
	tempDir string
}

// NewSystem creates a say-backed synthesizer for goos
func NewSystem(runner platform.Runner, goos string) *System {
	return &System{runner: runner, goos: goos, tempDir: os.TempDir()}
}

// Synthesize renders text to a temporary AIFF file and returns its bytes
func (s *System) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.goos != "darwin" {
		return nil, apperr.Wrap(apperr.ErrExternalTool, "system tts", "system TTS is only supported on macOS", nil)
	}

	tmp := filepath.Join(s.tempDir, "tts_"+uuid.NewString()+".aiff")
	defer os.Remove(tmp)

	if _, err := s.runner.Output(ctx, "say", "-o", tmp, text); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "system tts", "read generated audio", err)
	}
	return data, nil
}
