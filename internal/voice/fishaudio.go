package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
)

const (
	DefaultFishAudioURL = "https://api.fish.audio"
	DefaultVoiceID      = "af_bella"
)

// Synthesizer turns text into encoded audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// FishAudio is the Fish Audio text-to-speech client
type FishAudio struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	voiceID    string
}

// FishAudioOption configures the client
type FishAudioOption func(*FishAudio)

// WithBaseURL sets a custom API base URL
func WithBaseURL(url string) FishAudioOption {
	return func(c *FishAudio) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) FishAudioOption {
	return func(c *FishAudio) { c.httpClient = hc }
}

// WithVoice sets the reference voice; empty keeps the default
func WithVoice(id string) FishAudioOption {
	return func(c *FishAudio) {
		if id != "" {
			c.voiceID = id
		}
	}
}

// NewFishAudio creates a client authenticating with apiKey
func NewFishAudio(apiKey string, opts ...FishAudioOption) *FishAudio {
	c := &FishAudio{
		baseURL:    DefaultFishAudioURL,
		httpClient: http.DefaultClient,
		apiKey:     apiKey,
		voiceID:    DefaultVoiceID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ttsRequest struct {
	Text        string `json:"text"`
	ReferenceID string `json:"reference_id"`
	Format      string `json:"format"`
	Latency     string `json:"latency"`
}

// Synthesize requests MP3 audio for text. Failures are not retried.
func (c *FishAudio) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(ttsRequest{
		Text:        text,
		ReferenceID: c.voiceID,
		Format:      "mp3",
		Latency:     "normal",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrRemoteService, "fish audio", "failed to call Fish Audio API", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrRemoteService, "fish audio", "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Wrap(apperr.ErrRemoteService, "fish audio",
			fmt.Sprintf("Fish Audio API error %d: %s", resp.StatusCode, strings.TrimSpace(string(data))), nil)
	}
	return data, nil
}
