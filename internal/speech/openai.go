package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI speech synthesizer.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // defaults to the public API
	Model   string // defaults to tts-1
	Voice   string // defaults to alloy
}

// OpenAISynthesizer produces MP3 with the OpenAI audio speech endpoint.
type OpenAISynthesizer struct {
	client *openai.Client
	apiKey string
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

// NewOpenAISynthesizer applies defaults to cfg and returns a synthesizer.
func NewOpenAISynthesizer(cfg OpenAIConfig) *OpenAISynthesizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := openai.TTSModel1
	if cfg.Model != "" {
		model = openai.SpeechModel(cfg.Model)
	}
	voice := openai.VoiceAlloy
	if cfg.Voice != "" {
		voice = openai.SpeechVoice(cfg.Voice)
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(clientCfg),
		apiKey: cfg.APIKey,
		model:  model,
		voice:  voice,
	}
}

// Info implements Synthesizer.
func (o *OpenAISynthesizer) Info() EngineInfo {
	return EngineInfo{
		Name:     "openai",
		Backend:  fmt.Sprintf("%s/%s", o.model, o.voice),
		IsOnline: true,
	}
}

// NativeRate implements Synthesizer; the endpoint takes a speed parameter.
func (o *OpenAISynthesizer) NativeRate() bool { return true }

// Synthesize requests MP3 speech at the given speed.
func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text string, rate float64) (Audio, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          o.model,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          rate,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close() //nolint:errcheck

	data, err := io.ReadAll(resp)
	if err != nil {
		return Audio{}, fmt.Errorf("openai speech read: %w", err)
	}
	return Audio{Format: FormatMP3, Data: data}, nil
}

// Validate checks that an API key is configured.
func (o *OpenAISynthesizer) Validate() error {
	if o.apiKey == "" {
		return engineErr("openai", "validate", fmt.Errorf("%w: no API key (set openai.api_key or OPENAI_API_KEY)", ErrNotAvailable))
	}
	return nil
}
