package speech

import (
	"fmt"
	"time"
)

// Engine names accepted by New.
const (
	EngineSystem = "system"
	EngineGTTS   = "gtts"
	EngineEdge   = "edge"
	EngineOpenAI = "openai"
	EngineMock   = "mock"
)

// EngineNames lists the engines New can build.
var EngineNames = []string{EngineSystem, EngineGTTS, EngineEdge, EngineOpenAI, EngineMock}

// Config selects and configures an engine.
type Config struct {
	Engine string

	// SampleRate of the audio sink used by online engines.
	SampleRate int

	// CacheSize caps the in-memory render cache in bytes. Zero disables it.
	CacheSize int64

	// MockDelay is how long the mock engine "speaks".
	MockDelay time.Duration

	System SystemConfig
	GTTS   GTTSConfig
	Edge   EdgeConfig
	OpenAI OpenAIConfig
}

// New builds the engine named by cfg.Engine.
func New(cfg Config) (Engine, error) {
	switch cfg.Engine {
	case EngineSystem, "":
		e, err := NewSystemEngine(cfg.System)
		if err != nil {
			return nil, err
		}
		return e, nil
	case EngineGTTS:
		return newAudioEngine(cfg, NewGTTSSynthesizer(cfg.GTTS))
	case EngineEdge:
		return newAudioEngine(cfg, NewEdgeSynthesizer(cfg.Edge))
	case EngineOpenAI:
		return newAudioEngine(cfg, NewOpenAISynthesizer(cfg.OpenAI))
	case EngineMock:
		return NewMockEngine(cfg.MockDelay), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownEngine, cfg.Engine, EngineNames)
	}
}

func newAudioEngine(cfg Config, synth Synthesizer) (Engine, error) {
	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	sink, err := NewOtoSink(sampleRate, 2)
	if err != nil {
		return nil, err
	}

	var cache *Cache
	if cfg.CacheSize > 0 {
		cache, err = NewCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
	}
	return NewAudioEngine(synth, sink, cache), nil
}
