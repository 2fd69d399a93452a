package speech

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Synthesizer turns text into encoded audio.
type Synthesizer interface {
	Info() EngineInfo

	// Synthesize renders text. Synthesizers with NativeRate apply rate
	// themselves; the others always receive 1.0 and the engine resamples.
	Synthesize(ctx context.Context, text string, rate float64) (Audio, error)

	NativeRate() bool

	Validate() error
}

// AudioEngine speaks by synthesizing audio and playing it on a Sink. The
// utterance finishes when the sink has drained.
type AudioEngine struct {
	notifier

	synth Synthesizer
	sink  Sink
	cache *Cache

	mu      sync.Mutex
	rate    float64
	current *utterance
	closed  bool

	wg sync.WaitGroup
}

// NewAudioEngine creates an engine from a synthesizer and a sink. cache may
// be nil.
func NewAudioEngine(synth Synthesizer, sink Sink, cache *Cache) *AudioEngine {
	return &AudioEngine{
		synth: synth,
		sink:  sink,
		cache: cache,
		rate:  DefaultRate,
	}
}

// Speak starts synthesis and playback in the background.
func (e *AudioEngine) Speak(text string) (string, error) {
	name := e.synth.Info().Name
	if strings.TrimSpace(text) == "" {
		return "", engineErr(name, "speak", ErrEmptyText)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", engineErr(name, "speak", ErrEngineClosed)
	}

	u := newUtterance()
	e.current = u
	rate := e.rate

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.finish(u, e.play(u, text, rate))
	}()

	return u.id, nil
}

func (e *AudioEngine) play(u *utterance, text string, rate float64) error {
	pcm, err := e.render(u.ctx, text, rate)
	if err != nil {
		return err
	}
	return e.sink.Play(u.ctx, pcm)
}

// render returns PCM for text at rate, from the cache when possible.
func (e *AudioEngine) render(ctx context.Context, text string, rate float64) ([]byte, error) {
	info := e.synth.Info()
	key := CacheKey(info.Name, info.Backend, strconv.FormatFloat(rate, 'f', 2, 64), text)
	if e.cache != nil {
		if pcm, ok := e.cache.Get(key); ok {
			log.Debug("speech cache hit", "engine", info.Name, "bytes", humanize.Bytes(uint64(len(pcm))))
			return pcm, nil
		}
	}

	synthRate, speed := 1.0, rate
	if e.synth.NativeRate() {
		synthRate, speed = rate, 1.0
	}

	audio, err := e.synth.Synthesize(ctx, text, synthRate)
	if err != nil {
		return nil, err
	}
	sampleRate, channels := e.sink.Format()
	pcm, err := toPCM(audio, sampleRate, channels, speed)
	if err != nil {
		return nil, err
	}
	log.Debug("speech synthesized",
		"engine", info.Name,
		"encoded", humanize.Bytes(uint64(len(audio.Data))),
		"pcm", humanize.Bytes(uint64(len(pcm))))

	if e.cache != nil {
		if err := e.cache.Put(key, pcm); err != nil {
			log.Debug("speech cache put skipped", "error", err)
		}
	}
	return pcm, nil
}

func (e *AudioEngine) finish(u *utterance, err error) {
	e.mu.Lock()
	if e.current == u {
		e.current = nil
	}
	e.mu.Unlock()

	name := e.synth.Info().Name
	ev := u.outcome(err)
	if ev.Err != nil {
		ev.Err = engineErr(name, "speak", ev.Err)
	}
	log.Debug("speech ended", "engine", name, "utterance", u.id, "kind", ev.Kind, "error", ev.Err)
	e.emit(ev)
}

// Stop cancels synthesis or playback of the current utterance.
func (e *AudioEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.current.stop()
	}
	return nil
}

// SetRate sets the rate for the next utterance.
func (e *AudioEngine) SetRate(rate float64) error {
	if err := ValidateRate(rate); err != nil {
		return engineErr(e.synth.Info().Name, "set rate", err)
	}
	e.mu.Lock()
	e.rate = rate
	e.mu.Unlock()
	return nil
}

// Info describes the underlying synthesizer.
func (e *AudioEngine) Info() EngineInfo {
	return e.synth.Info()
}

// Validate delegates to the synthesizer.
func (e *AudioEngine) Validate() error {
	return e.synth.Validate()
}

// CacheStats returns the render cache statistics, or zero stats without a
// cache.
func (e *AudioEngine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// Close stops playback, waits for background work and releases resources.
func (e *AudioEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	if e.current != nil {
		e.current.stop()
	}
	e.mu.Unlock()

	e.wg.Wait()
	e.closeAll()

	err := e.sink.Close()
	if e.cache != nil {
		if cerr := e.cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var _ Engine = (*AudioEngine)(nil)
