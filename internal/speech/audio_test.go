package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeSynth struct {
	mu     sync.Mutex
	native bool
	err    error
	calls  []float64
	frames int
}

func (f *fakeSynth) Info() EngineInfo {
	return EngineInfo{Name: "fake", Backend: "test", IsOnline: true}
}

func (f *fakeSynth) NativeRate() bool { return f.native }

func (f *fakeSynth) Validate() error { return nil }

func (f *fakeSynth) Synthesize(_ context.Context, _ string, rate float64) (Audio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rate)
	if f.err != nil {
		return Audio{}, f.err
	}
	return Audio{Format: FormatPCM, Data: monoPCM(f.frames), SampleRate: 24000, Channels: 1}, nil
}

func (f *fakeSynth) rates() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.calls...)
}

type fakeSink struct {
	mu      sync.Mutex
	played  [][]byte
	block   bool
	started chan struct{}
	closed  bool
}

func newFakeSink(block bool) *fakeSink {
	return &fakeSink{block: block, started: make(chan struct{}, 8)}
}

func (s *fakeSink) Format() (int, int) { return 24000, 2 }

func (s *fakeSink) Play(ctx context.Context, pcm []byte) error {
	s.mu.Lock()
	s.played = append(s.played, pcm)
	s.mu.Unlock()
	s.started <- struct{}{}
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSink) lastFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.played) == 0 {
		return 0
	}
	return len(s.played[len(s.played)-1]) / 4
}

func TestAudioEngineFinishes(t *testing.T) {
	synth := &fakeSynth{frames: 1000}
	sink := newFakeSink(false)
	e := NewAudioEngine(synth, sink, nil)
	defer e.Close() //nolint:errcheck

	events, release := e.Subscribe()
	defer release()

	id, err := e.Speak("hello")
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	ev := waitEvent(t, events)
	if ev.UtteranceID != id || ev.Kind != EventFinished {
		t.Fatalf("got %+v, want finished for %q", ev, id)
	}
	if got := sink.lastFrames(); got != 1000 {
		t.Errorf("played %d frames, want 1000", got)
	}
}

func TestAudioEngineRate(t *testing.T) {
	tests := []struct {
		name      string
		native    bool
		rate      float64
		wantSynth float64
		wantFrame int
	}{
		{"resampled double speed", false, 2.0, 1.0, 500},
		{"resampled half speed", false, 0.5, 1.0, 2000},
		{"native speed", true, 2.0, 2.0, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &fakeSynth{frames: 1000, native: tt.native}
			sink := newFakeSink(false)
			e := NewAudioEngine(synth, sink, nil)
			defer e.Close() //nolint:errcheck

			events, release := e.Subscribe()
			defer release()

			if err := e.SetRate(tt.rate); err != nil {
				t.Fatalf("SetRate: %v", err)
			}
			if _, err := e.Speak("hello"); err != nil {
				t.Fatalf("Speak: %v", err)
			}
			waitEvent(t, events)

			if rates := synth.rates(); len(rates) != 1 || rates[0] != tt.wantSynth {
				t.Errorf("synthesizer rates = %v, want [%v]", rates, tt.wantSynth)
			}
			if got := sink.lastFrames(); got != tt.wantFrame {
				t.Errorf("played %d frames, want %d", got, tt.wantFrame)
			}
		})
	}
}

func TestAudioEngineStop(t *testing.T) {
	sink := newFakeSink(true)
	e := NewAudioEngine(&fakeSynth{frames: 10}, sink, nil)
	defer e.Close() //nolint:errcheck

	events, release := e.Subscribe()
	defer release()

	id, err := e.Speak("hello")
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	<-sink.started
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	ev := waitEvent(t, events)
	if ev.UtteranceID != id || ev.Kind != EventCancelled {
		t.Errorf("got %+v, want cancelled for %q", ev, id)
	}
}

func TestAudioEngineSynthesisFailure(t *testing.T) {
	errBoom := errors.New("boom")
	e := NewAudioEngine(&fakeSynth{err: errBoom}, newFakeSink(false), nil)
	defer e.Close() //nolint:errcheck

	events, release := e.Subscribe()
	defer release()

	if _, err := e.Speak("hello"); err != nil {
		t.Fatalf("Speak should only fail asynchronously, got %v", err)
	}
	ev := waitEvent(t, events)
	if ev.Kind != EventFailed {
		t.Fatalf("kind = %v, want failed", ev.Kind)
	}
	if !errors.Is(ev.Err, errBoom) {
		t.Errorf("error %v should wrap the synthesizer error", ev.Err)
	}
}

func TestAudioEngineCache(t *testing.T) {
	cache, err := NewCache(1 << 20)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	synth := &fakeSynth{frames: 100}
	e := NewAudioEngine(synth, newFakeSink(false), cache)
	defer e.Close() //nolint:errcheck

	events, release := e.Subscribe()
	defer release()

	for i := 0; i < 2; i++ {
		if _, err := e.Speak("same words"); err != nil {
			t.Fatalf("Speak: %v", err)
		}
		waitEvent(t, events)
	}
	if n := len(synth.rates()); n != 1 {
		t.Errorf("synthesized %d times, want 1", n)
	}
	if stats := e.CacheStats(); stats.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.Hits)
	}
}

func TestAudioEngineClose(t *testing.T) {
	sink := newFakeSink(false)
	e := NewAudioEngine(&fakeSynth{frames: 10}, sink, nil)
	events, _ := e.Subscribe()

	if _, err := e.Speak(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Speak(\"\") = %v, want ErrEmptyText", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-events; ok {
		t.Error("subscription should be closed")
	}
	if !sink.closed {
		t.Error("sink should be closed")
	}
	if _, err := e.Speak("hello"); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Speak after Close = %v, want ErrEngineClosed", err)
	}
}
