package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Sink plays PCM audio.
type Sink interface {
	// Format returns the sample rate and channel count Play expects.
	Format() (sampleRate, channels int)

	// Play blocks until pcm has been played or ctx is done.
	Play(ctx context.Context, pcm []byte) error

	Close() error
}

// DefaultSampleRate matches the MP3 output of the online synthesizers, so
// their audio needs no resampling at normal speed.
const DefaultSampleRate = 24000

const drainPollInterval = 20 * time.Millisecond

// OtoSink plays audio through an oto context. oto allows a single context
// per process, so it is created on first use and kept until exit.
type OtoSink struct {
	sampleRate int
	channels   int

	once    sync.Once
	context *oto.Context
	initErr error

	mu     sync.Mutex
	closed bool
}

// NewOtoSink creates a sink for 16-bit PCM at the given format.
func NewOtoSink(sampleRate, channels int) (*OtoSink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", channels)
	}
	return &OtoSink{sampleRate: sampleRate, channels: channels}, nil
}

// Format implements Sink.
func (s *OtoSink) Format() (int, int) {
	return s.sampleRate, s.channels
}

func (s *OtoSink) init() error {
	s.once.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   s.sampleRate,
			ChannelCount: s.channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			s.initErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		s.context = ctx
	})
	return s.initErr
}

// Play implements Sink. The pcm slice stays referenced by the reader until
// the player is closed.
func (s *OtoSink) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return errors.New("audio data is empty")
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return errors.New("sink is closed")
	}
	if err := s.init(); err != nil {
		return err
	}

	player := s.context.NewPlayer(bytes.NewReader(pcm))
	defer player.Close() //nolint:errcheck
	player.Play()

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if !player.IsPlaying() {
				return player.Err()
			}
		}
	}
}

// Close marks the sink closed. The oto context itself cannot be released.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
