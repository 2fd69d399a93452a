package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"
)

// DefaultEdgeVoice is used when no voice is configured.
const DefaultEdgeVoice = "en-US-AriaNeural"

// EdgeConfig configures the Edge synthesizer.
type EdgeConfig struct {
	Voice string
}

// EdgeSynthesizer produces MP3 with Microsoft Edge's online voices.
type EdgeSynthesizer struct {
	voice string
}

// NewEdgeSynthesizer returns a synthesizer for cfg.Voice.
func NewEdgeSynthesizer(cfg EdgeConfig) *EdgeSynthesizer {
	if cfg.Voice == "" {
		cfg.Voice = DefaultEdgeVoice
	}
	return &EdgeSynthesizer{voice: cfg.Voice}
}

// Info implements Synthesizer.
func (e *EdgeSynthesizer) Info() EngineInfo {
	return EngineInfo{Name: "edge", Backend: "edge-tts (" + e.voice + ")", IsOnline: true}
}

// NativeRate implements Synthesizer.
func (e *EdgeSynthesizer) NativeRate() bool { return false }

// Synthesize streams MP3 chunks from the Edge service.
func (e *EdgeSynthesizer) Synthesize(ctx context.Context, text string, _ float64) (Audio, error) {
	comm, err := edge.NewCommunicate(text, edge.WithVoice(e.voice))
	if err != nil {
		return Audio{}, fmt.Errorf("edge-tts: %w", err)
	}
	ch, err := comm.Stream()
	if err != nil {
		return Audio{}, fmt.Errorf("edge-tts stream: %w", err)
	}

	data, err := collectEdgeAudio(ctx, ch, comm.AudioDataIndex)
	if err != nil {
		go drainEdgeStream(ch)
		return Audio{}, err
	}
	return Audio{Format: FormatMP3, Data: data}, nil
}

// edgeDrainIdle is how long drainEdgeStream waits for another frame before
// giving up on the stream.
const edgeDrainIdle = 30 * time.Second

// collectEdgeAudio reads frames until every one of the stream's chunks has
// sent its "end" frame and returns the audio in chunk order. The stream never
// closes its channel, so the end frames are the only completion signal.
func collectEdgeAudio(ctx context.Context, ch <-chan map[string]interface{}, chunks int) ([]byte, error) {
	if chunks <= 0 {
		return nil, errors.New("edge-tts: nothing to synthesize")
	}

	parts := make([][]byte, chunks)
	for ended := 0; ended < chunks; {
		var msg map[string]interface{}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil, errors.New("edge-tts: stream closed early")
			}
			msg = m
		}

		if v, ok := msg["error"]; ok {
			return nil, edgeStreamError(v)
		}
		if _, ok := msg["end"]; ok {
			ended++
			continue
		}
		if typ, ok := msg["type"].(string); !ok || typ != "audio" {
			continue
		}
		if audio, ok := msg["data"].(edge.AudioData); ok && audio.Index >= 0 && audio.Index < chunks {
			parts[audio.Index] = append(parts[audio.Index], audio.Data...)
		}
	}

	data := bytes.Join(parts, nil)
	if len(data) == 0 {
		return nil, errors.New("edge-tts: no audio received")
	}
	return data, nil
}

// drainEdgeStream keeps reading an abandoned stream so its senders are not
// left blocked.
func drainEdgeStream(ch <-chan map[string]interface{}) {
	timer := time.NewTimer(edgeDrainIdle)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
			timer.Reset(edgeDrainIdle)
		case <-timer.C:
			return
		}
	}
}

func edgeStreamError(v interface{}) error {
	switch e := v.(type) {
	case edge.WebSocketError:
		return fmt.Errorf("edge-tts websocket: %s", e.Message)
	case edge.UnknownResponse:
		return fmt.Errorf("edge-tts: %s", e.Message)
	case edge.UnexpectedResponse:
		return fmt.Errorf("edge-tts: %s", e.Message)
	case edge.NoAudioReceived:
		return fmt.Errorf("edge-tts: %s", e.Message)
	case error:
		return fmt.Errorf("edge-tts: %w", e)
	default:
		return fmt.Errorf("edge-tts: %v", e)
	}
}

// Validate always succeeds; the service needs no credentials.
func (e *EdgeSynthesizer) Validate() error { return nil }
