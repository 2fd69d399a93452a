package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"
)

func TestOpenAISynthesizer(t *testing.T) {
	var got struct {
		Model string  `json:"model"`
		Input string  `json:"input"`
		Voice string  `json:"voice"`
		Speed float64 `json:"speed"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("fake-mp3"))
	}))
	defer srv.Close()

	s := NewOpenAISynthesizer(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	if !s.NativeRate() {
		t.Error("openai should apply rate natively")
	}
	audio, err := s.Synthesize(context.Background(), "Hello world", 1.5)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if audio.Format != FormatMP3 || string(audio.Data) != "fake-mp3" {
		t.Errorf("audio = %+v", audio)
	}
	if got.Model != "tts-1" || got.Voice != "alloy" || got.Input != "Hello world" || got.Speed != 1.5 {
		t.Errorf("request = %+v", got)
	}
}

func TestOpenAISynthesizerValidate(t *testing.T) {
	if err := NewOpenAISynthesizer(OpenAIConfig{}).Validate(); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Validate without key = %v, want ErrNotAvailable", err)
	}
	if err := NewOpenAISynthesizer(OpenAIConfig{APIKey: "k"}).Validate(); err != nil {
		t.Errorf("Validate with key = %v", err)
	}
}

func TestGTTSSynthesizerDefaults(t *testing.T) {
	g := NewGTTSSynthesizer(GTTSConfig{})
	if g.binary != "gtts-cli" || g.language != "en" || g.timeout != 30*time.Second {
		t.Errorf("defaults not applied: %+v", g)
	}
	if g.limiter == nil {
		t.Fatal("rate limiter should be set")
	}
	info := g.Info()
	if info.Name != "gtts" || !info.IsOnline {
		t.Errorf("info = %+v", info)
	}
}

func TestGTTSSynthesizerRejects(t *testing.T) {
	g := NewGTTSSynthesizer(GTTSConfig{Binary: "textreader-no-such-binary", RequestsPerMinute: 6000})
	if _, err := g.Synthesize(context.Background(), "", 1); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text = %v, want ErrEmptyText", err)
	}
	if _, err := g.Synthesize(context.Background(), "hello", 1); err == nil {
		t.Error("missing binary should fail")
	}
}

func TestGTTSSynthesizerLongText(t *testing.T) {
	g := NewGTTSSynthesizer(GTTSConfig{Binary: "textreader-no-such-binary", RequestsPerMinute: 6000})
	_, err := g.Synthesize(context.Background(), strings.Repeat("word ", 20000), 1)
	if err == nil {
		t.Fatal("missing binary should fail")
	}
	if !strings.Contains(err.Error(), "gtts-cli failed") {
		t.Errorf("long text should reach gtts-cli, got %v", err)
	}
}

func TestGTTSSynthesizerValidate(t *testing.T) {
	g := NewGTTSSynthesizer(GTTSConfig{Binary: "textreader-no-such-binary"})
	if err := g.Validate(); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Validate = %v, want ErrNotAvailable", err)
	}
}

func TestEdgeSynthesizerDefaults(t *testing.T) {
	e := NewEdgeSynthesizer(EdgeConfig{})
	if e.voice != DefaultEdgeVoice {
		t.Errorf("voice = %q, want %q", e.voice, DefaultEdgeVoice)
	}
	if e.NativeRate() {
		t.Error("edge rate is applied by resampling")
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

// edgeFrames feeds frames shaped like the edge-tts-go stream into a channel
// that, like the real stream, is never closed.
func edgeFrames(frames ...map[string]interface{}) <-chan map[string]interface{} {
	ch := make(chan map[string]interface{}, len(frames))
	for _, f := range frames {
		ch <- f
	}
	return ch
}

func edgeAudio(index int, data string) map[string]interface{} {
	return map[string]interface{}{
		"type": "audio",
		"data": edge.AudioData{Data: []byte(data), Index: index},
	}
}

func TestCollectEdgeAudio(t *testing.T) {
	end := map[string]interface{}{"end": ""}

	tests := []struct {
		name    string
		chunks  int
		frames  []map[string]interface{}
		want    string
		wantErr string
	}{
		{
			name:   "single chunk",
			chunks: 1,
			frames: []map[string]interface{}{
				edgeAudio(0, "ab"),
				{"type": "WordBoundary", "offset": 1, "duration": 2, "text": "hi"},
				edgeAudio(0, "cd"),
				end,
			},
			want: "abcd",
		},
		{
			name:   "chunks joined in index order",
			chunks: 2,
			frames: []map[string]interface{}{
				edgeAudio(1, "world"),
				edgeAudio(0, "hello "),
				end,
				end,
			},
			want: "hello world",
		},
		{
			name:    "websocket error",
			chunks:  1,
			frames:  []map[string]interface{}{edgeAudio(0, "ab"), {"error": edge.WebSocketError{Message: "connection reset"}}},
			wantErr: "connection reset",
		},
		{
			name:    "unknown response",
			chunks:  1,
			frames:  []map[string]interface{}{{"error": edge.UnknownResponse{Message: "bad header"}}},
			wantErr: "bad header",
		},
		{
			name:    "no audio",
			chunks:  1,
			frames:  []map[string]interface{}{end},
			wantErr: "no audio received",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectEdgeAudio(context.Background(), edgeFrames(tt.frames...), tt.chunks)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("collectEdgeAudio: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("audio = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectEdgeAudioCancelledWhileStalled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stalled := make(chan map[string]interface{})

	done := make(chan error, 1)
	go func() {
		_, err := collectEdgeAudio(ctx, stalled, 1)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("collectEdgeAudio did not return after cancel")
	}
}
