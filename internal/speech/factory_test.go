package speech

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  error
	}{
		{"mock", Config{Engine: EngineMock}, "mock", nil},
		{"gtts", Config{Engine: EngineGTTS}, "gtts", nil},
		{"edge", Config{Engine: EngineEdge}, "edge", nil},
		{"openai with cache", Config{Engine: EngineOpenAI, CacheSize: 1 << 20}, "openai", nil},
		{"system with explicit binary", Config{Engine: EngineSystem, System: SystemConfig{Binary: "espeak"}}, "system", nil},
		{"unknown", Config{Engine: "festival"}, "", ErrUnknownEngine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer e.Close() //nolint:errcheck
			if got := e.Info().Name; got != tt.wantName {
				t.Errorf("engine name = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestEngineErrorUnwraps(t *testing.T) {
	err := engineErr("gtts", "speak", ErrEmptyText)
	if !errors.Is(err, ErrEmptyText) {
		t.Error("EngineError should unwrap to its cause")
	}
	if got, want := err.Error(), "gtts: speak: text cannot be empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if engineErr("gtts", "speak", nil) != nil {
		t.Error("nil cause should produce nil error")
	}
}
