package speech

import (
	"errors"
	"math"
	"testing"
)

func TestValidateRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		wantErr bool
	}{
		{"minimum", MinRate, false},
		{"default", DefaultRate, false},
		{"maximum", MaxRate, false},
		{"too slow", 0.49, true},
		{"too fast", 2.01, true},
		{"zero", 0, true},
		{"nan", math.NaN(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRate(tt.rate)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRate) {
					t.Errorf("ValidateRate(%v) = %v, want ErrInvalidRate", tt.rate, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateRate(%v) unexpected error: %v", tt.rate, err)
			}
		})
	}
}

func TestRateConversions(t *testing.T) {
	if got := WordsPerMinute(1.0); got != 175 {
		t.Errorf("WordsPerMinute(1.0) = %d, want 175", got)
	}
	if got := WordsPerMinute(0.5); got != 88 {
		t.Errorf("WordsPerMinute(0.5) = %d, want 88", got)
	}
	if got := WordsPerMinute(2.0); got != 350 {
		t.Errorf("WordsPerMinute(2.0) = %d, want 350", got)
	}
	if got := SAPIRate(1.0); got != 0 {
		t.Errorf("SAPIRate(1.0) = %d, want 0", got)
	}
	if got := SAPIRate(2.0); got != 10 {
		t.Errorf("SAPIRate(2.0) = %d, want 10", got)
	}
	if got := SAPIRate(0.5); got != -5 {
		t.Errorf("SAPIRate(0.5) = %d, want -5", got)
	}
}

func TestFormatRate(t *testing.T) {
	tests := map[float64]string{
		1.0:                "1x",
		0.5:                "0.5x",
		1.25:               "1.25x",
		0.5 + 0.05 + 1e-12: "0.55x",
	}
	for in, want := range tests {
		if got := FormatRate(in); got != want {
			t.Errorf("FormatRate(%v) = %q, want %q", in, got, want)
		}
	}
}
