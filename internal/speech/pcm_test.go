package speech

import (
	"bytes"
	"testing"
)

// monoPCM builds n frames of 16-bit mono samples with value i.
func monoPCM(n int) []byte {
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, byte(i), byte(i>>8))
	}
	return out
}

func TestConvertPCMIdentity(t *testing.T) {
	in := monoPCM(100)
	out := convertPCM(in, 1, 24000, 1, 24000, 1.0)
	if !bytes.Equal(in, out) {
		t.Error("same format at speed 1 should return the input")
	}
}

func TestConvertPCMSpeed(t *testing.T) {
	tests := []struct {
		name   string
		speed  float64
		frames int
	}{
		{"double speed halves", 2.0, 50},
		{"half speed doubles", 0.5, 200},
		{"normal", 1.0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convertPCM(monoPCM(100), 1, 24000, 2, 24000, tt.speed)
			if got := len(out) / 4; got != tt.frames {
				t.Errorf("frames = %d, want %d", got, tt.frames)
			}
		})
	}
}

func TestConvertPCMResample(t *testing.T) {
	out := convertPCM(monoPCM(48000), 1, 48000, 1, 24000, 1.0)
	if got := len(out) / 2; got != 24000 {
		t.Errorf("frames = %d, want 24000", got)
	}
}

func TestConvertPCMChannels(t *testing.T) {
	// One stereo frame: left=100, right=300.
	stereo := []byte{100, 0, 44, 1}
	mono := convertPCM(stereo, 2, 24000, 1, 24000, 1.0)
	if len(mono) != 2 {
		t.Fatalf("mono length = %d, want 2", len(mono))
	}
	if v := int16(uint16(mono[0]) | uint16(mono[1])<<8); v != 200 {
		t.Errorf("downmix = %d, want 200", v)
	}

	up := convertPCM([]byte{7, 0}, 1, 24000, 2, 24000, 1.0)
	if !bytes.Equal(up, []byte{7, 0, 7, 0}) {
		t.Errorf("upmix = %v, want [7 0 7 0]", up)
	}
}

func TestToPCMRejectsBadAudio(t *testing.T) {
	if _, err := toPCM(Audio{Format: FormatPCM, Data: monoPCM(4)}, 24000, 2, 1); err == nil {
		t.Error("PCM without a sample rate should fail")
	}
	if _, err := toPCM(Audio{Format: FormatMP3, Data: []byte("not an mp3")}, 24000, 2, 1); err == nil {
		t.Error("garbage MP3 should fail to decode")
	}
	if _, err := toPCM(Audio{Format: AudioFormat(9)}, 24000, 2, 1); err == nil {
		t.Error("unknown format should fail")
	}
}
