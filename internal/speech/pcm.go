package speech

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// AudioFormat identifies the encoding of synthesized audio.
type AudioFormat int

const (
	// FormatMP3 is an MPEG-1/2 Layer III stream.
	FormatMP3 AudioFormat = iota
	// FormatPCM is signed 16-bit little-endian PCM.
	FormatPCM
)

// Audio is the output of a Synthesizer.
type Audio struct {
	Format AudioFormat
	Data   []byte

	// SampleRate and Channels describe FormatPCM data.
	SampleRate int
	Channels   int
}

const bytesPerSample = 2

// decodeMP3 decodes MP3 to 16-bit stereo PCM. go-mp3 always produces two
// channels.
func decodeMP3(data []byte) (pcm []byte, sampleRate int, err error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decode: %w", err)
	}
	pcm, err = io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 read: %w", err)
	}
	return pcm, dec.SampleRate(), nil
}

// toPCM turns synthesized audio into PCM at the sink's format.
func toPCM(a Audio, dstRate, dstChannels int, speed float64) ([]byte, error) {
	switch a.Format {
	case FormatMP3:
		pcm, sr, err := decodeMP3(a.Data)
		if err != nil {
			return nil, err
		}
		return convertPCM(pcm, 2, sr, dstChannels, dstRate, speed), nil
	case FormatPCM:
		if a.SampleRate <= 0 || a.Channels <= 0 {
			return nil, fmt.Errorf("pcm audio missing format: rate=%d channels=%d", a.SampleRate, a.Channels)
		}
		return convertPCM(a.Data, a.Channels, a.SampleRate, dstChannels, dstRate, speed), nil
	default:
		return nil, fmt.Errorf("unsupported audio format %d", a.Format)
	}
}

// convertPCM resamples 16-bit PCM by nearest-frame selection and maps
// channels. speed > 1 drops frames, speed < 1 repeats them, so pitch moves
// with speed.
func convertPCM(pcm []byte, srcChannels, srcRate, dstChannels, dstRate int, speed float64) []byte {
	if speed <= 0 {
		speed = 1
	}
	srcFrame := srcChannels * bytesPerSample
	frames := len(pcm) / srcFrame
	step := float64(srcRate) * speed / float64(dstRate)

	if step == 1 && srcChannels == dstChannels {
		return pcm[:frames*srcFrame]
	}

	dstFrame := dstChannels * bytesPerSample
	out := make([]byte, 0, int(float64(frames)/step+1)*dstFrame)
	for pos := 0.0; int(pos) < frames; pos += step {
		frame := pcm[int(pos)*srcFrame : int(pos)*srcFrame+srcFrame]
		out = appendFrame(out, frame, srcChannels, dstChannels)
	}
	return out
}

func appendFrame(out, frame []byte, srcChannels, dstChannels int) []byte {
	switch {
	case srcChannels == dstChannels:
		return append(out, frame...)
	case dstChannels == 1:
		var sum int
		for c := 0; c < srcChannels; c++ {
			sum += int(int16(uint16(frame[2*c]) | uint16(frame[2*c+1])<<8))
		}
		v := int16(sum / srcChannels)
		return append(out, byte(v), byte(v>>8))
	default:
		// Repeat the first source channel into every destination channel.
		for c := 0; c < dstChannels; c++ {
			out = append(out, frame[0], frame[1])
		}
		return out
	}
}
