package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// GTTSConfig configures the gTTS synthesizer.
type GTTSConfig struct {
	// Binary defaults to gtts-cli.
	Binary string

	// Language code, defaults to "en".
	Language string

	// RequestsPerMinute limits calls to avoid being blocked by Google.
	// Defaults to 50.
	RequestsPerMinute int

	// Timeout bounds one synthesis. Defaults to 30s.
	Timeout time.Duration
}

// GTTSSynthesizer produces MP3 through gtts-cli (Google Translate TTS). No
// API key is needed.
type GTTSSynthesizer struct {
	binary   string
	language string
	timeout  time.Duration
	limiter  *rate.Limiter
}

// NewGTTSSynthesizer applies defaults to cfg and returns a synthesizer.
func NewGTTSSynthesizer(cfg GTTSConfig) *GTTSSynthesizer {
	if cfg.Binary == "" {
		cfg.Binary = "gtts-cli"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GTTSSynthesizer{
		binary:   cfg.Binary,
		language: cfg.Language,
		timeout:  cfg.Timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}
}

// Info implements Synthesizer.
func (g *GTTSSynthesizer) Info() EngineInfo {
	return EngineInfo{
		Name:     "gtts",
		Backend:  fmt.Sprintf("%s (%s)", g.binary, g.language),
		IsOnline: true,
	}
}

// NativeRate implements Synthesizer. gTTS only knows normal and slow.
func (g *GTTSSynthesizer) NativeRate() bool { return false }

// Synthesize runs gtts-cli with the text on stdin and MP3 on stdout. Long
// text is split into requests by gtts-cli itself.
func (g *GTTSSynthesizer) Synthesize(ctx context.Context, text string, _ float64) (Audio, error) {
	if text == "" {
		return Audio{}, ErrEmptyText
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return Audio{}, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, g.binary, "-l", g.language, "-") //nolint:gosec
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Audio{}, fmt.Errorf("gtts-cli timed out after %v", g.timeout)
		}
		if stderr.Len() > 0 {
			return Audio{}, fmt.Errorf("gtts-cli failed: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return Audio{}, fmt.Errorf("gtts-cli failed: %w", err)
	}
	if stdout.Len() == 0 {
		return Audio{}, errors.New("gtts-cli produced no audio")
	}
	return Audio{Format: FormatMP3, Data: stdout.Bytes()}, nil
}

// Validate checks that gtts-cli is on PATH.
func (g *GTTSSynthesizer) Validate() error {
	if _, err := exec.LookPath(g.binary); err != nil {
		return engineErr("gtts", "validate", fmt.Errorf("%w: %s not found in PATH (pip install gTTS)", ErrNotAvailable, g.binary))
	}
	return nil
}
