package speech

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// SystemConfig configures the platform speech command.
type SystemConfig struct {
	// Binary overrides the platform default program.
	Binary string

	// Voice is passed to the program's voice flag when set.
	Voice string

	// ArgsFunc builds the program arguments. The text is always written to
	// the program's stdin. Defaults to the platform's argument builder.
	ArgsFunc func(voice string, rate float64) []string
}

// SystemEngine speaks through the operating system's speech command. The
// utterance finishes when the process exits.
type SystemEngine struct {
	notifier

	binary   string
	voice    string
	argsFunc func(voice string, rate float64) []string

	mu      sync.Mutex
	rate    float64
	current *utterance
	closed  bool

	wg sync.WaitGroup
}

// NewSystemEngine creates a SystemEngine for the current platform.
func NewSystemEngine(cfg SystemConfig) (*SystemEngine, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = defaultSystemBinary()
	}
	if binary == "" {
		return nil, fmt.Errorf("%w: no speech command known for this platform", ErrNotAvailable)
	}

	argsFunc := cfg.ArgsFunc
	if argsFunc == nil {
		argsFunc = systemArgs
	}

	return &SystemEngine{
		binary:   binary,
		voice:    cfg.Voice,
		argsFunc: argsFunc,
		rate:     DefaultRate,
	}, nil
}

// Speak starts the speech command with text on its stdin.
func (e *SystemEngine) Speak(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", engineErr("system", "speak", ErrEmptyText)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", engineErr("system", "speak", ErrEngineClosed)
	}

	u := newUtterance()
	cmd := exec.CommandContext(u.ctx, e.binary, e.argsFunc(e.voice, e.rate)...) //nolint:gosec
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		u.cancel()
		return "", engineErr("system", "speak", err)
	}

	e.current = u
	log.Debug("system speech started",
		"utterance", u.id,
		"binary", e.binary,
		"rate", e.rate,
		"chars", len(text))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		err := cmd.Wait()
		if err != nil && stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		e.finish(u, err)
	}()

	return u.id, nil
}

func (e *SystemEngine) finish(u *utterance, err error) {
	e.mu.Lock()
	if e.current == u {
		e.current = nil
	}
	e.mu.Unlock()

	ev := u.outcome(err)
	if ev.Err != nil {
		ev.Err = engineErr("system", "speak", ev.Err)
	}
	log.Debug("system speech ended", "utterance", u.id, "kind", ev.Kind, "error", ev.Err)
	e.emit(ev)
}

// Stop kills the running speech command, if any.
func (e *SystemEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		e.current.stop()
	}
	return nil
}

// SetRate sets the rate for the next utterance.
func (e *SystemEngine) SetRate(rate float64) error {
	if err := ValidateRate(rate); err != nil {
		return engineErr("system", "set rate", err)
	}
	e.mu.Lock()
	e.rate = rate
	e.mu.Unlock()
	return nil
}

// Rate returns the rate the next utterance will use.
func (e *SystemEngine) Rate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// Info describes the engine.
func (e *SystemEngine) Info() EngineInfo {
	return EngineInfo{Name: "system", Backend: e.binary}
}

// Validate checks that the speech command is on PATH.
func (e *SystemEngine) Validate() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return engineErr("system", "validate", fmt.Errorf("%w: %s not found in PATH", ErrNotAvailable, e.binary))
	}
	return nil
}

// Close stops any running command and closes all subscriptions.
func (e *SystemEngine) Close() error {
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
	return nil
}

// lookPathFirst returns the first candidate found on PATH, or the first
// candidate when none is installed so Validate can name it.
func lookPathFirst(candidates ...string) string {
	for _, c := range candidates {
		if _, err := exec.LookPath(c); err == nil {
			return c
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

var _ Engine = (*SystemEngine)(nil)
