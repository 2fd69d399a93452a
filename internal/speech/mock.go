package speech

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Call records one operation received by a MockEngine.
type Call struct {
	Op   string // "stop", "set_rate" or "speak"
	Text string
	Rate float64
}

// MockEngine records calls and completes utterances on demand. With a
// positive delay it finishes every utterance by itself, which makes it usable
// as a silent engine from the command line.
type MockEngine struct {
	notifier

	mu         sync.Mutex
	calls      []Call
	rate       float64
	current    string
	delay      time.Duration
	closed     bool
	speakErr   error
	setRateErr error
	stopErr    error
}

// NewMockEngine returns a mock that finishes utterances after delay, or only
// when Finish is called if delay is zero.
func NewMockEngine(delay time.Duration) *MockEngine {
	return &MockEngine{rate: DefaultRate, delay: delay}
}

// FailSpeak makes subsequent Speak calls return err.
func (m *MockEngine) FailSpeak(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speakErr = err
}

// FailStop makes subsequent Stop calls return err without cancelling.
func (m *MockEngine) FailStop(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopErr = err
}

// FailSetRate makes subsequent SetRate calls return err.
func (m *MockEngine) FailSetRate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setRateErr = err
}

// Speak implements Engine.
func (m *MockEngine) Speak(text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Op: "speak", Text: text})
	if m.closed {
		return "", engineErr("mock", "speak", ErrEngineClosed)
	}
	if m.speakErr != nil {
		return "", engineErr("mock", "speak", m.speakErr)
	}

	id := uuid.NewString()
	m.current = id
	if m.delay > 0 {
		time.AfterFunc(m.delay, func() { m.finishID(id, EventFinished, nil) })
	}
	return id, nil
}

// Stop implements Engine. A running utterance reports EventCancelled.
func (m *MockEngine) Stop() error {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Op: "stop"})
	if m.stopErr != nil {
		err := m.stopErr
		m.mu.Unlock()
		return engineErr("mock", "stop", err)
	}
	id := m.current
	m.mu.Unlock()

	if id != "" {
		m.finishID(id, EventCancelled, nil)
	}
	return nil
}

// SetRate implements Engine.
func (m *MockEngine) SetRate(rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Op: "set_rate", Rate: rate})
	if m.setRateErr != nil {
		return engineErr("mock", "set rate", m.setRateErr)
	}
	if err := ValidateRate(rate); err != nil {
		return engineErr("mock", "set rate", err)
	}
	m.rate = rate
	return nil
}

// Finish completes the current utterance and returns its ID, or "" when
// nothing is playing.
func (m *MockEngine) Finish() string {
	m.mu.Lock()
	id := m.current
	m.mu.Unlock()

	if id != "" {
		m.finishID(id, EventFinished, nil)
	}
	return id
}

// Fail ends the current utterance with err.
func (m *MockEngine) Fail(err error) string {
	m.mu.Lock()
	id := m.current
	m.mu.Unlock()

	if id != "" {
		m.finishID(id, EventFailed, err)
	}
	return id
}

func (m *MockEngine) finishID(id string, kind EventKind, err error) {
	m.mu.Lock()
	if m.current != id {
		m.mu.Unlock()
		return
	}
	m.current = ""
	m.mu.Unlock()

	m.emit(Event{UtteranceID: id, Kind: kind, Err: err})
}

// Calls returns a copy of the recorded calls.
func (m *MockEngine) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// ResetCalls forgets recorded calls.
func (m *MockEngine) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Subscribers returns the number of open subscriptions.
func (m *MockEngine) Subscribers() int {
	return m.subscribers()
}

// Info implements Engine.
func (m *MockEngine) Info() EngineInfo {
	return EngineInfo{Name: "mock", Backend: "none"}
}

// Validate implements Engine.
func (m *MockEngine) Validate() error { return nil }

// Close implements Engine.
func (m *MockEngine) Close() error {
	m.mu.Lock()
	m.closed = true
	m.current = ""
	m.mu.Unlock()
	m.closeAll()
	return nil
}

var _ Engine = (*MockEngine)(nil)
