package speech

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Engine is an external text-to-speech capability.
//
// Speak, Stop and SetRate never block on audio: Speak starts an utterance
// and returns its ID, and the outcome arrives later as an Event on every
// channel returned by Subscribe.
type Engine interface {
	// Speak begins an utterance and returns its ID.
	Speak(text string) (string, error)

	// Stop cancels the utterance in progress, if any. The cancelled
	// utterance reports EventCancelled.
	Stop() error

	// SetRate sets the rate used by subsequent utterances. An utterance
	// already started keeps its rate.
	SetRate(rate float64) error

	// Subscribe returns a channel of utterance events and a function that
	// releases it. The channel is closed on release or when the engine is
	// closed.
	Subscribe() (<-chan Event, func())

	// Info describes the engine.
	Info() EngineInfo

	// Validate checks that the engine's program or credentials are present.
	Validate() error

	// Close stops playback and releases all subscriptions.
	Close() error
}

// EngineInfo describes an engine.
type EngineInfo struct {
	Name     string
	Backend  string // program or service doing the synthesis
	IsOnline bool
}

// EventKind says how an utterance ended.
type EventKind int

const (
	// EventFinished means playback reached the end.
	EventFinished EventKind = iota
	// EventCancelled means Stop ended the utterance early.
	EventCancelled
	// EventFailed means synthesis or playback failed after Speak returned.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventFinished:
		return "finished"
	case EventCancelled:
		return "cancelled"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports the end of an utterance.
type Event struct {
	UtteranceID string
	Kind        EventKind
	Err         error
}

const subscriberBuffer = 8

// notifier fans utterance events out to subscribers.
type notifier struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// Subscribe registers a new listener.
func (n *notifier) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	if n.subs == nil {
		n.subs = make(map[int]chan Event)
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if c, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(c)
			}
		})
	}
}

func (n *notifier) emit(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
			log.Warn("dropping speech event for slow subscriber", "utterance", ev.UtteranceID, "kind", ev.Kind)
		}
	}
}

func (n *notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
	n.closed = true
}

func (n *notifier) subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
