package speech

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// utterance is one in-flight speech request.
type utterance struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool
}

func newUtterance() *utterance {
	ctx, cancel := context.WithCancel(context.Background())
	return &utterance{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// stop marks the utterance as cancelled by the caller and aborts its work.
func (u *utterance) stop() {
	u.stopped.Store(true)
	u.cancel()
}

// outcome converts the utterance's terminal error into an Event.
func (u *utterance) outcome(err error) Event {
	defer u.cancel()
	switch {
	case u.stopped.Load():
		return Event{UtteranceID: u.id, Kind: EventCancelled}
	case err != nil:
		return Event{UtteranceID: u.id, Kind: EventFailed, Err: err}
	default:
		return Event{UtteranceID: u.id, Kind: EventFinished}
	}
}
