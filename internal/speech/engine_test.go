package speech

import (
	"testing"
)

func TestNotifierFanOut(t *testing.T) {
	var n notifier
	a, releaseA := n.Subscribe()
	b, releaseB := n.Subscribe()
	defer releaseB()

	n.emit(Event{UtteranceID: "u1", Kind: EventFinished})

	if ev := waitEvent(t, a); ev.UtteranceID != "u1" {
		t.Errorf("subscriber a got %q, want u1", ev.UtteranceID)
	}
	if ev := waitEvent(t, b); ev.UtteranceID != "u1" {
		t.Errorf("subscriber b got %q, want u1", ev.UtteranceID)
	}

	releaseA()
	releaseA() // releasing twice is harmless
	if _, ok := <-a; ok {
		t.Error("released channel should be closed")
	}
	if got := n.subscribers(); got != 1 {
		t.Errorf("subscribers = %d, want 1", got)
	}
}

func TestNotifierCloseAll(t *testing.T) {
	var n notifier
	ch, release := n.Subscribe()
	n.closeAll()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after closeAll")
	}
	release() // must not panic on an already closed channel

	late, _ := n.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribing after closeAll should return a closed channel")
	}
}

func TestNotifierDropsWhenFull(t *testing.T) {
	var n notifier
	ch, release := n.Subscribe()
	defer release()

	for i := 0; i < subscriberBuffer+3; i++ {
		n.emit(Event{Kind: EventFinished})
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered events = %d, want %d", len(ch), subscriberBuffer)
	}
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventFinished, "finished"},
		{EventCancelled, "cancelled"},
		{EventFailed, "failed"},
		{EventKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
