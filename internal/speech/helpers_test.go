package speech

import (
	"testing"
	"time"
)

const eventTimeout = 5 * time.Second

// waitEvent reads one event or fails the test.
func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for speech event")
	}
	return Event{}
}
