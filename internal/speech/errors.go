package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned by Speak when there is nothing to say.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidRate is returned when a rate falls outside [MinRate, MaxRate].
	ErrInvalidRate = errors.New("speech rate out of range")

	// ErrEngineClosed is returned by operations on a closed engine.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrUnknownEngine is returned by New for an unrecognised engine name.
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrNotAvailable is returned by Validate when the engine's backing
	// program or credentials are missing.
	ErrNotAvailable = errors.New("engine not available")

	// ErrItemTooLarge is returned when an entry exceeds the cache capacity.
	ErrItemTooLarge = errors.New("item too large for cache")
)

// EngineError records which engine operation failed and why.
type EngineError struct {
	Engine string
	Op     string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

func engineErr(engine, op string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Engine: engine, Op: op, Err: err}
}
