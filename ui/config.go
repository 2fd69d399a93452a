package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	FontSize     float64
	SpeechRate   float64
	StopOnToggle bool
	EnableMouse  bool
	InputTTY     bool

	// File the buffer was loaded from, if any, and whether to reload it when
	// it changes on disk.
	Path   string
	Follow bool

	// For debugging the UI
	AltScreen            bool          `env:"TEXTREADER_ALT_SCREEN"     envDefault:"true"`
	StatusMessageTimeout time.Duration `env:"TEXTREADER_STATUS_TIMEOUT" envDefault:"3s"`
}
