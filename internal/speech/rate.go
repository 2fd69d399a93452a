package speech

import (
	"fmt"
	"math"
	"strconv"
)

// Speech rate bounds. A rate of 1.0 is the engine's normal speaking speed.
const (
	MinRate     = 0.5
	MaxRate     = 2.0
	DefaultRate = 1.0

	// baseWordsPerMinute is what command line synthesizers treat as normal
	// speed.
	baseWordsPerMinute = 175
)

// ValidateRate reports whether rate is inside [MinRate, MaxRate].
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || rate < MinRate || rate > MaxRate {
		return fmt.Errorf("%w: %.2f not in [%.1f, %.1f]", ErrInvalidRate, rate, MinRate, MaxRate)
	}
	return nil
}

// WordsPerMinute converts a rate multiplier to the words-per-minute value
// taken by espeak and say.
func WordsPerMinute(rate float64) int {
	return int(math.Round(baseWordsPerMinute * rate))
}

// SAPIRate converts a rate multiplier to the Windows speech synthesizer's
// -10..10 scale, where 0 is normal speed.
func SAPIRate(rate float64) int {
	r := int(math.Round((rate - 1) * 10))
	return max(-10, min(10, r))
}

// FormatRate renders a rate the way the status bar shows it.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(math.Round(rate*100)/100, 'f', -1, 64) + "x"
}
