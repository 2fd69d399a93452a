package ui

import (
	"math"
	"strings"
)

const (
	minFontSize     = 8
	maxFontSize     = 24
	defaultFontSize = 16
	fontSizeStep    = 1

	speechRateStep = 0.05
)

// slider is a bounded numeric control that moves in fixed steps.
type slider struct {
	label    string
	min      float64
	max      float64
	step     float64
	value    float64
	format   func(float64) string
	barWidth int
}

func newSlider(label string, lo, hi, step, value float64, format func(float64) string) slider {
	s := slider{
		label:    label,
		min:      lo,
		max:      hi,
		step:     step,
		format:   format,
		barWidth: 20,
	}
	s.value = s.snap(value)
	return s
}

// snap rounds v to the nearest step and clamps it into range. Only key
// presses go through snap; values set directly are kept as given.
func (s slider) snap(v float64) float64 {
	if math.IsNaN(v) {
		return s.min
	}
	v = math.Round(v/s.step) * s.step
	v = math.Round(v*1e6) / 1e6
	return math.Max(s.min, math.Min(s.max, v))
}

// stepped returns the value n steps away, snapped into range.
func (s slider) stepped(n int) float64 {
	return s.snap(s.value + float64(n)*s.step)
}

// fraction is how far along the range the value sits, in [0, 1].
func (s slider) fraction() float64 {
	if s.max <= s.min {
		return 0
	}
	return math.Max(0, math.Min(1, (s.value-s.min)/(s.max-s.min)))
}

func (s slider) view(focused bool) string {
	filled := int(math.Round(s.fraction() * float64(s.barWidth)))
	bar := sliderFilledStyle(strings.Repeat("━", filled)) +
		sliderKnobStyle("●") +
		sliderEmptyStyle(strings.Repeat("─", s.barWidth-filled))

	label := s.label
	if focused {
		label = focusedLabelStyle(label)
	} else {
		label = labelStyle(label)
	}
	return label + " " + bar + " " + valueStyle(s.format(s.value))
}
