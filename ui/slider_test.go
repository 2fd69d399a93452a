package ui

import "testing"

func TestSliderStepped(t *testing.T) {
	rate := newSlider("Speech rate", 0.5, 2.0, speechRateStep, 1.0, nil)
	tests := []struct {
		value float64
		steps int
		want  float64
	}{
		{1.0, 1, 1.05},
		{1.0, -1, 0.95},
		{1.95, 1, 2.0},
		{2.0, 1, 2.0},
		{0.5, -1, 0.5},
		{1.03, 0, 1.05},
	}
	for _, tt := range tests {
		rate.value = tt.value
		if got := rate.stepped(tt.steps); got != tt.want {
			t.Errorf("stepped(%v, %d) = %v, expected %v", tt.value, tt.steps, got, tt.want)
		}
	}
}

func TestSliderFraction(t *testing.T) {
	font := newSlider("Font size", minFontSize, maxFontSize, fontSizeStep, 16, nil)
	if got := font.fraction(); got != 0.5 {
		t.Errorf("Expected fraction 0.5, got %v", got)
	}
	font.value = 30
	if got := font.fraction(); got != 1 {
		t.Errorf("Expected fraction clamped to 1, got %v", got)
	}
}

func TestNewSliderSnaps(t *testing.T) {
	font := newSlider("Font size", minFontSize, maxFontSize, fontSizeStep, 40, nil)
	if font.value != maxFontSize {
		t.Errorf("Expected initial value clamped to %d, got %v", maxFontSize, font.value)
	}
}
