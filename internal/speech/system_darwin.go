//go:build darwin

package speech

import "strconv"

func defaultSystemBinary() string {
	return lookPathFirst("say")
}

// systemArgs builds say arguments. "-f -" reads the text from stdin.
func systemArgs(voice string, rate float64) []string {
	args := []string{"-r", strconv.Itoa(WordsPerMinute(rate))}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return append(args, "-f", "-")
}
