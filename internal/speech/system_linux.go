//go:build linux

package speech

import "strconv"

func defaultSystemBinary() string {
	return lookPathFirst("espeak-ng", "espeak")
}

// systemArgs builds espeak arguments. --stdin makes espeak read the whole
// text from standard input.
func systemArgs(voice string, rate float64) []string {
	args := []string{"--stdin", "-s", strconv.Itoa(WordsPerMinute(rate))}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return args
}
