//go:build !linux && !darwin && !windows

package speech

func defaultSystemBinary() string {
	return ""
}

func systemArgs(string, float64) []string {
	return nil
}
