//go:build windows

package speech

import (
	"fmt"
	"strings"
)

func defaultSystemBinary() string {
	return lookPathFirst("powershell.exe", "pwsh.exe")
}

// systemArgs drives System.Speech through PowerShell, reading the text from
// stdin.
func systemArgs(voice string, rate float64) []string {
	var script strings.Builder
	script.WriteString("Add-Type -AssemblyName System.Speech;")
	script.WriteString("$s = New-Object System.Speech.Synthesis.SpeechSynthesizer;")
	fmt.Fprintf(&script, "$s.Rate = %d;", SAPIRate(rate))
	if voice != "" {
		fmt.Fprintf(&script, "$s.SelectVoice('%s');", strings.ReplaceAll(voice, "'", "''"))
	}
	script.WriteString("$s.Speak([Console]::In.ReadToEnd())")
	return []string{"-NoProfile", "-NonInteractive", "-Command", script.String()}
}
