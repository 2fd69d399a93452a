// Package textsource loads the text a reader session starts with and
// reloads it when the file changes.
package textsource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

var markdownExtensions = []string{".md", ".mdown", ".mkdn", ".mkd", ".markdown"}

// IsMarkdown reports whether name has a markdown extension.
func IsMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, v := range markdownExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// Load reads path, or standard input when path is Stdin. Markdown files are
// reduced to speakable text.
func Load(path string) (string, error) {
	if path == Stdin {
		return Read(os.Stdin, "")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return Read(f, path)
}

// Read reads all of r and normalises it to NFC. name is only used to detect
// markdown.
func Read(r io.Reader, name string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("unable to read text: %w", err)
	}
	s := norm.NFC.String(strings.ReplaceAll(string(b), "\r\n", "\n"))
	s = strings.TrimPrefix(s, "\ufeff")
	if IsMarkdown(name) {
		return Speakable(s), nil
	}
	return s, nil
}
