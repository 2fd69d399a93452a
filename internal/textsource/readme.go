package textsource

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/muesli/gitcha"
)

var readmeNames = []string{"README.md", "README", "Readme.md", "Readme", "readme.md", "readme"}

// ErrNoReadme is returned by FindReadme when a directory has no readme.
var ErrNoReadme = errors.New("missing readme")

// FindReadme returns the shallowest readme under dir, honouring .gitignore.
func FindReadme(dir string) (string, error) {
	ch, err := gitcha.FindFilesExcept(dir, readmeNames, nil)
	if err != nil {
		return "", fmt.Errorf("unable to search %s: %w", dir, err)
	}

	var best string
	bestDepth := -1
	for res := range ch {
		depth := strings.Count(filepath.ToSlash(res.Path), "/")
		if bestDepth < 0 || depth < bestDepth {
			best, bestDepth = res.Path, depth
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w in %s", ErrNoReadme, dir)
	}
	return best, nil
}
