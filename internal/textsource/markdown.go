package textsource

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Speakable strips markdown syntax and returns the prose. Code blocks and raw
// HTML are dropped, link targets are dropped in favour of their text, and
// blocks are separated by blank lines.
func Speakable(markdown string) string {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []byte
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := node.(type) {
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				out = append(out, n.Segment.Value(src)...)
				if n.SoftLineBreak() || n.HardLineBreak() {
					out = append(out, ' ')
				}
			}
		case *ast.String:
			if entering {
				out = append(out, n.Value...)
			}
		case *ast.AutoLink:
			if entering {
				out = append(out, n.Label(src)...)
			}
		case *ast.TextBlock, *ast.ListItem:
			if !entering {
				out = breakLines(out, 1)
			}
		case *ast.Paragraph, *ast.Heading, *ast.List, *ast.Blockquote, *ast.ThematicBreak:
			if !entering {
				out = breakLines(out, 2)
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(string(out))
}

// breakLines trims trailing spaces and ends out with at least n newlines.
func breakLines(out []byte, n int) []byte {
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return out
	}
	have := 0
	for i := len(out) - 1; i >= 0 && out[i] == '\n'; i-- {
		have++
	}
	for ; have < n; have++ {
		out = append(out, '\n')
	}
	return out
}
