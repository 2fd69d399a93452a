package ui

import (
	"unicode"
	"unicode/utf8"
)

// The textarea shows a sanitized copy of the buffer: tabs become
// textareaTabWidth spaces, carriage returns become newlines, other control
// characters are dropped and only the first 10000 lines are kept. Edits made
// in the textarea are therefore spliced into the buffer instead of replacing
// it.
const textareaTabWidth = 4

// applyEdit replays the change from before to after, both textarea values,
// onto text, the buffer before is a view of. Content the textarea cannot show
// is kept. It reports false when before is not a view of text.
func applyEdit(text, before, after string) (string, bool) {
	if text == before {
		return after, true
	}

	src := []rune(text)
	old := []rune(before)
	cur := []rune(after)

	// The changed region: old[p:len(old)-q] became cur[p:len(cur)-q].
	p := 0
	for p < len(old) && p < len(cur) && old[p] == cur[p] {
		p++
	}
	q := 0
	for q < len(old)-p && q < len(cur)-p && old[len(old)-1-q] == cur[len(cur)-1-q] {
		q++
	}

	start, startView, ok := bufferOffset(src, old, p, false)
	if !ok {
		return text, false
	}
	end, endView, ok := bufferOffset(src, old, len(old)-q, true)
	if !ok {
		return text, false
	}

	inserted := cur[startView : len(cur)-(len(old)-endView)]
	out := make([]rune, 0, start+len(inserted)+len(src)-end)
	out = append(out, src[:start]...)
	out = append(out, inserted...)
	out = append(out, src[end:]...)
	return string(out), true
}

// bufferOffset maps position target in view, the textarea's copy of src, to
// a position in src. A target inside an expanded tab moves to the tab's start,
// or past it when roundUp is set; the view position moves with it.
func bufferOffset(src, view []rune, target int, roundUp bool) (int, int, bool) {
	i, j := 0, 0
	for j < target {
		if i >= len(src) {
			return 0, 0, false
		}
		switch r := src[i]; {
		case r == '\t':
			if !hasSpaces(view, j, textareaTabWidth) {
				return 0, 0, false
			}
			if j+textareaTabWidth > target && !roundUp {
				return i, j, true
			}
			i++
			j += textareaTabWidth
		case r == '\r':
			if view[j] != '\n' {
				return 0, 0, false
			}
			i++
			j++
		case r == '\n' || (r != utf8.RuneError && !unicode.IsControl(r)):
			if view[j] != r {
				return 0, 0, false
			}
			i++
			j++
		default:
			// Not shown by the textarea.
			i++
		}
	}
	return i, j, true
}

func hasSpaces(view []rune, at, n int) bool {
	if at+n > len(view) {
		return false
	}
	for _, r := range view[at : at+n] {
		if r != ' ' {
			return false
		}
	}
	return true
}
