// Package sanitize filters keystroke, paste, and drop input for name-like
// controls down to an allowed character class: letters, combining marks,
// whitespace, hyphen, and apostrophe.
package sanitize

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Clean returns s normalised to NFC with every disallowed rune removed and
// runs of two or more whitespace characters collapsed to a single space.
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return ""
	}
	normalised := norm.NFC.String(s)

	// Drop disallowed runes first, keeping whitespace, then collapse
	// whitespace runs. Filtering first means junk between spaces still
	// produces a single space, never two.
	var filtered strings.Builder
	filtered.Grow(len(normalised))
	for _, r := range normalised {
		if unicode.IsSpace(r) || allowed(r) {
			filtered.WriteRune(r)
		}
	}

	var b strings.Builder
	b.Grow(filtered.Len())
	var run []rune
	for _, r := range filtered.String() {
		if unicode.IsSpace(r) {
			run = append(run, r)
			continue
		}
		flushRun(&b, run)
		run = run[:0]
		b.WriteRune(r)
	}
	flushRun(&b, run)
	return b.String()
}

// flushRun writes a pending whitespace run: a single whitespace rune passes
// through untouched, two or more collapse to one plain space.
func flushRun(b *strings.Builder, run []rune) {
	switch {
	case len(run) == 1:
		b.WriteRune(run[0])
	case len(run) > 1:
		b.WriteByte(' ')
	}
}

func allowed(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsMark(r) {
		return true
	}
	switch r {
	case '-', '\'', '’':
		return true
	}
	return false
}

// CleanPasted strips any markup from externally sourced text (paste or drop
// channels) before applying Clean. Clipboard payloads can carry HTML
// fragments; the strict policy reduces them to their text content.
func CleanPasted(s string) string {
	if s == "" {
		return ""
	}
	stripped := textPolicySingleton().Sanitize(s)
	return Clean(html.UnescapeString(stripped))
}

func textPolicySingleton() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// AcceptKeystroke reports whether a proposed insertion may pass through
// unchanged. A keystroke whose sanitisation would alter it is rejected
// outright rather than rewritten, so the caret never jumps mid-word.
func AcceptKeystroke(data string) bool {
	if data == "" {
		return true
	}
	return Clean(data) == data
}

// InsertAt splices sanitised text into value between the rune offsets start
// and end (the current selection) and returns the new value together with the
// caret position after the inserted text. Offsets outside the value are
// clamped.
func InsertAt(value, text string, start, end int) (string, int) {
	runes := []rune(value)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	cleaned := CleanPasted(text)
	before := string(runes[:start])
	after := string(runes[end:])

	next := Clean(before + cleaned + after)
	caret := len([]rune(Clean(before + cleaned)))
	if caret > len([]rune(next)) {
		caret = len([]rune(next))
	}
	return next, caret
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
