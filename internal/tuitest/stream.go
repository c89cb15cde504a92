package tuitest

import (
	"regexp"
	"strings"
)

var (
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscPattern = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

func stripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	return strings.NewReplacer("\x0e", "", "\x0f", "", "\r", "").Replace(s)
}

// Plain returns the whole terminal stream with escape sequences removed.
// The renderer repaints only changed lines, so anything drawn at some point
// during the run is found here even when it was later overwritten.
func (r *Recording) Plain() string {
	if r == nil {
		return ""
	}
	return stripANSI(string(r.Raw))
}

// Appears reports whether every text was drawn, each one after the previous.
func (r *Recording) Appears(texts ...string) bool {
	rest := r.Plain()
	for _, text := range texts {
		idx := strings.Index(rest, text)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(text):]
	}
	return true
}

// LastIndex returns the offset of the final occurrence of text in the plain
// stream, or -1.
func (r *Recording) LastIndex(text string) int {
	return strings.LastIndex(r.Plain(), text)
}
