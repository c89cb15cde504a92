package tuitest

import (
	"bytes"
	"io"
)

// Private modes the harness records when the program switches them on.
const (
	ModeMouseAllMotion = "mouse-all-motion"
	ModeMouseCell      = "mouse-cell-motion"
	ModeAltScreen      = "alt-screen"
)

type reply struct {
	query  []byte
	answer []byte
}

// Terminal queries termenv issues at startup. Without answers lipgloss
// blocks until its own timeout before the first frame.
var replies = []reply{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

var modeSwitches = map[string]string{
	"\x1b[?1003h": ModeMouseAllMotion,
	"\x1b[?1002h": ModeMouseCell,
	"\x1b[?1049h": ModeAltScreen,
}

// terminalResponder plays the part of the terminal emulator: it answers
// queries and notes which private modes were enabled.
type terminalResponder struct {
	w     io.Writer
	buf   []byte
	modes map[string]bool
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128), modes: map[string]bool{}}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	tr.noteModes()
	for tr.answerNext() {
	}
	// Sequences can span reads.
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

func (tr *terminalResponder) noteModes() {
	for seq, mode := range modeSwitches {
		if bytes.Contains(tr.buf, []byte(seq)) {
			tr.modes[mode] = true
		}
	}
}

// answerNext replies to the earliest pending query and drops the buffer up
// to its end.
func (tr *terminalResponder) answerNext() bool {
	first, at := -1, -1
	for i, r := range replies {
		idx := bytes.Index(tr.buf, r.query)
		if idx >= 0 && (at < 0 || idx < at) {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	r := replies[first]
	tr.buf = tr.buf[at+len(r.query):]
	_, _ = tr.w.Write(r.answer)
	return true
}

// Modes lists the private modes seen so far.
func (tr *terminalResponder) Modes() map[string]bool {
	out := make(map[string]bool, len(tr.modes))
	for k, v := range tr.modes {
		out[k] = v
	}
	return out
}
