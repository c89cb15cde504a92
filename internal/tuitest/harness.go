package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 5 * time.Second
	pollInterval   = 20 * time.Millisecond
)

// Step is one scripted interaction. When WaitFor is set the step first
// blocks until the plain output contains it, then sleeps Delay, then writes
// Input.
type Step struct {
	Delay   time.Duration
	WaitFor string
	Input   []byte
}

// Key is a convenience Step that presses a single key.
func Key(k string) Step {
	return Step{Input: []byte(k)}
}

// Config configures how the harness spawns and drives the CLI program.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

func (c Config) size() *pty.Winsize {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return &pty.Winsize{Rows: uint16(h), Cols: uint16(w)}
}

func (c Config) exitAllowed(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && slices.Contains(c.AllowedExitCodes, exitErr.ExitCode()) {
		return true
	}
	return c.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

// Recording contains the raw terminal stream.
type Recording struct {
	Raw      []byte
	Duration time.Duration
	// Modes holds the terminal private modes the program enabled.
	Modes map[string]bool
}

// session is one program attached to a PTY.
type session struct {
	ptmx      *os.File
	output    syncBuffer
	responder *terminalResponder
	drained   chan struct{}
}

// Run executes the configured command inside a PTY, replays the scripted
// inputs, and captures every byte written to the terminal.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, cfg.size())
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	s := &session{ptmx: ptmx, responder: newTerminalResponder(ptmx), drained: make(chan struct{})}
	go s.pump()

	start := time.Now()
	if err := s.replay(ctx, cfg.Steps); err != nil {
		return nil, err
	}
	if err := awaitExit(ctx, cmd, cfg); err != nil {
		return nil, err
	}

	// Closing the PTY lets pump finish draining.
	_ = ptmx.Close()
	<-s.drained

	return &Recording{Raw: s.output.Bytes(), Duration: time.Since(start), Modes: s.responder.Modes()}, nil
}

// pump copies program output into the buffer and answers terminal queries.
func (s *session) pump() {
	defer close(s.drained)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.responder.Process(buf[:n])
			_, _ = s.output.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (s *session) replay(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if step.WaitFor != "" {
			if err := s.waitFor(ctx, step.WaitFor); err != nil {
				return fmt.Errorf("tuitest: step %d: %w", i, err)
			}
		}
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := s.ptmx.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: write input: %w", err)
		}
	}
	return nil
}

func (s *session) waitFor(ctx context.Context, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for !strings.Contains(stripANSI(s.output.String()), text) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", text, ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

func awaitExit(ctx context.Context, cmd *exec.Cmd, cfg Config) error {
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if err != nil && !cfg.exitAllowed(err) {
			return fmt.Errorf("tuitest: program exited with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
}

// syncBuffer lets the script poll output while pump writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	if !slices.ContainsFunc(env, func(e string) bool { return strings.HasPrefix(e, "TERM=") }) {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}
