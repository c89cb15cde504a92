package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/csheth/hoverlate/internal/tuitest"
)

type fakeOllama struct {
	mu      sync.Mutex
	prompts []string
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, body.Prompt)
	f.mu.Unlock()
	// Long enough for the loading panel to be drawn.
	time.Sleep(300 * time.Millisecond)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"response": "你好"}`))
}

func (f *fakeOllama) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func TestHoverlateTranslatesDraggedSelection(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	fixture := filepath.Join(cmdDir, "testdata", "hello.txt")
	if _, err := os.Stat(fixture); err != nil {
		t.Fatalf("fixture missing: %v", err)
	}

	ollama := &fakeOllama{}
	server := httptest.NewServer(ollama)
	t.Cleanup(server.Close)

	binary := buildBinary(t, cmdDir)
	steps := []tuitest.Step{{WaitFor: "hello world"}}
	// Page text starts at column 2 below the one-line header.
	steps = append(steps, tuitest.DragSteps(2, 1, 6, 1)...)
	steps = append(steps, tuitest.Step{WaitFor: "Mode TRIGGER"})
	// The trigger sits one cell right of and below the release point.
	steps = append(steps, tuitest.ClickSteps(7, 2)...)
	steps = append(steps,
		tuitest.Step{WaitFor: "你好"},
		tuitest.Key("q"),
	)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", fixture},
		Dir:     cmdDir,
		Env: []string{
			"TRANSLATE_ENDPOINT=" + server.URL + "/api/generate",
			"TRANSLATE_MODEL=fixture-model",
			"LOG_FILE=",
		},
		Width:          100,
		Height:         30,
		Steps:          steps,
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Modes[tuitest.ModeMouseAllMotion] {
		t.Fatalf("mouse tracking never enabled: %v", rec.Modes)
	}
	if rec.Modes[tuitest.ModeAltScreen] {
		t.Fatalf("alt screen entered despite -no-alt-screen")
	}
	if !rec.Appears("Mode TRIGGER", "Translating…", "你好") {
		t.Fatalf("expected trigger, loading, then result:\n%s", rec.Plain())
	}
	prompts := ollama.received()
	if len(prompts) != 1 {
		t.Fatalf("expected one request, got %d", len(prompts))
	}
	if !strings.HasSuffix(prompts[0], " [hello]。") {
		t.Fatalf("unexpected prompt %q", prompts[0])
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "hoverlate-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
