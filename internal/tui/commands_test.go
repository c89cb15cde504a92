package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rs/zerolog"

	"github.com/csheth/hoverlate/internal/overlay/overlaytest"
	"github.com/csheth/hoverlate/internal/translation"
)

func TestTranslateJobReportsFailureAsError(t *testing.T) {
	var delivered translation.Outcome
	runner := translateJob(func(context.Context) translation.Outcome {
		return translation.Failure{Message: "boom"}
	}, func(out translation.Outcome) { delivered = out })

	msg, err := runner(context.Background())
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", err)
	}
	msg.deliver()
	if delivered != (translation.Failure{Message: "boom"}) {
		t.Fatalf("delivered outcome = %#v", delivered)
	}
}

func TestJobBusRecords(t *testing.T) {
	bus := newJobBus(zerolog.Nop())
	runner := translateJob(func(context.Context) translation.Outcome {
		return translation.Success{Text: "ok"}
	}, nil)

	var started []requestStartedMsg
	var finished []requestFinishedMsg
	for _, c := range sequenceOf(t, bus.Start(runner)) {
		switch msg := c().(type) {
		case requestStartedMsg:
			started = append(started, msg)
		case requestFinishedMsg:
			finished = append(finished, msg)
		}
	}

	if len(started) != 1 || started[0].Record.State != requestRunning {
		t.Fatalf("unexpected start messages: %+v", started)
	}
	if len(finished) != 1 {
		t.Fatalf("expected one finish, got %d", len(finished))
	}
	rec := finished[0].Record
	if rec.ID != 1 || rec.State != requestDone || rec.Err != "" || rec.Elapsed < 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestJobBusShutdownCancelsRequests(t *testing.T) {
	bus := newJobBus(zerolog.Nop())
	runner := translateJob(func(ctx context.Context) translation.Outcome {
		<-ctx.Done()
		return translation.Failure{Message: ctx.Err().Error()}
	}, nil)

	cmds := sequenceOf(t, bus.Start(runner))
	bus.Shutdown()
	msg, ok := cmds[len(cmds)-1]().(requestFinishedMsg)
	if !ok {
		t.Fatalf("expected requestFinishedMsg")
	}
	if msg.Record.State != requestFailed || msg.Record.Err != context.Canceled.Error() {
		t.Fatalf("unexpected record after shutdown: %+v", msg.Record)
	}
}

func TestOutcomeViewsScheduleFadeIn(t *testing.T) {
	sched := &overlaytest.Scheduler{}
	views := &overlayViews{sched: sched, spinnerView: func() string { return "*" }}

	element := views.Outcome(translation.Success{Text: "你好"})()

	if delays := sched.Delays(); len(delays) != 1 || delays[0] != fadeInDuration {
		t.Fatalf("fade not scheduled: %v", delays)
	}
	before := element.View()
	sched.Flush()
	after := element.View()
	if before == "" || after == "" {
		t.Fatal("panel rendered empty")
	}
}

func TestFadeInSwitchesToFullRendering(t *testing.T) {
	fade := &fadeIn{faint: "faint", full: "full"}
	if fade.View() != "faint" {
		t.Fatalf("expected faint rendering first")
	}
	fade.finish()
	if fade.View() != "full" {
		t.Fatalf("expected full rendering after finish")
	}
}

func TestPanelBodyWrapsLongTranslations(t *testing.T) {
	body := panelBody("supercalifragilisticexpialidocious-and-then-some-more-text-to-wrap beyond the panel", resultPanelWidth)
	for _, line := range strings.Split(body, "\n") {
		if width := len([]rune(line)); width > resultPanelWidth {
			t.Fatalf("line %q exceeds panel width", line)
		}
	}
}

func TestOutcomePanelFitsNarrowPage(t *testing.T) {
	views := &overlayViews{
		sched:       &overlaytest.Scheduler{},
		spinnerView: func() string { return "*" },
		pageWidth:   func() int { return 20 },
	}

	element := views.Outcome(translation.Failure{Message: "dial tcp 127.0.0.1:11434: connect: connection refused"})()

	if width := lipgloss.Width(element.View()); width > 20 {
		t.Fatalf("panel is %d cells wide on a 20 cell page:\n%s", width, element.View())
	}
}

// sequenceOf unwraps the commands of a tea.Sequence.
func sequenceOf(t *testing.T, cmd tea.Cmd) []tea.Cmd {
	t.Helper()
	value := reflect.ValueOf(cmd())
	if value.Kind() != reflect.Slice || value.Type().Elem() != cmdType {
		t.Fatalf("expected a command sequence, got %s", value.Type())
	}
	cmds := make([]tea.Cmd, value.Len())
	for i := range cmds {
		cmds[i] = value.Index(i).Interface().(tea.Cmd)
	}
	return cmds
}
