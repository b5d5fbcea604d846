package controller_test

import (
	"testing"
	"time"

	"github.com/deevus/nexus-tui/internal/notify"
	"github.com/deevus/nexus-tui/internal/printer"
)

// uiLoop queues dispatched completions so tests decide when they run.
type uiLoop struct {
	ch chan func()
}

func newUILoop() *uiLoop {
	return &uiLoop{ch: make(chan func(), 16)}
}

func (l *uiLoop) Dispatch(fn func()) {
	l.ch <- fn
}

// runOne waits for the next completion and runs it.
func (l *uiLoop) runOne(t *testing.T) {
	t.Helper()
	select {
	case fn := <-l.ch:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched completion")
	}
}

// idle asserts that nothing was dispatched.
func (l *uiLoop) idle(t *testing.T) {
	t.Helper()
	select {
	case <-l.ch:
		t.Fatal("unexpected dispatched completion")
	case <-time.After(20 * time.Millisecond):
	}
}

type recordingSurface struct {
	written   []string
	printed   bool
	discarded bool
	err       error
	writeErr  error
}

func (s *recordingSurface) WriteString(str string) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.written = append(s.written, str)
	return len(str), nil
}

func (s *recordingSurface) Print() error {
	s.printed = true
	return s.err
}

func (s *recordingSurface) Discard() error {
	s.discarded = true
	return nil
}

type openerFunc func(w, h int) printer.Surface

func (f openerFunc) Open(w, h int) printer.Surface { return f(w, h) }

func messagesOfKind(m *notify.Messages, k notify.Kind) []notify.Message {
	var out []notify.Message
	for _, msg := range m.Entries() {
		if msg.Kind == k {
			out = append(out, msg)
		}
	}
	return out
}
