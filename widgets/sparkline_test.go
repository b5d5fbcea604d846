package widgets_test

import (
	"testing"

	"github.com/deevus/nexus-tui/widgets"
)

func TestSparkline_PushWraps(t *testing.T) {
	sl := widgets.NewSparkline(3)
	for _, v := range []float64{10, 20, 30, 40} {
		sl.Push(v)
	}
	if sl.Count() != 3 {
		t.Fatalf("expected count=3, got %d", sl.Count())
	}
	got := sl.Values()
	if got[0] != 20 || got[2] != 40 {
		t.Errorf("expected oldest evicted, got %v", got)
	}
}

func TestSparkline_Draw_Empty(t *testing.T) {
	sl := widgets.NewSparkline(10)
	s, err := sl.Draw(testDrawContext(20, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := cellText(s.Buffer[0]); g != "" {
		t.Errorf("expected blank, got %q", g)
	}
}

func TestSparkline_Draw_Ceiling(t *testing.T) {
	sl := widgets.NewSparkline(10)
	sl.Ceiling = 100
	sl.Push(0)
	sl.Push(100)

	s, err := sl.Draw(testDrawContext(10, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := cellText(s.Buffer[0]); g != "▁" {
		t.Errorf("expected lowest block, got %q", g)
	}
	if g := cellText(s.Buffer[1]); g != "█" {
		t.Errorf("expected highest block, got %q", g)
	}
}

func TestSparkline_Draw_KeepsNewest(t *testing.T) {
	sl := widgets.NewSparkline(60)
	for i := 0; i < 60; i++ {
		sl.Push(float64(i))
	}
	s, err := sl.Draw(testDrawContext(5, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := cellText(s.Buffer[4]); g != "█" {
		t.Errorf("expected newest sample at max level, got %q", g)
	}
}

func TestSparkline_Draw_FlatLine(t *testing.T) {
	sl := widgets.NewSparkline(10)
	for i := 0; i < 5; i++ {
		sl.Push(50)
	}
	s, err := sl.Draw(testDrawContext(20, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := cellText(s.Buffer[0]); g != "▄" {
		t.Errorf("expected mid block for flat non-zero line, got %q", g)
	}
}
