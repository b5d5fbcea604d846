package controller_test

import (
	"testing"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/controller"
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/widgets"
)

func newKeyNavForm(t *testing.T, bindToEnter bool) (*event.Dispatcher, *widgets.Form, *widgets.Button, *int) {
	t.Helper()
	d := event.NewDispatcher()
	clicks := new(int)
	d.Subscribe(event.ComponentQuery{XType: widgets.ButtonXType}, event.Click, func(event.Emitter, ...any) { *clicks++ })

	b := &widgets.Button{Label: "Filter", Action: "filter", BindToEnter: bindToEnter, Events: d}
	form := widgets.NewForm(&widgets.Field{Label: "Filter"}, b)
	controller.NewKeyNav(d).Init()
	d.Fire(event.Of(b), event.AfterRender)
	return d, form, b, clicks
}

func pressEnter(t *testing.T, f *widgets.Form) {
	t.Helper()
	if _, err := f.HandleEvent(vaxis.Key{Keycode: vaxis.KeyEnter}, vxfw.EventPhase(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestKeyNav_EnterClicksEnabledButton(t *testing.T) {
	_, form, _, clicks := newKeyNavForm(t, true)
	pressEnter(t, form)
	if *clicks != 1 {
		t.Errorf("expected 1 click, got %d", *clicks)
	}
}

func TestKeyNav_EnterIgnoresDisabledButton(t *testing.T) {
	_, form, b, clicks := newKeyNavForm(t, true)
	b.SetDisabled(true)
	pressEnter(t, form)
	if *clicks != 0 {
		t.Errorf("expected no click while disabled, got %d", *clicks)
	}

	b.SetDisabled(false)
	pressEnter(t, form)
	if *clicks != 1 {
		t.Errorf("expected click once re-enabled, got %d", *clicks)
	}
}

func TestKeyNav_RerenderInstallsOnce(t *testing.T) {
	d, form, b, clicks := newKeyNavForm(t, true)
	d.Fire(event.Of(b), event.AfterRender)
	d.Fire(event.Of(b), event.AfterRender)

	if n := form.KeyListeners(vaxis.KeyEnter); n != 1 {
		t.Errorf("expected 1 Enter listener, got %d", n)
	}
	pressEnter(t, form)
	if *clicks != 1 {
		t.Errorf("expected 1 click, got %d", *clicks)
	}
}

func TestKeyNav_IgnoresButtonsNotOptedIn(t *testing.T) {
	_, form, _, _ := newKeyNavForm(t, false)
	if n := form.KeyListeners(vaxis.KeyEnter); n != 0 {
		t.Errorf("expected no Enter listener, got %d", n)
	}
}

func TestKeyNav_IgnoresButtonsOutsideForm(t *testing.T) {
	d := event.NewDispatcher()
	controller.NewKeyNav(d).Init()
	b := &widgets.Button{Label: "Go", BindToEnter: true, Events: d}
	if n := d.Fire(event.Of(b), event.AfterRender); n != 0 {
		t.Errorf("expected no handler for a button outside a form, got %d", n)
	}
}

func TestRefresh_ReachesListeners(t *testing.T) {
	d := event.NewDispatcher()
	got := 0
	d.Subscribe(event.Controller(controller.RefreshID), event.Refresh, func(event.Emitter, ...any) { got++ })
	d.Subscribe(event.Controller("Other"), event.Refresh, func(event.Emitter, ...any) { got += 10 })

	if n := controller.NewRefresh(d).Refresh(); n != 1 {
		t.Errorf("expected 1 listener, got %d", n)
	}
	if got != 1 {
		t.Errorf("expected only Refresh listener to run, got %d", got)
	}
}
