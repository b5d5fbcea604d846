package controller

import (
	"git.sr.ht/~rockorager/vaxis"
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/widgets"
)

// KeyNav makes Enter in a form click the form's button marked
// bindToEnter.
type KeyNav struct {
	events *event.Dispatcher
	subs   event.Subscriptions
	bound  map[*widgets.Button]bool
}

// NewKeyNav creates a KeyNav controller listening on events.
func NewKeyNav(events *event.Dispatcher) *KeyNav {
	return &KeyNav{events: events, bound: make(map[*widgets.Button]bool)}
}

// Init installs the render binding.
func (k *KeyNav) Init() {
	k.subs = k.events.Listen(event.Binding{
		Source: event.ComponentQuery{
			XType: widgets.ButtonXType,
			Where: event.Within(widgets.FormXType, event.AttrEquals("bindToEnter", true)),
		},
		Event:   event.AfterRender,
		Handler: k.installEnterKey,
	})
}

// Close releases the binding.
func (k *KeyNav) Close() {
	k.subs.Unsubscribe()
}

// installEnterKey adds an Enter listener to the button's form. A button
// rendered again keeps its single listener.
func (k *KeyNav) installEnterKey(src event.Emitter, _ ...any) {
	b, ok := componentOf(src).(*widgets.Button)
	if !ok || k.bound[b] {
		return
	}
	form, ok := b.Up(widgets.FormXType).(*widgets.Form)
	if !ok {
		return
	}
	k.bound[b] = true
	form.OnKey(vaxis.KeyEnter, func() {
		// Click is a no-op while the button is disabled.
		b.Click()
	})
}
