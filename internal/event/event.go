// Package event implements the observer table controllers use to bind
// handlers to controller signals and component lifecycle or input events.
//
// Bindings are explicit Subscribe calls keyed by a Selector rather than
// string component queries, so the emitter side is checked by the compiler.
package event

import (
	"reflect"
	"sync"
)

// Name identifies an event kind.
type Name string

const (
	AfterRender Name = "afterrender"
	Destroy     Name = "destroy"
	Click       Name = "click"
	Refresh     Name = "refresh"
	Select      Name = "select"
)

// Emitter is anything that can fire events.
type Emitter interface {
	emitter()
}

// ControllerRef names a singleton controller acting as an event source.
type ControllerRef string

func (ControllerRef) emitter() {}

// Component is a UI element that fires events and can be matched by type
// and attributes.
type Component interface {
	XType() string
	Attr(name string) (any, bool)
	// Up returns the nearest ancestor with the given xtype, or nil.
	Up(xtype string) Component
}

// ComponentEmitter adapts a Component to an Emitter.
type ComponentEmitter struct {
	Component
}

func (ComponentEmitter) emitter() {}

// Of wraps a component so it can be passed to Fire.
func Of(c Component) Emitter {
	return ComponentEmitter{Component: c}
}

// Selector decides whether an emitter is a source for a binding.
type Selector interface {
	Matches(Emitter) bool
}

type controllerSelector string

func (s controllerSelector) Matches(e Emitter) bool {
	ref, ok := e.(ControllerRef)
	return ok && string(ref) == string(s)
}

// Controller selects events fired by the named controller.
func Controller(id string) Selector {
	return controllerSelector(id)
}

// ComponentQuery selects components of XType for which Where (if set)
// returns true.
type ComponentQuery struct {
	XType string
	Where func(Component) bool
}

// Matches implements Selector.
func (q ComponentQuery) Matches(e Emitter) bool {
	ce, ok := e.(ComponentEmitter)
	if !ok || ce.Component == nil {
		return false
	}
	if q.XType != "" && ce.XType() != q.XType {
		return false
	}
	return q.Where == nil || q.Where(ce.Component)
}

// AttrEquals returns a predicate matching components whose attribute
// name equals want. Attributes of non-comparable types, such as slices or
// maps, never match.
func AttrEquals(name string, want any) func(Component) bool {
	return func(c Component) bool {
		v, ok := c.Attr(name)
		if !ok {
			return false
		}
		if t := reflect.TypeOf(v); t != nil && !t.Comparable() {
			return false
		}
		return v == want
	}
}

// Within returns a predicate matching components nested in an ancestor of
// the given xtype, optionally combined with another predicate.
func Within(xtype string, and func(Component) bool) func(Component) bool {
	return func(c Component) bool {
		if c.Up(xtype) == nil {
			return false
		}
		return and == nil || and(c)
	}
}

// Handler receives the emitter that fired and any event arguments.
type Handler func(src Emitter, args ...any)

// Binding is one row of a controller's subscription table.
type Binding struct {
	Source  Selector
	Event   Name
	Handler Handler
}

type entry struct {
	id int
	Binding
}

// Dispatcher holds registered bindings and routes fired events to them.
type Dispatcher struct {
	mu      sync.Mutex
	entries []entry
	nextID  int
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscription releases a single binding.
type Subscription struct {
	d  *Dispatcher
	id int
}

// Unsubscribe removes the binding. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.d == nil {
		return
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for i, e := range s.d.entries {
		if e.id == s.id {
			s.d.entries = append(s.d.entries[:i:i], s.d.entries[i+1:]...)
			return
		}
	}
}

// Subscriptions is a group released together, typically on controller
// teardown.
type Subscriptions []Subscription

// Unsubscribe releases every subscription in the group.
func (ss Subscriptions) Unsubscribe() {
	for _, s := range ss {
		s.Unsubscribe()
	}
}

// Subscribe registers handler for event name fired by emitters matching sel.
func (d *Dispatcher) Subscribe(sel Selector, name Name, handler Handler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.entries = append(d.entries, entry{id: d.nextID, Binding: Binding{Source: sel, Event: name, Handler: handler}})
	return Subscription{d: d, id: d.nextID}
}

// Listen installs a table of bindings.
func (d *Dispatcher) Listen(bindings ...Binding) Subscriptions {
	subs := make(Subscriptions, 0, len(bindings))
	for _, b := range bindings {
		subs = append(subs, d.Subscribe(b.Source, b.Event, b.Handler))
	}
	return subs
}

// Fire invokes, in registration order, every handler bound to name whose
// selector matches src. It returns the number of handlers invoked.
func (d *Dispatcher) Fire(src Emitter, name Name, args ...any) int {
	d.mu.Lock()
	matched := make([]Handler, 0, 2)
	for _, e := range d.entries {
		if e.Event == name && e.Source.Matches(src) {
			matched = append(matched, e.Handler)
		}
	}
	d.mu.Unlock()

	// Handlers run unlocked so they may subscribe or fire further events.
	for _, h := range matched {
		h(src, args...)
	}
	return len(matched)
}

// Len reports the number of registered bindings.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
