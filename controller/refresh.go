package controller

import "github.com/deevus/nexus-tui/internal/event"

// RefreshID is the controller reference refresh signals are fired from.
const RefreshID = "Refresh"

// Refresh broadcasts the global refresh signal.
type Refresh struct {
	events *event.Dispatcher
}

// NewRefresh creates a Refresh controller firing through events.
func NewRefresh(events *event.Dispatcher) *Refresh {
	return &Refresh{events: events}
}

// Refresh fires the signal and returns the number of listeners reached.
func (r *Refresh) Refresh() int {
	return r.events.Fire(event.ControllerRef(RefreshID), event.Refresh)
}
