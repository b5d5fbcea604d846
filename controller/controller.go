// Package controller holds the view controllers. Each controller registers
// its feature and icon at Init, binds handlers to component and controller
// events through the shared dispatcher, and fills its panel from a remote
// read whose completion runs on the UI loop.
package controller

import (
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/internal/feature"
	"github.com/deevus/nexus-tui/internal/icons"
	"github.com/deevus/nexus-tui/internal/notify"
)

// FeatureRegistry receives navigation entries.
type FeatureRegistry interface {
	Register(features ...feature.Feature)
}

// IconRegistry receives icon definitions.
type IconRegistry interface {
	AddIcons(map[string]icons.Icon)
}

// NotificationSink receives user-facing messages.
type NotificationSink interface {
	Add(notify.Message)
}

// PermissionChecker decides whether the current user holds a permission.
type PermissionChecker interface {
	Check(resource, action string) bool
}

// Dispatch runs fn on the UI loop. Controllers mutate their panels and
// load state only from dispatched functions, so a Dispatch must never run
// fn on the goroutine that called it.
type Dispatch func(fn func())

// componentOf returns the component behind an emitter, or nil.
func componentOf(src event.Emitter) event.Component {
	ce, ok := src.(event.ComponentEmitter)
	if !ok {
		return nil
	}
	return ce.Component
}

// upTo returns the ancestor of the emitting component with the given
// xtype, or nil.
func upTo(src event.Emitter, xtype string) event.Component {
	c := componentOf(src)
	if c == nil {
		return nil
	}
	return c.Up(xtype)
}
