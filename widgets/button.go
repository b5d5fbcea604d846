package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/internal/event"
)

// ButtonXType is the component type buttons report to selectors.
const ButtonXType = "button"

// Button is a clickable control. Clicks are fired through the dispatcher
// so controllers bind to them by selector.
type Button struct {
	Node

	Label       string
	Action      string
	BindToEnter bool
	Events      *event.Dispatcher

	disabled bool
}

// XType implements event.Component.
func (b *Button) XType() string { return ButtonXType }

// Attr implements event.Component.
func (b *Button) Attr(name string) (any, bool) {
	switch name {
	case "action":
		return b.Action, b.Action != ""
	case "bindToEnter":
		return b.BindToEnter, true
	case "disabled":
		return b.disabled, true
	case "text":
		return b.Label, true
	}
	return nil, false
}

// Up implements event.Component.
func (b *Button) Up(xtype string) event.Component { return Up(b, xtype) }

// Disabled reports whether the button ignores activation.
func (b *Button) Disabled() bool { return b.disabled }

// SetDisabled enables or disables the button.
func (b *Button) SetDisabled(v bool) { b.disabled = v }

// Click fires the click event unless the button is disabled. It reports
// whether the event was fired.
func (b *Button) Click() bool {
	if b.disabled || b.Events == nil {
		return false
	}
	b.Events.Fire(event.Of(b), event.Click, b)
	return true
}

// Width returns the rendered width of the button.
func (b *Button) Width() int {
	width := 4 // "[ " + " ]"
	for _, ch := range vaxis.Characters(b.Label) {
		width += ch.Width
	}
	return width
}

// Draw renders the button as "[ Label ]", dimmed when disabled.
func (b *Button) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	w := uint16(b.Width())
	if w > ctx.Max.Width {
		w = ctx.Max.Width
	}
	s := vxfw.NewSurface(w, 1, b)
	style := vaxis.Style{Attribute: vaxis.AttrBold}
	if b.disabled {
		style = vaxis.Style{Attribute: vaxis.AttrDim}
	}
	col := uint16(0)
	for _, ch := range ctx.Characters("[ " + b.Label + " ]") {
		if col+uint16(ch.Width) > w {
			break
		}
		s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
		col += uint16(ch.Width)
	}
	return s, nil
}

// HandleEvent clicks the button on a left mouse press.
func (b *Button) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	if m, ok := ev.(vaxis.Mouse); ok && m.Button == vaxis.MouseLeftButton && m.EventType == vaxis.EventPress {
		if b.Click() {
			return vxfw.ConsumeAndRedraw(), nil
		}
	}
	return nil, nil
}
