package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/internal/event"
)

// FormXType is the component type forms report to selectors.
const FormXType = "form"

// Form lays out an input field followed by buttons on one row and routes
// key presses to installed key listeners.
type Form struct {
	Node

	Field   *Field
	Buttons []*Button

	keys map[rune][]func()
}

// NewForm creates a form owning the field and buttons.
func NewForm(field *Field, buttons ...*Button) *Form {
	f := &Form{Field: field, keys: make(map[rune][]func())}
	for _, b := range buttons {
		f.Add(b)
	}
	return f
}

// Add appends a button and makes the form its parent.
func (f *Form) Add(b *Button) {
	b.SetParent(f)
	f.Buttons = append(f.Buttons, b)
}

// XType implements event.Component.
func (f *Form) XType() string { return FormXType }

// Attr implements event.Component.
func (f *Form) Attr(string) (any, bool) { return nil, false }

// Up implements event.Component.
func (f *Form) Up(xtype string) event.Component { return Up(f, xtype) }

// OnKey installs fn as a listener for key presses of keycode.
func (f *Form) OnKey(keycode rune, fn func()) {
	f.keys[keycode] = append(f.keys[keycode], fn)
}

// KeyListeners returns the number of listeners installed for keycode.
func (f *Form) KeyListeners(keycode rune) int {
	return len(f.keys[keycode])
}

// HandleEvent runs key listeners and otherwise feeds keys to the field.
func (f *Form) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	if key.Modifiers == 0 {
		if listeners := f.keys[key.Keycode]; len(listeners) > 0 {
			for _, fn := range listeners {
				fn()
			}
			return vxfw.ConsumeAndRedraw(), nil
		}
	}
	if f.Field != nil {
		return f.Field.HandleEvent(ev, phase)
	}
	return nil, nil
}

// Draw renders the field then the buttons separated by a space.
func (f *Form) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, f)

	buttonsWidth := 0
	for _, b := range f.Buttons {
		buttonsWidth += b.Width() + 1
	}

	col := 0
	if f.Field != nil {
		fieldWidth := int(ctx.Max.Width) - buttonsWidth
		if fieldWidth > 0 {
			fs, err := f.Field.Draw(ctx.WithMax(vxfw.Size{Width: uint16(fieldWidth), Height: 1}))
			if err != nil {
				return vxfw.Surface{}, err
			}
			s.AddChild(0, 0, fs)
			col = fieldWidth
		}
	}
	for _, b := range f.Buttons {
		if col >= int(ctx.Max.Width) {
			break
		}
		bs, err := b.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width - uint16(col), Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(col, 0, bs)
		col += b.Width() + 1
	}
	return s, nil
}
