package widgets

import (
	"unicode"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Field is a single-line text input.
type Field struct {
	Label string
	value []rune
}

// Value returns the current text.
func (f *Field) Value() string { return string(f.value) }

// SetValue replaces the current text.
func (f *Field) SetValue(v string) { f.value = []rune(v) }

// HandleEvent appends printable keys and handles backspace.
func (f *Field) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches(vaxis.KeyBackspace):
		if len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
		return vxfw.ConsumeAndRedraw(), nil
	case key.Text != "":
		for _, r := range key.Text {
			if unicode.IsPrint(r) {
				f.value = append(f.value, r)
			}
		}
		return vxfw.ConsumeAndRedraw(), nil
	}
	return nil, nil
}

// Draw renders "Label: value" followed by a block cursor.
func (f *Field) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, f)
	col := uint16(0)
	write := func(text string, style vaxis.Style) {
		for _, ch := range ctx.Characters(text) {
			if col+uint16(ch.Width) > ctx.Max.Width {
				return
			}
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}
	if f.Label != "" {
		write(f.Label+": ", vaxis.Style{Attribute: vaxis.AttrDim})
	}
	write(string(f.value), vaxis.Style{UnderlineStyle: vaxis.UnderlineSingle})
	write(" ", vaxis.Style{Attribute: vaxis.AttrReverse})
	return s, nil
}
