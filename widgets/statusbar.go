package widgets

import (
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/internal/notify"
)

// StatusBar shows the latest notification until it expires, then the
// key hints.
type StatusBar struct {
	Messages *notify.Messages
	TTL      time.Duration
	Hints    string

	now func() time.Time
}

// NewStatusBar creates a status bar reading from msgs.
func NewStatusBar(msgs *notify.Messages, hints string) *StatusBar {
	return &StatusBar{Messages: msgs, TTL: 5 * time.Second, Hints: hints, now: time.Now}
}

func messageStyle(k notify.Kind) vaxis.Style {
	switch k {
	case notify.KindWarning:
		return vaxis.Style{Foreground: vaxis.IndexColor(3), Attribute: vaxis.AttrBold}
	case notify.KindInfo:
		return vaxis.Style{Foreground: vaxis.IndexColor(6)}
	default:
		return vaxis.Style{Foreground: vaxis.IndexColor(2)}
	}
}

// Current returns the message to show, if one is still fresh.
func (sb *StatusBar) Current() (notify.Message, bool) {
	if sb.Messages == nil {
		return notify.Message{}, false
	}
	msg, ok := sb.Messages.Latest()
	if !ok {
		return notify.Message{}, false
	}
	now := time.Now
	if sb.now != nil {
		now = sb.now
	}
	if sb.TTL > 0 && now().Sub(msg.At) > sb.TTL {
		return notify.Message{}, false
	}
	return msg, true
}

// Draw renders one row.
func (sb *StatusBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sb)
	text, style := " "+sb.Hints, vaxis.Style{Attribute: vaxis.AttrDim}
	if msg, ok := sb.Current(); ok {
		text, style = " "+msg.Text, messageStyle(msg.Kind)
	}
	col := uint16(0)
	for _, ch := range ctx.Characters(text) {
		if col+uint16(ch.Width) > ctx.Max.Width {
			break
		}
		s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
		col += uint16(ch.Width)
	}
	return s, nil
}
