package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// BarGauge is a one-row usage gauge.
//
//	HEAP  [██████░░░░░░░░░░░░░░]  30.0%  307 MiB / 1.0 GiB
type BarGauge struct {
	Label      string
	LabelWidth int     // defaults to 5
	Value      float64 // percentage, clamped to 0-100
	Suffix     string
	BarWidth   int
}

const (
	barFilled = '█'
	barEmpty  = '░'
)

// barColor returns green, yellow or red depending on usage.
func barColor(pct float64) vaxis.Color {
	switch {
	case pct >= 90:
		return vaxis.IndexColor(1)
	case pct >= 75:
		return vaxis.IndexColor(3)
	default:
		return vaxis.IndexColor(2)
	}
}

// Percent returns used as a percentage of total, or 0 when total is not
// positive.
func Percent(used, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

// Draw renders the gauge.
func (bg *BarGauge) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, bg)
	col := uint16(0)
	put := func(text string, style vaxis.Style) {
		for _, ch := range ctx.Characters(text) {
			if col+uint16(ch.Width) > ctx.Max.Width {
				return
			}
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}

	lw := bg.LabelWidth
	if lw == 0 {
		lw = 5
	}
	put(fmt.Sprintf("%-*s ", lw, bg.Label), vaxis.Style{Attribute: vaxis.AttrBold})
	put("[", vaxis.Style{})

	v := min(max(bg.Value, 0), 100)
	filled := int(v / 100 * float64(bg.BarWidth))
	fill := vaxis.Style{Foreground: barColor(v)}
	empty := vaxis.Style{Foreground: vaxis.IndexColor(8)}
	for i := 0; i < bg.BarWidth; i++ {
		if i < filled {
			put(string(barFilled), fill)
		} else {
			put(string(barEmpty), empty)
		}
	}

	put(fmt.Sprintf("] %5.1f%%", v), vaxis.Style{})
	if bg.Suffix != "" {
		put("  "+bg.Suffix, vaxis.Style{Attribute: vaxis.AttrDim})
	}
	return s, nil
}
