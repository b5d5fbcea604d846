package widgets

import (
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline draws the recent history of a series on one row, scaled to a
// fixed 0-Ceiling range (or to the observed min/max when Ceiling is 0).
type Sparkline struct {
	Ceiling float64
	Color   vaxis.Color

	values []float64
	head   int
	count  int
}

// NewSparkline creates a Sparkline retaining capacity samples.
func NewSparkline(capacity int) *Sparkline {
	if capacity < 1 {
		capacity = 1
	}
	return &Sparkline{values: make([]float64, capacity), Color: vaxis.IndexColor(6)}
}

// Push appends a sample, evicting the oldest when full.
func (sl *Sparkline) Push(v float64) {
	sl.values[sl.head] = v
	sl.head = (sl.head + 1) % len(sl.values)
	if sl.count < len(sl.values) {
		sl.count++
	}
}

// Count returns the number of retained samples.
func (sl *Sparkline) Count() int {
	return sl.count
}

// Values returns the retained samples, oldest first.
func (sl *Sparkline) Values() []float64 {
	out := make([]float64, sl.count)
	start := (sl.head - sl.count + len(sl.values)) % len(sl.values)
	for i := range out {
		out[i] = sl.values[(start+i)%len(sl.values)]
	}
	return out
}

func (sl *Sparkline) level(v, lo, hi float64) int {
	if hi <= lo {
		if hi > 0 {
			return 3
		}
		return 0
	}
	l := int(math.Round((v - lo) / (hi - lo) * 7))
	return min(max(l, 0), 7)
}

// Draw renders the newest samples that fit in the available width.
func (sl *Sparkline) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sl)

	vals := sl.Values()
	if w := int(ctx.Max.Width); len(vals) > w {
		vals = vals[len(vals)-w:]
	}
	if len(vals) == 0 {
		return s, nil
	}

	lo, hi := 0.0, sl.Ceiling
	if hi == 0 {
		lo, hi = vals[0], vals[0]
		for _, v := range vals[1:] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}

	style := vaxis.Style{Foreground: sl.Color}
	for i, v := range vals {
		for _, c := range ctx.Characters(string(sparkBlocks[sl.level(v, lo, hi)])) {
			s.WriteCell(uint16(i), 0, vaxis.Cell{Character: c, Style: style})
		}
	}
	return s, nil
}
