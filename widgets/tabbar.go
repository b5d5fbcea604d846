package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Tab is one entry in the tab bar.
type Tab struct {
	Label string
	Glyph string // optional icon drawn before the label
}

// TabBar is a horizontal navigation widget with one tab per feature.
type TabBar struct {
	tabs   []Tab
	active int
}

// NewTabBar creates a TabBar with the given tabs. Active defaults to 0.
func NewTabBar(tabs []Tab) *TabBar {
	return &TabBar{tabs: tabs}
}

// SetTabs replaces the tabs, keeping the active index when still in range.
func (tb *TabBar) SetTabs(tabs []Tab) {
	tb.tabs = tabs
	if tb.active >= len(tabs) {
		tb.active = 0
	}
}

// Len returns the number of tabs.
func (tb *TabBar) Len() int {
	return len(tb.tabs)
}

// Active returns the currently active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// SetActive sets the active tab index. Out-of-range values are ignored.
func (tb *TabBar) SetActive(i int) {
	if i >= 0 && i < len(tb.tabs) {
		tb.active = i
	}
}

// Next advances to the next tab, wrapping around.
func (tb *TabBar) Next() {
	if len(tb.tabs) == 0 {
		return
	}
	tb.active = (tb.active + 1) % len(tb.tabs)
}

// Prev moves to the previous tab, wrapping around.
func (tb *TabBar) Prev() {
	if len(tb.tabs) == 0 {
		return
	}
	tb.active = (tb.active - 1 + len(tb.tabs)) % len(tb.tabs)
}

// Draw renders the tabs on one row, e.g. " ◍ System Information │ Storage ".
// The active tab is drawn in reverse video.
func (tb *TabBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, tb)

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

	for i, tab := range tb.tabs {
		if i > 0 {
			put("│", vaxis.Style{Attribute: vaxis.AttrDim})
		}
		style := vaxis.Style{}
		if i == tb.active {
			style.Attribute |= vaxis.AttrReverse
		}
		text := " " + tab.Label + " "
		if tab.Glyph != "" {
			text = " " + tab.Glyph + text
		}
		put(text, style)
	}

	return s, nil
}
