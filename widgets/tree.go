package widgets

import (
	"strings"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/list"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/sahilm/fuzzy"
)

// TreeNode is one node of a lazily loaded tree.
type TreeNode struct {
	ID       string
	Text     string
	Leaf     bool
	Data     any
	Children []*TreeNode
	Expanded bool
	Loaded   bool
	Loading  bool

	depth int
}

// Tree is an expandable list. Children are requested through OnExpand the
// first time a node is opened; selection fires event.Select.
type Tree struct {
	Node

	XTypeName string
	Roots     []*TreeNode
	Events    *event.Dispatcher
	OnExpand  func(*TreeNode)

	filter  string
	matched map[*TreeNode]bool
	rows    []*TreeNode
	list    list.Dynamic
}

// NewTree creates a tree reporting the given xtype to selectors.
func NewTree(xtype string) *Tree {
	t := &Tree{XTypeName: xtype}
	t.list.DrawCursor = true
	t.list.Builder = t.buildItem
	return t
}

// XType implements event.Component.
func (t *Tree) XType() string { return t.XTypeName }

// Attr implements event.Component.
func (t *Tree) Attr(name string) (any, bool) {
	if name == "filter" {
		return t.filter, true
	}
	return nil, false
}

// Up implements event.Component.
func (t *Tree) Up(xtype string) event.Component { return Up(t, xtype) }

// SetRoots replaces the top-level nodes.
func (t *Tree) SetRoots(roots []*TreeNode) {
	t.Roots = roots
	t.Rebuild()
}

// SetFilter limits visible nodes to those whose text fuzzy-matches f,
// keeping ancestors of matches. An empty filter shows everything.
func (t *Tree) SetFilter(f string) {
	t.filter = strings.ToLower(strings.TrimSpace(f))
	t.Rebuild()
}

// Rows returns the visible nodes in display order.
func (t *Tree) Rows() []*TreeNode {
	return t.rows
}

// Selected returns the node under the cursor, or nil.
func (t *Tree) Selected() *TreeNode {
	idx := int(t.list.Cursor())
	if idx >= len(t.rows) {
		return nil
	}
	return t.rows[idx]
}

// Rebuild recomputes the visible rows after the node set changes.
func (t *Tree) Rebuild() {
	t.matched = nil
	if t.filter != "" {
		t.matched = t.match()
	}
	t.rows = t.rows[:0]
	for _, n := range t.Roots {
		t.flatten(n, 0)
	}
}

// match runs the filter over every loaded node and marks the matches and
// their ancestors.
func (t *Tree) match() map[*TreeNode]bool {
	var nodes []*TreeNode
	var walk func([]*TreeNode)
	walk = func(ns []*TreeNode) {
		for _, n := range ns {
			nodes = append(nodes, n)
			walk(n.Children)
		}
	}
	walk(t.Roots)

	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = strings.ToLower(n.Text)
	}
	hits := make(map[*TreeNode]bool)
	for _, m := range fuzzy.Find(t.filter, texts) {
		hits[nodes[m.Index]] = true
	}

	var mark func(*TreeNode) bool
	mark = func(n *TreeNode) bool {
		keep := hits[n]
		for _, c := range n.Children {
			if mark(c) {
				keep = true
			}
		}
		hits[n] = keep
		return keep
	}
	for _, n := range t.Roots {
		mark(n)
	}
	return hits
}

func (t *Tree) matches(n *TreeNode) bool {
	return t.matched == nil || t.matched[n]
}

func (t *Tree) flatten(n *TreeNode, depth int) {
	if !t.matches(n) {
		return
	}
	n.depth = depth
	t.rows = append(t.rows, n)
	if n.Expanded {
		for _, c := range n.Children {
			t.flatten(c, depth+1)
		}
	}
}

// Toggle expands or collapses n, requesting children on first expand.
func (t *Tree) Toggle(n *TreeNode) {
	if n.Leaf {
		return
	}
	n.Expanded = !n.Expanded
	if n.Expanded && !n.Loaded && !n.Loading && t.OnExpand != nil {
		n.Loading = true
		t.OnExpand(n)
	}
	t.Rebuild()
}

// Select fires event.Select for n.
func (t *Tree) Select(n *TreeNode) {
	if n == nil || t.Events == nil {
		return
	}
	t.Events.Fire(event.Of(t), event.Select, n)
}

func (t *Tree) buildItem(i uint, cursor uint) vxfw.Widget {
	if int(i) >= len(t.rows) {
		return nil
	}
	n := t.rows[i]
	marker := "  "
	switch {
	case n.Leaf:
	case n.Loading:
		marker = "… "
	case n.Expanded:
		marker = "▾ "
	default:
		marker = "▸ "
	}
	style := vaxis.Style{}
	if !n.Leaf {
		style.Attribute = vaxis.AttrBold
	}
	return richtext.New([]vaxis.Segment{
		{Text: strings.Repeat("  ", n.depth) + marker},
		{Text: n.Text, Style: style},
	})
}

// Draw renders the visible rows.
func (t *Tree) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	return t.list.Draw(ctx)
}

// HandleEvent expands with Enter or l, collapses with h, selects with
// space (or Enter on a leaf) and otherwise moves the cursor.
func (t *Tree) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	if key, ok := ev.(vaxis.Key); ok {
		n := t.Selected()
		switch {
		case n == nil:
		case key.Matches(vaxis.KeyEnter), key.Matches('l'), key.Matches(vaxis.KeyRight):
			if n.Leaf {
				t.Select(n)
			} else {
				t.Toggle(n)
			}
			return vxfw.ConsumeAndRedraw(), nil
		case key.Matches('h'), key.Matches(vaxis.KeyLeft):
			if n.Expanded {
				t.Toggle(n)
			}
			return vxfw.ConsumeAndRedraw(), nil
		case key.Matches(' '):
			t.Select(n)
			return vxfw.ConsumeAndRedraw(), nil
		}
	}
	return t.list.HandleEvent(ev, phase)
}
