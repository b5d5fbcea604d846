package widgets

import "github.com/deevus/nexus-tui/internal/event"

// Node links a component into the component tree so selectors can walk
// up to ancestors. Embed it in widgets that act as event sources.
type Node struct {
	parent event.Component
}

// SetParent attaches the component to its container.
func (n *Node) SetParent(p event.Component) {
	n.parent = p
}

// Parent returns the container, or nil for a root component.
func (n *Node) Parent() event.Component {
	return n.parent
}

type parented interface {
	Parent() event.Component
}

// Up returns the nearest ancestor of c with the given xtype, or nil.
func Up(c event.Component, xtype string) event.Component {
	for {
		p, ok := c.(parented)
		if !ok {
			return nil
		}
		c = p.Parent()
		if c == nil {
			return nil
		}
		if c.XType() == xtype {
			return c
		}
	}
}
