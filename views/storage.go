package views

import (
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/internal/nexus"
	"github.com/deevus/nexus-tui/widgets"
	"github.com/dustin/go-humanize"
)

const (
	// StorageBrowseXType is the component type of the storage browser.
	StorageBrowseXType = "nx-coreui-repository-browse-storage"
	// StorageTreeXType is the component type of the storage tree region.
	StorageTreeXType = "nx-coreui-repository-browse-storage-tree"

	defaultSplit = 50
	minSplit     = 20
	maxSplit     = 80
	splitStep    = 5

	// collapsedWidth is the width of a collapsed region's strip.
	collapsedWidth = 2
)

// StorageNode is the payload of a storage tree node: the repository it
// belongs to and, below the repository root, the storage item.
type StorageNode struct {
	Repository nexus.Repository
	Item       *nexus.StorageItem
}

type storageFocus int

const (
	focusTree storageFocus = iota
	focusFilter
)

// StorageBrowseView is a two-region layout: the storage tree in the
// center and a detail region to the east. The detail region stays hidden
// until a node is selected; both regions can be collapsed and the split
// between them resized.
type StorageBrowseView struct {
	widgets.Node
	loadMask

	Tree   *widgets.Tree
	Filter *widgets.Form
	Apply  *widgets.Button

	detail          *widgets.TreeNode
	detailHidden    bool
	detailCollapsed bool
	treeCollapsed   bool
	split           int
	focus           storageFocus
}

// NewStorageBrowseView creates the layout. Tree selection and the filter
// button fire through events.
func NewStorageBrowseView(events *event.Dispatcher) *StorageBrowseView {
	v := &StorageBrowseView{
		Tree:         widgets.NewTree(StorageTreeXType),
		Apply:        &widgets.Button{Label: "Filter", Action: "filter", BindToEnter: true, Events: events},
		detailHidden: true,
		split:        defaultSplit,
	}
	v.Tree.Events = events
	v.Tree.SetParent(v)
	v.Filter = widgets.NewForm(&widgets.Field{Label: "Filter"}, v.Apply)
	v.Filter.SetParent(v)
	return v
}

// XType implements event.Component.
func (v *StorageBrowseView) XType() string { return StorageBrowseXType }

// Attr implements event.Component.
func (v *StorageBrowseView) Attr(name string) (any, bool) {
	if name == "title" {
		return "Storage", true
	}
	return nil, false
}

// Up implements event.Component.
func (v *StorageBrowseView) Up(xtype string) event.Component { return widgets.Up(v, xtype) }

// Components returns the child components in render order.
func (v *StorageBrowseView) Components() []event.Component {
	return []event.Component{v.Tree, v.Filter, v.Apply}
}

// ShowDetail reveals the detail region for n.
func (v *StorageBrowseView) ShowDetail(n *widgets.TreeNode) {
	v.detail = n
	v.detailHidden = false
}

// Detail returns the node shown in the detail region, or nil.
func (v *StorageBrowseView) Detail() *widgets.TreeNode {
	return v.detail
}

// DetailVisible reports whether the detail region is shown.
func (v *StorageBrowseView) DetailVisible() bool {
	return !v.detailHidden
}

// ToggleTree collapses or expands the tree region.
func (v *StorageBrowseView) ToggleTree() {
	v.treeCollapsed = !v.treeCollapsed
}

// ToggleDetail collapses or expands the detail region.
func (v *StorageBrowseView) ToggleDetail() {
	v.detailCollapsed = !v.detailCollapsed
}

// Resize moves the split by delta percent.
func (v *StorageBrowseView) Resize(delta int) {
	v.split = min(max(v.split+delta, minSplit), maxSplit)
}

// Split returns the tree region's share of the width in percent.
func (v *StorageBrowseView) Split() int {
	return v.split
}

// FilterMode reports whether keys are going to the filter form.
func (v *StorageBrowseView) FilterMode() bool {
	return v.focus == focusFilter
}

// FilterText returns the current filter input.
func (v *StorageBrowseView) FilterText() string {
	return v.Filter.Field.Value()
}

// Regions returns the widths of the tree and detail regions for a total
// width. A width of 0 means the region is not drawn.
func (v *StorageBrowseView) Regions(width int) (tree, detail int) {
	switch {
	case v.detailHidden:
		return width, 0
	case v.detailCollapsed:
		return max(width-collapsedWidth-1, 0), collapsedWidth
	case v.treeCollapsed:
		return collapsedWidth, max(width-collapsedWidth-1, 0)
	}
	tree = width * v.split / 100
	return tree, max(width-tree-1, 0)
}

func (v *StorageBrowseView) detailTable() *widgets.Table {
	t := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 14, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
			{Width: 0},
		},
	}
	n := v.detail
	if n == nil {
		return t
	}
	t.Title = n.Text
	data, _ := n.Data.(StorageNode)
	t.Rows = append(t.Rows,
		[]string{"Repository", data.Repository.Name},
		[]string{"Format", data.Repository.Format},
	)
	if it := data.Item; it != nil {
		t.Rows = append(t.Rows, []string{"Path", it.ID})
		if it.Type != "" {
			t.Rows = append(t.Rows, []string{"Type", it.Type})
		}
		if it.Leaf {
			t.Rows = append(t.Rows, []string{"Size", humanize.IBytes(uint64(max(it.Size, 0)))})
		}
		if it.LastModified > 0 {
			t.Rows = append(t.Rows, []string{"Last modified", humanize.Time(time.UnixMilli(it.LastModified))})
		}
	} else {
		t.Rows = append(t.Rows, []string{"Type", data.Repository.Type})
	}
	return t
}

func drawStrip(ctx vxfw.DrawContext, owner vxfw.Widget, glyph string, height uint16) (vxfw.Surface, error) {
	s := vxfw.NewSurface(collapsedWidth, height, owner)
	label := richtext.New([]vaxis.Segment{{Text: glyph, Style: vaxis.Style{Attribute: vaxis.AttrDim}}})
	ls, err := label.Draw(ctx.WithMax(vxfw.Size{Width: collapsedWidth, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, ls)
	return s, nil
}

// Draw renders the filter row above the two regions.
func (v *StorageBrowseView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if v.masked && len(v.Tree.Roots) == 0 {
		return drawLoadingState(ctx, v, v.maskMsg)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, v)
	fs, err := v.Filter.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, fs)
	if ctx.Max.Height < 3 {
		return s, nil
	}

	bodyHeight := ctx.Max.Height - 2
	treeW, detailW := v.Regions(int(ctx.Max.Width))

	if v.treeCollapsed && detailW > 0 {
		ts, err := drawStrip(ctx, v, "▸", bodyHeight)
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 2, ts)
	} else if treeW > 0 {
		ts, err := v.Tree.Draw(ctx.WithMax(vxfw.Size{Width: uint16(treeW), Height: bodyHeight}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 2, ts)
	}

	if detailW > 0 {
		sepStyle := vaxis.Style{Foreground: vaxis.IndexColor(8)}
		for row := uint16(2); row < ctx.Max.Height; row++ {
			for _, ch := range ctx.Characters("│") {
				s.WriteCell(uint16(treeW), row, vaxis.Cell{Character: ch, Style: sepStyle})
			}
		}
		if v.detailCollapsed {
			ds, err := drawStrip(ctx, v, "◂", bodyHeight)
			if err != nil {
				return vxfw.Surface{}, err
			}
			s.AddChild(treeW+1, 2, ds)
		} else {
			ds, err := v.detailTable().Draw(ctx.WithMax(vxfw.Size{Width: uint16(detailW), Height: bodyHeight}))
			if err != nil {
				return vxfw.Surface{}, err
			}
			s.AddChild(treeW+1, 2, ds)
		}
	}

	if v.masked {
		if err := drawMask(ctx, &s, v.maskMsg); err != nil {
			return vxfw.Surface{}, err
		}
	}
	return s, nil
}

// HandleEvent enters the filter with '/', toggles regions with t and e,
// resizes with < and > and otherwise drives the tree. In filter mode keys
// go to the form until Enter or Esc.
func (v *StorageBrowseView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}

	if v.focus == focusFilter {
		switch {
		case key.Matches(vaxis.KeyEsc):
			v.focus = focusTree
			return vxfw.ConsumeAndRedraw(), nil
		case key.Matches(vaxis.KeyEnter):
			v.focus = focusTree
			if _, err := v.Filter.HandleEvent(ev, phase); err != nil {
				return nil, err
			}
			return vxfw.ConsumeAndRedraw(), nil
		}
		return v.Filter.HandleEvent(ev, phase)
	}

	switch {
	case key.Matches('/'):
		v.focus = focusFilter
	case key.Matches('t'):
		v.ToggleTree()
	case key.Matches('e'):
		v.ToggleDetail()
	case key.Matches('<'):
		v.Resize(-splitStep)
	case key.Matches('>'):
		v.Resize(splitStep)
	default:
		if v.treeCollapsed && !v.detailHidden {
			return nil, nil
		}
		return v.Tree.HandleEvent(ev, phase)
	}
	return vxfw.ConsumeAndRedraw(), nil
}
