package widgets_test

import (
	"testing"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/widgets"
)

func sampleTree() (*widgets.Tree, *widgets.TreeNode) {
	org := &widgets.TreeNode{ID: "/org", Text: "org"}
	tr := widgets.NewTree("storage-tree")
	tr.SetRoots([]*widgets.TreeNode{
		org,
		{ID: "/readme.txt", Text: "readme.txt", Leaf: true},
	})
	return tr, org
}

func TestTree_ToggleRequestsChildrenOnce(t *testing.T) {
	tr, org := sampleTree()
	requests := 0
	tr.OnExpand = func(n *widgets.TreeNode) {
		requests++
		n.Children = []*widgets.TreeNode{{ID: "/org/sonatype", Text: "sonatype"}}
		n.Loaded = true
		n.Loading = false
	}

	tr.Toggle(org)
	if requests != 1 {
		t.Fatalf("expected 1 request, got %d", requests)
	}
	tr.Rebuild()
	if len(tr.Rows()) != 3 {
		t.Fatalf("expected 3 rows after expand, got %d", len(tr.Rows()))
	}

	tr.Toggle(org)
	tr.Toggle(org)
	if requests != 1 {
		t.Errorf("expected children to be loaded once, got %d requests", requests)
	}
}

func TestTree_CollapseHidesChildren(t *testing.T) {
	tr, org := sampleTree()
	org.Children = []*widgets.TreeNode{{Text: "sonatype"}}
	org.Loaded = true

	tr.Toggle(org)
	if len(tr.Rows()) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(tr.Rows()))
	}
	tr.Toggle(org)
	if len(tr.Rows()) != 2 {
		t.Errorf("expected 2 rows after collapse, got %d", len(tr.Rows()))
	}
}

func TestTree_Filter(t *testing.T) {
	tr, org := sampleTree()
	org.Children = []*widgets.TreeNode{{Text: "sonatype"}, {Text: "apache"}}
	org.Loaded = true
	org.Expanded = true

	tr.SetFilter("SONA")
	rows := tr.Rows()
	if len(rows) != 2 || rows[0].Text != "org" || rows[1].Text != "sonatype" {
		var names []string
		for _, r := range rows {
			names = append(names, r.Text)
		}
		t.Errorf("expected [org sonatype], got %v", names)
	}

	tr.SetFilter("")
	if len(tr.Rows()) != 4 {
		t.Errorf("expected all rows with empty filter, got %d", len(tr.Rows()))
	}
}

func TestTree_SelectFiresEvent(t *testing.T) {
	tr, _ := sampleTree()
	d := event.NewDispatcher()
	tr.Events = d

	var got *widgets.TreeNode
	d.Subscribe(event.ComponentQuery{XType: "storage-tree"}, event.Select, func(_ event.Emitter, args ...any) {
		got = args[0].(*widgets.TreeNode)
	})

	// Cursor starts on "org"; space selects any node.
	if _, err := tr.HandleEvent(vaxis.Key{Keycode: ' '}, vxfw.EventPhase(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "/org" {
		t.Errorf("expected /org selected, got %+v", got)
	}
}

func TestTree_Draw(t *testing.T) {
	tr, _ := sampleTree()
	s, err := tr.Draw(testDrawContext(40, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 40 {
		t.Errorf("expected width 40, got %d", s.Size.Width)
	}
}

func TestTree_FilterFuzzy(t *testing.T) {
	tr, org := sampleTree()
	org.Children = []*widgets.TreeNode{{Text: "sonatype"}, {Text: "apache"}}
	org.Loaded = true
	org.Expanded = true

	tr.SetFilter("snt")
	rows := tr.Rows()
	if len(rows) != 2 || rows[1].Text != "sonatype" {
		t.Errorf("expected fuzzy match on sonatype, got %d rows", len(rows))
	}
}
