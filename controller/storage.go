package controller

import (
	"context"
	"fmt"
	"log"

	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/internal/feature"
	"github.com/deevus/nexus-tui/internal/icons"
	"github.com/deevus/nexus-tui/internal/nexus"
	"github.com/deevus/nexus-tui/views"
	"github.com/deevus/nexus-tui/widgets"
	"golang.org/x/sync/errgroup"
)

const (
	storageIcon = "feature-repository-browse-storage"
	storagePath = "/Browse/Storage"

	defaultStorageConcurrency = 4
)

// StorageBrowseParams holds the collaborators of a StorageBrowse controller.
type StorageBrowseParams struct {
	Features    FeatureRegistry
	Icons       IconRegistry
	Permissions PermissionChecker
	Events      *event.Dispatcher
	Browser     nexus.StorageBrowser

	// Dispatch runs completions on the UI loop. Required.
	Dispatch Dispatch
	Context  context.Context
	// Concurrency bounds the repository roots read at once.
	Concurrency int
}

// StorageBrowse controls the storage browser: it fills the tree with
// repositories, loads children on expand, reveals the detail region on
// selection and applies the filter.
type StorageBrowse struct {
	features    FeatureRegistry
	icons       IconRegistry
	perms       PermissionChecker
	events      *event.Dispatcher
	browser     nexus.StorageBrowser
	dispatch    Dispatch
	ctx         context.Context
	concurrency int

	subs   event.Subscriptions
	view   *views.StorageBrowseView
	gen    uint64
	cancel context.CancelFunc
}

// NewStorageBrowse creates a StorageBrowse controller. Call Init to
// register it. It panics if p.Dispatch is nil.
func NewStorageBrowse(p StorageBrowseParams) *StorageBrowse {
	if p.Dispatch == nil {
		panic("controller: StorageBrowseParams.Dispatch is required")
	}
	c := &StorageBrowse{
		features:    p.Features,
		icons:       p.Icons,
		perms:       p.Permissions,
		events:      p.Events,
		browser:     p.Browser,
		dispatch:    p.Dispatch,
		ctx:         p.Context,
		concurrency: p.Concurrency,
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if c.concurrency <= 0 {
		c.concurrency = defaultStorageConcurrency
	}
	return c
}

// Init registers the feature, its icon and the event bindings.
func (c *StorageBrowse) Init() {
	c.icons.AddIcons(map[string]icons.Icon{
		storageIcon: {File: "database.png", Variants: []string{"x16", "x32"}},
	})

	c.features.Register(feature.Feature{
		Path:    storagePath,
		View:    views.StorageBrowseXType,
		IconCls: storageIcon,
		Visible: func() bool {
			return c.perms.Check("nexus:repositories", "read")
		},
	})

	browser := event.ComponentQuery{XType: views.StorageBrowseXType}
	c.subs = c.events.Listen(
		event.Binding{Source: event.Controller(RefreshID), Event: event.Refresh, Handler: func(event.Emitter, ...any) { c.Load() }},
		event.Binding{Source: browser, Event: event.AfterRender, Handler: c.onAfterRender},
		event.Binding{Source: browser, Event: event.Destroy, Handler: c.onDestroy},
		event.Binding{
			Source:  event.ComponentQuery{XType: views.StorageTreeXType, Where: event.Within(views.StorageBrowseXType, nil)},
			Event:   event.Select,
			Handler: c.onSelect,
		},
		event.Binding{
			Source: event.ComponentQuery{
				XType: widgets.ButtonXType,
				Where: event.Within(views.StorageBrowseXType, event.AttrEquals("action", "filter")),
			},
			Event:   event.Click,
			Handler: c.onFilter,
		},
	)
}

// Close releases the bindings and cancels any load in flight.
func (c *StorageBrowse) Close() {
	c.subs.Unsubscribe()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *StorageBrowse) onAfterRender(src event.Emitter, _ ...any) {
	v, ok := componentOf(src).(*views.StorageBrowseView)
	if !ok {
		return
	}
	c.view = v
	v.Tree.OnExpand = func(n *widgets.TreeNode) { c.expand(v, n) }
	c.Load()
}

func (c *StorageBrowse) onDestroy(src event.Emitter, _ ...any) {
	v, ok := componentOf(src).(*views.StorageBrowseView)
	if !ok || v != c.view {
		return
	}
	c.view = nil
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *StorageBrowse) onSelect(src event.Emitter, args ...any) {
	if len(args) == 0 {
		return
	}
	n, ok := args[0].(*widgets.TreeNode)
	if !ok {
		return
	}
	v, ok := upTo(src, views.StorageBrowseXType).(*views.StorageBrowseView)
	if !ok {
		return
	}
	v.ShowDetail(n)
}

func (c *StorageBrowse) onFilter(src event.Emitter, _ ...any) {
	v, ok := upTo(src, views.StorageBrowseXType).(*views.StorageBrowseView)
	if !ok {
		return
	}
	v.Tree.SetFilter(v.FilterText())
}

func repositoryKey(r nexus.Repository) string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

func storageNodes(repo nexus.Repository, items []nexus.StorageItem) []*widgets.TreeNode {
	out := make([]*widgets.TreeNode, 0, len(items))
	for i := range items {
		it := items[i]
		out = append(out, &widgets.TreeNode{
			ID:   it.ID,
			Text: it.Text,
			Leaf: it.Leaf,
			Data: views.StorageNode{Repository: repo, Item: &it},
		})
	}
	return out
}

// readRoots lists the repositories and reads the root of each one,
// a bounded number at a time. A repository whose root cannot be read is
// kept unloaded so expanding it retries the read.
func (c *StorageBrowse) readRoots(ctx context.Context) ([]*widgets.TreeNode, error) {
	resp, err := c.browser.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	if resp == nil || !resp.Success {
		return nil, nil
	}

	repos := resp.Data
	children := make([][]nexus.StorageItem, len(repos))
	loaded := make([]bool, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, r := range repos {
		g.Go(func() error {
			sr, err := c.browser.ReadStorage(gctx, repositoryKey(r), "/")
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf("read storage of %s: %v", r.Name, err)
				return nil
			}
			if sr != nil && sr.Success {
				children[i] = sr.Data
				loaded[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roots := make([]*widgets.TreeNode, 0, len(repos))
	for i, r := range repos {
		roots = append(roots, &widgets.TreeNode{
			ID:       repositoryKey(r),
			Text:     r.Name,
			Data:     views.StorageNode{Repository: r},
			Children: storageNodes(r, children[i]),
			Loaded:   loaded[i],
		})
	}
	return roots, nil
}

// Load masks the browser and reloads the repository roots. As with the
// System Information panel only the latest load may update the view.
func (c *StorageBrowse) Load() {
	v := c.view
	if v == nil {
		return
	}
	v.Mask(loadingLabel)
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen

	go func() {
		roots, err := c.readRoots(ctx)
		c.dispatch(func() {
			if gen != c.gen {
				return
			}
			if c.cancel != nil {
				c.cancel()
				c.cancel = nil
			}
			v.Unmask()
			if err != nil {
				log.Printf("load storage: %v", err)
				return
			}
			if roots != nil {
				v.Tree.SetRoots(roots)
			}
		})
	}()
}

// expand reads the children of n. A failed read collapses n again so the
// next expand retries.
func (c *StorageBrowse) expand(v *views.StorageBrowseView, n *widgets.TreeNode) {
	data, ok := n.Data.(views.StorageNode)
	if !ok {
		n.Loading = false
		return
	}
	node := "/"
	if data.Item != nil {
		node = data.Item.ID
	}

	go func() {
		resp, err := c.browser.ReadStorage(c.ctx, repositoryKey(data.Repository), node)
		c.dispatch(func() {
			n.Loading = false
			switch {
			case err != nil:
				log.Printf("read storage of %s %s: %v", data.Repository.Name, node, err)
				n.Expanded = false
			case resp == nil || !resp.Success:
				n.Expanded = false
			default:
				n.Children = storageNodes(data.Repository, resp.Data)
				n.Loaded = true
			}
			v.Tree.Rebuild()
		})
	}()
}
