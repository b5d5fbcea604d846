package app

import (
	"context"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/controller"
	"github.com/deevus/nexus-tui/internal"
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/internal/feature"
	"github.com/deevus/nexus-tui/internal/icons"
	"github.com/deevus/nexus-tui/internal/notify"
	"github.com/deevus/nexus-tui/internal/printer"
	"github.com/deevus/nexus-tui/views"
	"github.com/deevus/nexus-tui/widgets"
)

const (
	messageCapacity = 50
	statusTTL       = 5 * time.Second
	hints           = "q quit  r refresh  tab switch"
)

// View is a panel mounted under a feature tab.
type View interface {
	vxfw.Widget
	vxfw.EventHandler
	event.Component
	Components() []event.Component
}

// Params holds configuration for creating an App.
type Params struct {
	Services    *internal.Services
	ServerName  string
	Permissions controller.PermissionChecker
	Printer     printer.Opener
	// URLOf resolves server-relative paths for downloads.
	URLOf   func(path string) string
	Context context.Context
	Debug   bool
}

// App is the root vxfw widget for nexus-tui.
type App struct {
	serverName string

	events   *event.Dispatcher
	features *feature.Registry
	icons    *icons.Registry
	messages *notify.Messages

	sysInfo *controller.SysInfo
	storage *controller.StorageBrowse
	keyNav  *controller.KeyNav
	refresh *controller.Refresh

	views   map[string]View
	tabs    []feature.Feature
	mounted map[string]bool

	tabBar    *widgets.TabBar
	statusBar *widgets.StatusBar

	mu        sync.Mutex
	postEvent func(vaxis.Event)
	pending   []func()
}

// StatusExpired is posted when a status message times out so the status
// bar falls back to the key hints.
type StatusExpired struct{}

// New creates the root App widget and initializes its controllers.
func New(p Params) *App {
	svc := p.Services
	a := &App{
		serverName: p.ServerName,
		events:     event.NewDispatcher(),
		features:   feature.NewRegistry(),
		icons:      icons.NewRegistry(),
		messages:   notify.NewMessages(messageCapacity),
		mounted:    make(map[string]bool),
	}

	a.keyNav = controller.NewKeyNav(a.events)
	a.refresh = controller.NewRefresh(a.events)
	a.sysInfo = controller.NewSysInfo(controller.SysInfoParams{
		Features:    a.features,
		Icons:       a.icons,
		Messages:    a.messages,
		Permissions: p.Permissions,
		Events:      a.events,
		Reader:      svc.SystemInformation,
		Downloader:  svc.Downloader,
		URLOf:       p.URLOf,
		Printer:     p.Printer,
		Dispatch:    a.dispatch,
		Context:     p.Context,
		Debug:       p.Debug,
	})
	a.storage = controller.NewStorageBrowse(controller.StorageBrowseParams{
		Features:    a.features,
		Icons:       a.icons,
		Permissions: p.Permissions,
		Events:      a.events,
		Browser:     svc.Storage,
		Dispatch:    a.dispatch,
		Context:     p.Context,
	})
	a.keyNav.Init()
	a.sysInfo.Init()
	a.storage.Init()

	a.views = map[string]View{
		views.SysInfoXType:       views.NewSysInfoView(a.events),
		views.StorageBrowseXType: views.NewStorageBrowseView(a.events),
	}

	for _, f := range a.features.Visible() {
		if _, ok := a.views[f.View]; ok {
			a.tabs = append(a.tabs, f)
		}
	}
	tabs := make([]widgets.Tab, 0, len(a.tabs))
	for _, f := range a.tabs {
		tabs = append(tabs, widgets.Tab{Label: f.Title(), Glyph: a.icons.Glyph(f.IconCls)})
	}
	a.tabBar = widgets.NewTabBar(tabs)
	a.statusBar = widgets.NewStatusBar(a.messages, p.ServerName+"  "+hints)
	a.statusBar.TTL = statusTTL

	a.messages.OnAdd(func(notify.Message) {
		time.AfterFunc(statusTTL, func() { a.post(StatusExpired{}) })
	})
	return a
}

// SetPostEvent sets the function used to post events to the vaxis event
// loop. Completions dispatched before it is set are posted now.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.mu.Lock()
	a.postEvent = fn
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()
	for _, p := range pending {
		fn(views.Dispatched{Fn: p})
	}
}

func (a *App) post(ev vaxis.Event) {
	a.mu.Lock()
	post := a.postEvent
	a.mu.Unlock()
	if post != nil {
		post(ev)
	}
}

// dispatch hands fn to the event loop. Until an event loop is attached
// completions are queued, never run on the calling goroutine.
func (a *App) dispatch(fn func()) {
	a.mu.Lock()
	post := a.postEvent
	if post == nil {
		a.pending = append(a.pending, fn)
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()
	post(views.Dispatched{Fn: fn})
}

// ServerName returns the connected server profile name.
func (a *App) ServerName() string {
	return a.serverName
}

// Messages returns the notification sink.
func (a *App) Messages() *notify.Messages {
	return a.messages
}

// Tabs returns the features shown as tabs, in order.
func (a *App) Tabs() []feature.Feature {
	return a.tabs
}

// ActiveTab returns the current tab index.
func (a *App) ActiveTab() int {
	return a.tabBar.Active()
}

// SetTab switches to the given tab index and mounts its view.
func (a *App) SetTab(i int) {
	a.tabBar.SetActive(i)
	a.Show()
}

// View returns the view for an xtype.
func (a *App) View(xtype string) View {
	return a.views[xtype]
}

func (a *App) activeView() View {
	if len(a.tabs) == 0 {
		return nil
	}
	return a.views[a.tabs[a.tabBar.Active()].View]
}

// Show mounts the active view the first time it is shown: its child
// components and then the view itself receive AfterRender.
func (a *App) Show() {
	v := a.activeView()
	if v == nil || a.mounted[v.XType()] {
		return
	}
	a.mounted[v.XType()] = true
	for _, c := range v.Components() {
		a.events.Fire(event.Of(c), event.AfterRender)
	}
	a.events.Fire(event.Of(v), event.AfterRender)
}

// Close destroys the mounted views and releases the controllers.
func (a *App) Close() {
	for xtype := range a.mounted {
		a.events.Fire(event.Of(a.views[xtype]), event.Destroy)
	}
	a.mounted = make(map[string]bool)
	a.sysInfo.Close()
	a.storage.Close()
	a.keyNav.Close()
}

// Refresh broadcasts the refresh signal to every controller.
func (a *App) Refresh() {
	a.refresh.Refresh()
}

// Draw renders the tab bar, the active view and the status bar.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	if ctx.Max.Height < 3 {
		return s, nil
	}

	tabSurf, err := a.tabBar.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, tabSurf)

	viewCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 2})
	var viewSurf vxfw.Surface
	if v := a.activeView(); v != nil {
		viewSurf, err = v.Draw(viewCtx)
	} else {
		viewSurf, err = drawEmpty(viewCtx, a)
	}
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, viewSurf)

	statusSurf, err := a.statusBar.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, int(ctx.Max.Height)-1, statusSurf)

	return s, nil
}

func drawEmpty(ctx vxfw.DrawContext, owner vxfw.Widget) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	col := uint16(0)
	for _, ch := range ctx.Characters(" No features available for this user") {
		if col+uint16(ch.Width) > ctx.Max.Width {
			break
		}
		s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: vaxis.Style{Attribute: vaxis.AttrDim}})
		col += uint16(ch.Width)
	}
	return s, nil
}

// editing reports whether the active view is taking text input, in which
// case global keys are left to it.
func (a *App) editing() bool {
	type textInput interface {
		FilterMode() bool
	}
	t, ok := a.activeView().(textInput)
	return ok && t.FilterMode()
}

// CaptureEvent handles global keybindings before views process them.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	if key.Matches('c', vaxis.ModCtrl) {
		return vxfw.QuitCmd{}, nil
	}
	if a.editing() {
		return nil, nil
	}

	prev := a.tabBar.Active()
	switch {
	case key.Matches('q'):
		return vxfw.QuitCmd{}, nil
	case key.Matches('r'):
		a.Refresh()
		return vxfw.ConsumeAndRedraw(), nil
	case key.Matches(vaxis.KeyTab):
		a.tabBar.Next()
	case key.Matches(vaxis.KeyTab, vaxis.ModShift):
		a.tabBar.Prev()
	case key.Keycode >= '1' && key.Keycode <= '9' && key.Modifiers == 0:
		i := int(key.Keycode - '1')
		if i >= a.tabBar.Len() {
			return nil, nil
		}
		a.tabBar.SetActive(i)
	default:
		return nil, nil
	}
	if a.tabBar.Active() != prev {
		a.Show()
	}
	return vxfw.ConsumeAndRedraw(), nil
}

// HandleEvent mounts the first view once the event loop starts, runs
// dispatched completions and otherwise delegates to the active view.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case vxfw.Init:
		a.Show()
		return vxfw.RedrawCmd{}, nil
	case views.Dispatched:
		ev.Fn()
		return vxfw.RedrawCmd{}, nil
	case StatusExpired:
		return vxfw.RedrawCmd{}, nil
	}
	if v := a.activeView(); v != nil {
		return v.HandleEvent(ev, phase)
	}
	return nil, nil
}
