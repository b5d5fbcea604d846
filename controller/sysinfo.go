package controller

import (
	"context"
	"fmt"
	"log"

	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/internal/feature"
	"github.com/deevus/nexus-tui/internal/icons"
	"github.com/deevus/nexus-tui/internal/nexus"
	"github.com/deevus/nexus-tui/internal/notify"
	"github.com/deevus/nexus-tui/internal/printer"
	"github.com/deevus/nexus-tui/views"
	"github.com/deevus/nexus-tui/widgets"
)

const (
	sysInfoIcon  = "feature-support-systeminformation"
	sysInfoPath  = "/Support/System Information"
	printWidth   = 640
	printHeight  = 480
	loadingLabel = "Loading..."
)

// SysInfoPanel is the System Information panel as seen by its controller.
type SysInfoPanel interface {
	event.Component
	Mask(msg string)
	Unmask()
	SetInfo(nexus.Info)
	BodyHTML() (string, error)
}

// SysInfoParams holds the collaborators of a SysInfo controller.
type SysInfoParams struct {
	Features    FeatureRegistry
	Icons       IconRegistry
	Messages    NotificationSink
	Permissions PermissionChecker
	Events      *event.Dispatcher

	Reader     nexus.SystemInformationReader
	Downloader nexus.Downloader
	// URLOf resolves a server-relative path.
	URLOf   func(path string) string
	Printer printer.Opener

	// Dispatch runs completions on the UI loop. Required.
	Dispatch Dispatch
	Context  context.Context
	Debug    bool
}

// SysInfo controls the System Information panel: loading the report,
// refreshing it on the global refresh signal, downloading and printing it.
type SysInfo struct {
	features FeatureRegistry
	icons    IconRegistry
	messages NotificationSink
	perms    PermissionChecker
	events   *event.Dispatcher
	reader   nexus.SystemInformationReader
	download nexus.Downloader
	urlOf    func(string) string
	printer  printer.Opener
	dispatch Dispatch
	ctx      context.Context
	debug    bool

	subs   event.Subscriptions
	panel  SysInfoPanel
	gen    uint64
	cancel context.CancelFunc
}

// NewSysInfo creates a SysInfo controller. Call Init to register it. It
// panics if p.Dispatch is nil.
func NewSysInfo(p SysInfoParams) *SysInfo {
	if p.Dispatch == nil {
		panic("controller: SysInfoParams.Dispatch is required")
	}
	c := &SysInfo{
		features: p.Features,
		icons:    p.Icons,
		messages: p.Messages,
		perms:    p.Permissions,
		events:   p.Events,
		reader:   p.Reader,
		download: p.Downloader,
		urlOf:    p.URLOf,
		printer:  p.Printer,
		dispatch: p.Dispatch,
		ctx:      p.Context,
		debug:    p.Debug,
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if c.urlOf == nil {
		c.urlOf = func(path string) string { return path }
	}
	return c
}

// Init registers the feature, its icon and the event bindings.
func (c *SysInfo) Init() {
	c.icons.AddIcons(map[string]icons.Icon{
		sysInfoIcon: {File: "globe_place.png", Variants: []string{"x16", "x32"}},
	})

	c.features.Register(feature.Feature{
		Path:    sysInfoPath,
		View:    views.SysInfoXType,
		IconCls: sysInfoIcon,
		Visible: func() bool {
			return c.perms.Check("nexus:atlas", "read")
		},
	})

	panel := event.ComponentQuery{XType: views.SysInfoXType}
	button := func(action string) event.Selector {
		return event.ComponentQuery{
			XType: widgets.ButtonXType,
			Where: event.Within(views.SysInfoXType, event.AttrEquals("action", action)),
		}
	}

	c.subs = c.events.Listen(
		event.Binding{Source: event.Controller(RefreshID), Event: event.Refresh, Handler: func(event.Emitter, ...any) { c.OnRefresh() }},
		event.Binding{Source: panel, Event: event.AfterRender, Handler: c.onAfterRender},
		event.Binding{Source: panel, Event: event.Destroy, Handler: c.onDestroy},
		event.Binding{Source: button("download"), Event: event.Click, Handler: func(event.Emitter, ...any) { c.OnDownload() }},
		event.Binding{Source: button("print"), Event: event.Click, Handler: func(event.Emitter, ...any) { c.OnPrint() }},
	)
}

// Close releases the bindings and cancels any read in flight.
func (c *SysInfo) Close() {
	c.subs.Unsubscribe()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Panel returns the mounted panel, or nil.
func (c *SysInfo) Panel() SysInfoPanel {
	return c.panel
}

func (c *SysInfo) onAfterRender(src event.Emitter, _ ...any) {
	p, ok := componentOf(src).(SysInfoPanel)
	if !ok {
		return
	}
	c.panel = p
	c.Load()
}

func (c *SysInfo) onDestroy(src event.Emitter, _ ...any) {
	p, ok := componentOf(src).(SysInfoPanel)
	if !ok || p != c.panel {
		return
	}
	c.panel = nil
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// OnRefresh reloads the panel and says so, if the panel is mounted.
func (c *SysInfo) OnRefresh() {
	if c.panel == nil {
		return
	}
	c.Load()
	c.messages.Add(notify.Message{Text: "System Information refreshed", Kind: notify.KindDefault})
}

// Load masks the panel and reads the report in the background. Only the
// most recently issued read may touch the panel: an earlier read is
// cancelled and its completion ignored. The current completion unmasks
// the panel and sets the report if the read succeeded; an unsuccessful
// or missing response leaves the panel as it was.
func (c *SysInfo) Load() {
	panel := c.panel
	if panel == nil {
		return
	}
	if c.debug {
		log.Printf("Refreshing sysinfo")
	}

	panel.Mask(loadingLabel)
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen

	go func() {
		resp, err := c.reader.ReadSystemInformation(ctx)
		c.dispatch(func() { c.complete(gen, panel, resp, err) })
	}()
}

func (c *SysInfo) complete(gen uint64, panel SysInfoPanel, resp *nexus.Response[nexus.Info], err error) {
	if gen != c.gen {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	panel.Unmask()
	if err != nil {
		log.Printf("read system information: %v", err)
		return
	}
	if resp != nil && resp.Success {
		panel.SetInfo(resp.Data)
	}
}

// OnDownload saves the system information report in the background and
// reports where it was saved.
func (c *SysInfo) OnDownload() {
	target := c.urlOf(nexus.SystemInformationReportPath)
	go func() {
		path, err := c.download.Download(c.ctx, target)
		c.dispatch(func() {
			if err != nil {
				log.Printf("download system information: %v", err)
				c.messages.Add(notify.Message{Text: "System information download failed", Kind: notify.KindWarning})
				return
			}
			c.messages.Add(notify.Message{Text: "System information saved to " + path, Kind: notify.KindInfo})
		})
	}()
}

// OnPrint writes the panel contents to a new print surface and submits it
// in the background. If no surface can be opened the user is warned and
// nothing is written. A document that cannot be composed is discarded.
func (c *SysInfo) OnPrint() {
	panel := c.panel
	if panel == nil {
		return
	}

	win := c.printer.Open(printWidth, printHeight)
	if win == nil {
		c.messages.Add(notify.Message{Text: "Print window pop-up was blocked!", Kind: notify.KindWarning})
		return
	}

	body, err := panel.BodyHTML()
	if err == nil {
		err = writeDocument(win, "System Information", body)
	}
	if err != nil {
		log.Printf("print system information: %v", err)
		if derr := win.Discard(); derr != nil {
			log.Printf("discard print document: %v", derr)
		}
		c.messages.Add(notify.Message{Text: "Printing failed", Kind: notify.KindWarning})
		return
	}
	go func() {
		err := win.Print()
		c.dispatch(func() {
			if err != nil {
				log.Printf("print system information: %v", err)
				c.messages.Add(notify.Message{Text: "Printing failed", Kind: notify.KindWarning})
			}
		})
	}()
}

func writeDocument(w printer.Surface, title, body string) error {
	for _, s := range []string{
		"<html><head>",
		"<title>" + title + "</title>",
		"</head><body>",
		body,
		"</body></html>",
	} {
		if _, err := w.WriteString(s); err != nil {
			return fmt.Errorf("write print document: %w", err)
		}
	}
	return nil
}
