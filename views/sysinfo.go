package views

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/internal/event"
	"github.com/deevus/nexus-tui/internal/nexus"
	"github.com/deevus/nexus-tui/widgets"
	"github.com/dustin/go-humanize"
)

// SysInfoXType is the component type of the System Information panel.
const SysInfoXType = "nx-coreui-support-sysinfo"

const (
	heapSection   = "system-runtime"
	heapBarWidth  = 30
	heapSparkSize = 60
)

// SysInfoView displays the system information report as one table per
// section. Loading is driven from outside through Mask, SetInfo and Unmask.
type SysInfoView struct {
	widgets.Node
	loadMask

	Events   *event.Dispatcher
	Download *widgets.Button
	Print    *widgets.Button

	info   nexus.Info
	offset int

	heap      *widgets.BarGauge
	heapSpark *widgets.Sparkline
}

// NewSysInfoView creates the panel with its Download and Print toolbar
// buttons. Button clicks are fired through events.
func NewSysInfoView(events *event.Dispatcher) *SysInfoView {
	v := &SysInfoView{
		Events:    events,
		Download:  &widgets.Button{Label: "Download", Action: "download", Events: events},
		Print:     &widgets.Button{Label: "Print", Action: "print", Events: events},
		heap:      &widgets.BarGauge{Label: "HEAP", BarWidth: heapBarWidth},
		heapSpark: widgets.NewSparkline(heapSparkSize),
	}
	v.heapSpark.Ceiling = 100
	v.Download.SetParent(v)
	v.Print.SetParent(v)
	return v
}

// XType implements event.Component.
func (v *SysInfoView) XType() string { return SysInfoXType }

// Attr implements event.Component.
func (v *SysInfoView) Attr(name string) (any, bool) {
	if name == "title" {
		return "System Information", true
	}
	return nil, false
}

// Up implements event.Component.
func (v *SysInfoView) Up(xtype string) event.Component { return widgets.Up(v, xtype) }

// Components returns the child components in render order.
func (v *SysInfoView) Components() []event.Component {
	return []event.Component{v.Download, v.Print}
}

// Info returns the report currently displayed.
func (v *SysInfoView) Info() nexus.Info {
	return v.info
}

// SetInfo replaces the displayed report and records a heap sample.
func (v *SysInfoView) SetInfo(info nexus.Info) {
	v.info = info
	v.offset = 0

	total, okTotal := info.Int64(heapSection, "totalMemory")
	free, okFree := info.Int64(heapSection, "freeMemory")
	if !okTotal || !okFree {
		return
	}
	limit, ok := info.Int64(heapSection, "maxMemory")
	if !ok || limit <= 0 {
		limit = total
	}
	used := total - free
	pct := widgets.Percent(used, limit)
	v.heap.Value = pct
	v.heap.Suffix = fmt.Sprintf("%s / %s", humanize.IBytes(uint64(max(used, 0))), humanize.IBytes(uint64(limit)))
	v.heapSpark.Push(pct)
}

// HeapSamples returns the number of heap samples recorded.
func (v *SysInfoView) HeapSamples() int {
	return v.heapSpark.Count()
}

type sysInfoRow struct {
	Key   string
	Value string
}

type sysInfoSection struct {
	Name string
	Rows []sysInfoRow
}

func (v *SysInfoView) sections() []sysInfoSection {
	out := make([]sysInfoSection, 0, len(v.info))
	for _, name := range v.info.Sections() {
		sec := sysInfoSection{Name: name}
		for _, key := range v.info.Keys(name) {
			sec.Rows = append(sec.Rows, sysInfoRow{Key: key, Value: formatValue(key, v.info[name][key])})
		}
		out = append(out, sec)
	}
	return out
}

func isByteKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "memory") || strings.Contains(k, "space")
}

// formatValue renders a report value for display. Byte counts are
// humanized; other whole numbers get thousands separators.
func formatValue(key string, val any) string {
	switch x := val.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		if x != math.Trunc(x) {
			return fmt.Sprintf("%.2f", x)
		}
		if isByteKey(key) && x >= 0 {
			return humanize.IBytes(uint64(x))
		}
		return humanize.Comma(int64(x))
	}
	return fmt.Sprint(val)
}

var bodyTemplate = template.Must(template.New("sysinfo").Parse(
	`{{range .}}<h2>{{.Name}}</h2>
<table>
{{range .Rows}}<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}`))

// BodyHTML renders the displayed report as HTML for printing.
func (v *SysInfoView) BodyHTML() (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, v.sections()); err != nil {
		return "", fmt.Errorf("render system information: %w", err)
	}
	return buf.String(), nil
}

var sectionColumns = []widgets.TableColumn{
	{Width: 32, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	{Width: 0},
}

func (v *SysInfoView) tables() []*widgets.Table {
	secs := v.sections()
	out := make([]*widgets.Table, 0, len(secs))
	for _, sec := range secs {
		t := &widgets.Table{Title: sec.Name, Columns: sectionColumns}
		for _, r := range sec.Rows {
			t.Rows = append(t.Rows, []string{"  " + r.Key, r.Value})
		}
		out = append(out, t)
	}
	return out
}

// lines is the scrollable height: every table plus a blank separator.
func (v *SysInfoView) lines() int {
	n := 0
	for _, t := range v.tables() {
		n += t.Height() + 1
	}
	return n
}

// Offset returns the scroll position in lines.
func (v *SysInfoView) Offset() int {
	return v.offset
}

func (v *SysInfoView) scroll(delta int) {
	v.offset = min(max(v.offset+delta, 0), max(v.lines()-1, 0))
}

// skipLines drops the first n lines of t.
func skipLines(t *widgets.Table, n int) *widgets.Table {
	out := *t
	if n > 0 && out.Title != "" {
		out.Title = ""
		n--
	}
	out.Rows = out.Rows[min(n, len(out.Rows)):]
	return &out
}

// Draw renders the toolbar, heap gauge and report sections. While masked
// a loading banner covers the top row.
func (v *SysInfoView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if v.info == nil {
		if v.masked {
			return drawLoadingState(ctx, v, v.maskMsg)
		}
		return drawLoadingState(ctx, v, "No system information")
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, v)
	row := 0

	col := 0
	for _, b := range []*widgets.Button{v.Download, v.Print} {
		bs, err := b.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(col, row, bs)
		col += b.Width() + 1
	}
	row += 2

	if v.heapSpark.Count() > 0 && row+2 <= int(ctx.Max.Height) {
		gs, err := v.heap.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, gs)
		sparkWidth := min(ctx.Max.Width, heapSparkSize)
		ss, err := v.heapSpark.Draw(ctx.WithMax(vxfw.Size{Width: sparkWidth, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(6, row+1, ss)
		row += 3
	}

	skip := v.offset
	for _, t := range v.tables() {
		if row >= int(ctx.Max.Height) {
			break
		}
		h := t.Height()
		if skip >= h {
			skip -= min(skip, h+1)
			continue
		}
		t = skipLines(t, skip)
		skip = 0
		ts, err := t.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - uint16(row)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, ts)
		row += t.Height() + 1
	}

	if v.masked {
		if err := drawMask(ctx, &s, v.maskMsg); err != nil {
			return vxfw.Surface{}, err
		}
	}
	return s, nil
}

// HandleEvent scrolls with j/k and clicks the toolbar buttons with d and p.
func (v *SysInfoView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches('j'), key.Matches(vaxis.KeyDown):
		v.scroll(1)
	case key.Matches('k'), key.Matches(vaxis.KeyUp):
		v.scroll(-1)
	case key.Matches(vaxis.KeyPgDown), key.Matches('d', vaxis.ModCtrl):
		v.scroll(10)
	case key.Matches(vaxis.KeyPgUp), key.Matches('u', vaxis.ModCtrl):
		v.scroll(-10)
	case key.Matches('g'):
		v.offset = 0
	case key.Matches('d'):
		v.Download.Click()
	case key.Matches('p'):
		v.Print.Click()
	default:
		return nil, nil
	}
	return vxfw.ConsumeAndRedraw(), nil
}
