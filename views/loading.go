package views

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
)

// drawLoadingState renders msg on the first row of an otherwise empty view.
func drawLoadingState(ctx vxfw.DrawContext, owner vxfw.Widget, msg string) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	if err := drawMask(ctx, &s, msg); err != nil {
		return vxfw.Surface{}, err
	}
	return s, nil
}

// drawMask overlays a loading banner on the top row of s.
func drawMask(ctx vxfw.DrawContext, s *vxfw.Surface, msg string) error {
	if msg == "" {
		msg = "Loading..."
	}
	label := richtext.New([]vaxis.Segment{
		{Text: " " + msg + " ", Style: vaxis.Style{Attribute: vaxis.AttrDim | vaxis.AttrReverse}},
	})
	labelSurf, err := label.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return err
	}
	s.AddChild(0, 0, labelSurf)
	return nil
}

// loadMask is the loading overlay state shared by panels that are filled
// from a remote read.
type loadMask struct {
	masked  bool
	maskMsg string
}

// Mask shows the loading overlay with msg.
func (m *loadMask) Mask(msg string) {
	m.masked = true
	m.maskMsg = msg
}

// Unmask hides the loading overlay.
func (m *loadMask) Unmask() {
	m.masked = false
	m.maskMsg = ""
}

// Masked reports whether the loading overlay is shown.
func (m *loadMask) Masked() bool {
	return m.masked
}
