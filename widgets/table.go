package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TableColumn defines a column in a Table.
type TableColumn struct {
	Width      int         // fixed character width; 0 fills the remaining space
	AlignRight bool        // right-align text within the column
	Style      vaxis.Style // applied to all cells in this column
}

// Table renders an optional title, an optional header and rows of text in
// aligned columns. At most one column may flex.
type Table struct {
	Title   string
	Columns []TableColumn
	Rows    [][]string
	Header  []string
	Gap     int // spaces between columns (default 1)
}

// Height returns the number of rows the table needs.
func (t *Table) Height() int {
	h := len(t.Rows)
	if t.Title != "" {
		h++
	}
	if t.Header != nil {
		h++
	}
	return h
}

// widths resolves flex columns against the available width.
func (t *Table) widths(total, gap int) []int {
	out := make([]int, len(t.Columns))
	fixed := 0
	flex := -1
	for i, c := range t.Columns {
		if c.Width == 0 && flex < 0 {
			flex = i
			continue
		}
		out[i] = c.Width
		fixed += c.Width
	}
	if flex >= 0 {
		rest := total - fixed - gap*(len(t.Columns)-1)
		if rest < 1 {
			rest = 1
		}
		out[flex] = rest
	}
	return out
}

// writeText writes s into surf at (col, row) clipped to maxWidth, padding on
// the left when right-aligned.
func writeText(surf *vxfw.Surface, col, row uint16, maxWidth int, s string, style vaxis.Style, alignRight bool) {
	chars := vaxis.Characters(s)
	displayWidth := 0
	for _, ch := range chars {
		displayWidth += ch.Width
	}
	pos := 0
	if alignRight && displayWidth < maxWidth {
		pos = maxWidth - displayWidth
	}
	for _, ch := range chars {
		if pos+ch.Width > maxWidth {
			break
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{Character: ch, Style: style})
		pos += ch.Width
	}
}

func (t *Table) writeRow(s *vxfw.Surface, row uint16, widths []int, gap int, cells []string, style func(TableColumn) vaxis.Style) {
	col := 0
	for i, c := range t.Columns {
		if col >= int(s.Size.Width) {
			return
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		w := widths[i]
		if col+w > int(s.Size.Width) {
			w = int(s.Size.Width) - col
		}
		writeText(s, uint16(col), row, w, text, style(c), c.AlignRight)
		col += widths[i] + gap
	}
}

// Draw renders the title (bold), header (dim) and rows.
func (t *Table) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	gap := t.Gap
	if gap == 0 {
		gap = 1
	}

	height := uint16(t.Height())
	if height > ctx.Max.Height {
		height = ctx.Max.Height
	}
	s := vxfw.NewSurface(ctx.Max.Width, height, t)
	widths := t.widths(int(ctx.Max.Width), gap)
	row := uint16(0)

	if t.Title != "" && row < height {
		writeText(&s, 0, row, int(ctx.Max.Width), t.Title, vaxis.Style{Attribute: vaxis.AttrBold}, false)
		row++
	}
	if t.Header != nil && row < height {
		t.writeRow(&s, row, widths, gap, t.Header, func(TableColumn) vaxis.Style {
			return vaxis.Style{Attribute: vaxis.AttrDim}
		})
		row++
	}
	for _, cells := range t.Rows {
		if row >= height {
			break
		}
		t.writeRow(&s, row, widths, gap, cells, func(c TableColumn) vaxis.Style { return c.Style })
		row++
	}

	return s, nil
}
