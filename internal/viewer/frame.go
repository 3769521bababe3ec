package viewer

import (
	"fmt"
	"strings"

	"github.com/retroenv/ihexgoedit/internal/dump"
	"github.com/retroenv/ihexgoedit/internal/region"
	"github.com/retroenv/ihexgoedit/internal/writer"
)

// Terminal escape sequences used to draw the screen.
const (
	escClearScreen = "\x1b[2J"
	escCursorHome  = "\x1b[H"
	escAltScreen   = "\x1b[?1049h"
	escMainScreen  = "\x1b[?1049l"
	escHideCursor  = "\x1b[?25l"
	escShowCursor  = "\x1b[?25h"
	escInverse     = "\x1b[7m"
	escReset       = "\x1b[0m"
)

const (
	headerLines = 1
	footerLines = 2
	frameLines  = headerLines + footerLines

	minFrameWidth  = 20
	minFrameHeight = frameLines + 1
)

// frameView is everything needed to draw one full screen.
type frameView struct {
	Title   string
	Rows    []dump.Row
	Offset  int // index of the first visible row
	Cursor  int // index of the selected row
	Command string
	Status  string
	Width   int
	Height  int
	Regions region.Table
	Format  writer.Options
}

// renderFrame renders the complete screen content, one padded line per
// terminal row. The returned slice always holds Height lines of exactly
// Width visible characters each, so writing them repaints the whole
// screen without clearing it.
func renderFrame(view frameView) []string {
	if view.Width < minFrameWidth {
		view.Width = minFrameWidth
	}
	if view.Height < minFrameHeight {
		view.Height = minFrameHeight
	}

	lines := make([]string, 0, view.Height)
	lines = append(lines, renderHeader(view))

	labelWidth := 0
	if view.Format.ShowRegions {
		labelWidth = view.Regions.MaxLabelWidth()
	}

	content := view.Height - frameLines
	for i := 0; i < content; i++ {
		index := view.Offset + i
		if index >= len(view.Rows) {
			lines = append(lines, padLine("", view.Width))
			continue
		}

		line := padLine(writer.FormatRow(view.Rows[index], view.Regions, labelWidth, view.Format), view.Width)
		if index == view.Cursor {
			line = escInverse + line + escReset
		}
		lines = append(lines, line)
	}

	lines = append(lines, padLine(view.Command, view.Width))
	lines = append(lines, padLine(view.Status, view.Width))
	return lines
}

// renderHeader renders the top line with the document title on the left
// and the cursor position on the right.
func renderHeader(view frameView) string {
	left := view.Title
	right := "empty image"
	if len(view.Rows) > 0 {
		right = fmt.Sprintf("row %d/%d", view.Cursor+1, len(view.Rows))
	}

	pad := view.Width - len(left) - len(right)
	if pad < 1 {
		return padLine(left, view.Width)
	}
	return left + strings.Repeat(" ", pad) + right
}

// padLine clips or pads a line to exactly the given width.
func padLine(text string, width int) string {
	if len(text) > width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}
