// Package viewer implements an interactive terminal viewer on top of a
// document session.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/retroenv/ihexgoedit/internal/dump"
	"github.com/retroenv/ihexgoedit/internal/region"
	"github.com/retroenv/ihexgoedit/internal/session"
	"github.com/retroenv/ihexgoedit/internal/writer"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the viewer is started without an
// interactive terminal attached.
var ErrNoTerminal = errors.New("the viewer needs an interactive terminal")

const (
	tickInterval = 250 * time.Millisecond

	// status messages stay visible for this many clock ticks
	statusTicks = 8

	keyBuffer = 8

	defaultWidth  = 80
	defaultHeight = 24
)

// Controller accepts requests posted by the viewer.
type Controller interface {
	Post(req session.Request)
}

// Options configures the viewer.
type Options struct {
	ShowASCII   bool
	ShowRegions bool
	Title       string
}

// Viewer renders dump rows into a raw mode terminal and turns key
// presses into session requests. It implements the session surface.
type Viewer struct {
	logger  *log.Logger
	regions region.Table
	options Options

	input  io.Reader
	output io.Writer
	fd     int
	state  *term.State

	controller Controller
	updates    chan []dump.Row

	width  int
	height int

	rows   []dump.Row
	offset int
	cursor int

	command   string
	status    string
	statusClk int

	modes []mode
}

// New creates a viewer on the process terminal.
func New(logger *log.Logger, regions region.Table, options Options) (*Viewer, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}

	viewer := newViewer(logger, regions, options, os.Stdin, os.Stdout)
	viewer.fd = fd
	return viewer, nil
}

// newViewer creates a viewer detached from the process terminal.
func newViewer(logger *log.Logger, regions region.Table, options Options,
	input io.Reader, output io.Writer) *Viewer {

	return &Viewer{
		logger:  logger,
		regions: regions,
		options: options,
		input:   input,
		output:  output,
		fd:      -1,
		updates: make(chan []dump.Row, 1),
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// SetController binds the target that receives the edit and normalize
// requests of the viewer.
func (v *Viewer) SetController(controller Controller) {
	v.controller = controller
}

// Update replaces the displayed rows. Safe to call from other
// goroutines, only the latest pending update gets rendered.
func (v *Viewer) Update(rows []dump.Row) {
	for {
		select {
		case v.updates <- rows:
			return
		case <-v.updates:
		}
	}
}

// Run draws the screen and processes key presses until the user quits or
// the context is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.enterScreen(); err != nil {
		return err
	}
	defer v.leaveScreen()

	keys := make(chan Key, keyBuffer)
	go readKeys(v.input, keys)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	if len(v.modes) == 0 {
		v.enterMode(&navMode{})
	}
	v.render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case rows := <-v.updates:
			v.setRows(rows)
			v.render()

		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if v.keyPressed(key) {
				return nil
			}
			v.render()

		case <-ticker.C:
			v.tick()
		}
	}
}

// enterScreen switches the terminal into raw mode and onto the alternate
// screen.
func (v *Viewer) enterScreen() error {
	if v.fd >= 0 {
		state, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("entering raw terminal mode: %w", err)
		}
		v.state = state
		v.resize()
	}

	fmt.Fprint(v.output, escAltScreen+escHideCursor+escClearScreen)
	return nil
}

// leaveScreen restores the main screen and the previous terminal state.
func (v *Viewer) leaveScreen() {
	fmt.Fprint(v.output, escShowCursor+escMainScreen)

	if v.state != nil {
		if err := term.Restore(int(os.Stdin.Fd()), v.state); err != nil {
			v.logger.Error("Restoring terminal state", log.Err(err))
		}
		v.state = nil
	}
}

// resize queries the terminal size, returning true when it changed.
func (v *Viewer) resize() bool {
	if v.fd < 0 {
		return false
	}
	width, height, err := term.GetSize(v.fd)
	if err != nil || (width == v.width && height == v.height) {
		return false
	}
	v.width, v.height = width, height
	return true
}

// tick expires the status message and follows terminal size changes.
func (v *Viewer) tick() {
	dirty := v.resize()
	if dirty {
		fmt.Fprint(v.output, escClearScreen)
	}

	if v.statusClk > 0 {
		v.statusClk--
		if v.statusClk == 0 {
			v.status = ""
			dirty = true
		}
	}

	if dirty {
		v.render()
	}
}

// render repaints the whole screen.
func (v *Viewer) render() {
	lines := renderFrame(frameView{
		Title:   v.options.Title,
		Rows:    v.rows,
		Offset:  v.offset,
		Cursor:  v.cursor,
		Command: v.command,
		Status:  v.status,
		Width:   v.width,
		Height:  v.height,
		Regions: v.regions,
		Format: writer.Options{
			ShowRegions: v.options.ShowRegions,
			ShowASCII:   v.options.ShowASCII,
		},
	})
	fmt.Fprint(v.output, escCursorHome+strings.Join(lines, "\r\n"))
}

// enterMode pushes a mode onto the mode stack and activates it.
func (v *Viewer) enterMode(m mode) {
	v.modes = append(v.modes, m)
	m.activate(v)
}

// keyPressed routes a key to the active mode, popping the mode when it
// is done. Returns true when the last mode exited and the viewer should
// close.
func (v *Viewer) keyPressed(key Key) bool {
	n := len(v.modes) - 1
	if v.modes[n].keyPressed(v, key) {
		v.modes = v.modes[:n]
		if n > 0 {
			v.modes[n-1].activate(v)
		}
	}
	return len(v.modes) == 0
}

// setRows replaces the rows, keeping the selection at the same address
// when possible.
func (v *Viewer) setRows(rows []dump.Row) {
	var anchor uint32
	if v.cursor < len(v.rows) {
		anchor = v.rows[v.cursor].Base
	}

	v.rows = rows
	v.cursorTo(v.indexForAddress(anchor))
}

// pageSize returns the number of visible dump rows.
func (v *Viewer) pageSize() int {
	size := v.height - frameLines
	if size < 1 {
		size = 1
	}
	return size
}

// moveCursor moves the selection by delta rows.
func (v *Viewer) moveCursor(delta int) {
	v.cursorTo(v.cursor + delta)
}

// cursorTo selects the given row and scrolls it into view.
func (v *Viewer) cursorTo(index int) {
	if index > len(v.rows)-1 {
		index = len(v.rows) - 1
	}
	if index < 0 {
		index = 0
	}
	v.cursor = index

	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if bottom := v.offset + v.pageSize() - 1; v.cursor > bottom {
		v.offset = v.cursor - v.pageSize() + 1
	}
}

// indexForAddress returns the index of the first row at or past the
// address, or the last row when the address is past all rows.
func (v *Viewer) indexForAddress(address uint32) int {
	for i, row := range v.rows {
		if row.Base >= address {
			return i
		}
	}
	return len(v.rows) - 1
}

// setStatus shows a message on the status bar for a short time.
func (v *Viewer) setStatus(format string, args ...any) {
	v.status = fmt.Sprintf(format, args...)
	v.statusClk = statusTicks
}

// gotoAddress moves the selection to the first row at or past the given
// address. Returns false on a malformed address to keep the input open.
func (v *Viewer) gotoAddress(input string) bool {
	address, err := session.ParseHexAddress(input)
	if err != nil {
		v.setStatus("invalid address %s", input)
		return false
	}
	if len(v.rows) == 0 {
		v.setStatus("image is empty")
		return true
	}

	v.cursorTo(v.indexForAddress(address))
	row := v.rows[v.cursor]
	v.setStatus("at %08X %s", row.Base, v.regions.Classify(row.Base))
	return true
}

// editWord validates an ADDRESS=VALUE edit and posts it to the session.
// Malformed edits set a status message and keep the input open, nothing
// is posted.
func (v *Viewer) editWord(input string) bool {
	address, value, found := strings.Cut(input, "=")
	if !found {
		v.setStatus("invalid edit, expected ADDRESS=VALUE")
		return false
	}

	parsedAddress, err := session.ParseHexAddress(address)
	if err != nil {
		v.setStatus("invalid edit address %s", address)
		return false
	}
	value = strings.TrimSpace(value)
	if _, err := session.ParseWordValue(value); err != nil {
		v.setStatus("invalid edit value %s, expected 8 hex digits", value)
		return false
	}

	if v.controller == nil {
		return true
	}
	v.controller.Post(session.EditWord{
		Address: int64(parsedAddress),
		Value:   strings.ToUpper(value),
	})
	v.setStatus("word edit at %08X submitted", parsedAddress)
	return true
}

// requestNormalize posts a canonical rewrite of the document.
func (v *Viewer) requestNormalize() {
	if v.controller == nil {
		return
	}
	v.controller.Post(session.NormalizeDocument{})
	v.setStatus("normalize submitted")
}
