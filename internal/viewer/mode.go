package viewer

import "fmt"

// mode is one input handling state of the viewer, navigation is the root
// mode.
type mode interface {
	// activate refreshes the command bar when the mode becomes active.
	activate(v *Viewer)
	// keyPressed handles one key event, returning true when the mode is
	// done and should be left.
	keyPressed(v *Viewer, key Key) bool
}

// navMode is the root mode for moving around the dump.
type navMode struct{}

func (m *navMode) activate(v *Viewer) {
	v.command = "[g]oto  [e]dit  [n]ormalize  [q]uit"
}

func (m *navMode) keyPressed(v *Viewer, key Key) bool {
	switch key {
	case 'q', KeyCtrlC:
		return true

	case KeyCursorUp:
		v.moveCursor(-1)
	case KeyCursorDown:
		v.moveCursor(1)
	case KeyPageUp:
		v.moveCursor(-v.pageSize())
	case KeyPageDown:
		v.moveCursor(v.pageSize())
	case KeyHome:
		v.cursorTo(0)
	case KeyEnd:
		v.cursorTo(len(v.rows) - 1)

	case 'g':
		v.enterMode(newInputMode("goto address? ", "", v.gotoAddress))
	case 'e':
		v.enterMode(newInputMode("edit? ", m.editPrefill(v), v.editWord))
	case 'n':
		v.requestNormalize()
	}
	return false
}

// editPrefill seeds the edit input with the address of the selected row.
func (m *navMode) editPrefill(v *Viewer) string {
	if v.cursor >= len(v.rows) {
		return ""
	}
	return fmt.Sprintf("%08X=", v.rows[v.cursor].Base)
}

// inputMode collects one line of input for a command. The apply callback
// reports whether the input was accepted, rejected input keeps the mode
// open with the typed text in place for corrections.
type inputMode struct {
	prompt string
	input  []byte
	apply  func(input string) bool
}

func newInputMode(prompt, initial string, apply func(string) bool) *inputMode {
	return &inputMode{
		prompt: prompt,
		input:  []byte(initial),
		apply:  apply,
	}
}

func (m *inputMode) activate(v *Viewer) {
	v.command = m.prompt + string(m.input) + "_"
}

func (m *inputMode) keyPressed(v *Viewer, key Key) bool {
	switch {
	case key == KeyEscape:
		return true

	case key == KeyCarriageReturn:
		return m.apply(string(m.input))

	case key == KeyBackspace || key == KeyDelete:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	case key >= 32 && key <= 126:
		m.input = append(m.input, byte(key))
	}

	m.activate(v)
	return false
}
