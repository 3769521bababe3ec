package viewer

import (
	"io"
)

// Key is one decoded key event, either a plain ASCII character or one of
// the extended codes below.
type Key uint16

// Control keys that arrive as single bytes.
const (
	KeyCtrlC          Key = 0x03
	KeyTab            Key = 0x09
	KeyCarriageReturn Key = 0x0d
	KeyEscape         Key = 0x1b
	KeyBackspace      Key = 0x08
	KeyDelete         Key = 0x7f
)

// Extended keys that arrive as escape sequences. The code combines the
// '[' marker byte with the final byte of the sequence.
const (
	KeyCursorUp    Key = 0x5b41
	KeyCursorDown  Key = 0x5b42
	KeyCursorRight Key = 0x5b43
	KeyCursorLeft  Key = 0x5b44
	KeyEnd         Key = 0x5b46
	KeyHome        Key = 0x5b48
	KeyPageUp      Key = 0x5b35
	KeyPageDown    Key = 0x5b36

	KeyUnknown Key = 0x5bff
)

// DecodeKey decodes one raw terminal read into a key event. A single
// byte maps to itself, 3 and 4 byte escape sequences map to the extended
// codes. Unrecognized sequences decode to KeyUnknown.
func DecodeKey(buf []byte) Key {
	if len(buf) == 1 {
		return Key(buf[0])
	}
	if len(buf) < 3 || buf[0] != byte(KeyEscape) || buf[1] != '[' {
		return KeyUnknown
	}

	switch buf[2] {
	case 'A':
		return KeyCursorUp
	case 'B':
		return KeyCursorDown
	case 'C':
		return KeyCursorRight
	case 'D':
		return KeyCursorLeft
	case 'F':
		return KeyEnd
	case 'H':
		return KeyHome
	case '5', '6':
		if len(buf) != 4 || buf[3] != '~' {
			return KeyUnknown
		}
		if buf[2] == '5' {
			return KeyPageUp
		}
		return KeyPageDown
	}

	return KeyUnknown
}

// readKeys decodes key events from the raw terminal input until reading
// fails, closing the channel on its way out.
func readKeys(input io.Reader, keys chan<- Key) {
	buf := make([]byte, 4)
	for {
		n, err := input.Read(buf)
		if err != nil || n == 0 {
			close(keys)
			return
		}
		keys <- DecodeKey(buf[:n])
	}
}
