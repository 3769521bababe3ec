// Package dump projects a sparse memory image into fixed-width rows of hex
// words and ASCII for display.
package dump

import (
	"fmt"
	"math"
	"strings"

	"github.com/retroenv/ihexgoedit/internal/memory"
)

const (
	// BytesPerRow is the number of addresses covered by one dump row.
	BytesPerRow = 16

	// BytesPerWord is the number of bytes shown as one hex word.
	BytesPerWord = 4

	// WordsPerRow is the number of hex words per dump row.
	WordsPerRow = BytesPerRow / BytesPerWord

	// MissingWord is rendered for a word with at least one absent byte.
	MissingWord = "........"
)

// Row is one 16-byte-aligned line of the dump projection. Words hold the
// upper-case hex rendering of 4 bytes each or MissingWord, ASCII holds one
// character per byte of the row.
type Row struct {
	Base  uint32
	Words [WordsPerRow]string
	ASCII string
}

// Range restricts a projection to an inclusive address range.
type Range struct {
	First uint32
	Last  uint32
}

// Full returns the range covering the whole 32-bit address space.
func Full() Range {
	return Range{First: 0, Last: math.MaxUint32}
}

// Contains reports whether the address falls inside the range.
func (r Range) Contains(address uint32) bool {
	return address >= r.First && address <= r.Last
}

// Project derives the dump rows for all image addresses inside the range:
// one row per distinct 16-byte-aligned base holding at least one present
// byte, in ascending base order. Projection never mutates the image, rows
// are rebuilt from scratch on every call.
func Project(img *memory.Image, rng Range) []Row {
	var bases []uint32
	for _, address := range img.Addresses() {
		if !rng.Contains(address) {
			continue
		}
		base := address &^ uint32(BytesPerRow-1)
		if len(bases) == 0 || bases[len(bases)-1] != base {
			bases = append(bases, base)
		}
	}

	rows := make([]Row, 0, len(bases))
	for _, base := range bases {
		rows = append(rows, buildRow(img, rng, base))
	}
	return rows
}

func buildRow(img *memory.Image, rng Range, base uint32) Row {
	row := Row{Base: base}

	var ascii strings.Builder
	ascii.Grow(BytesPerRow)

	for w := range row.Words {
		var word [BytesPerWord]byte
		present := 0

		for i := range word {
			address := base + uint32(w*BytesPerWord+i)
			value, ok := rangedByte(img, rng, address)
			if ok {
				word[i] = value
				present++
			}
			ascii.WriteByte(asciiChar(value, ok))
		}

		if present == BytesPerWord {
			row.Words[w] = fmt.Sprintf("%02X%02X%02X%02X",
				word[0], word[1], word[2], word[3])
		} else {
			row.Words[w] = MissingWord
		}
	}

	row.ASCII = ascii.String()
	return row
}

// rangedByte treats bytes outside the range as absent so that a filtered
// projection does not leak neighboring data into boundary rows.
func rangedByte(img *memory.Image, rng Range, address uint32) (byte, bool) {
	if !rng.Contains(address) {
		return 0, false
	}
	return img.Get(address)
}

func asciiChar(value byte, present bool) byte {
	if present && value >= 0x20 && value <= 0x7E {
		return value
	}
	return '.'
}
