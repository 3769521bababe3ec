// Package options contains the program options.
package options

import (
	"github.com/retroenv/ihexgoedit/internal/dump"
)

// Patch is a single word edit parsed from the command line.
type Patch struct {
	Address uint32
	Value   string // 8 hex digits, normalized to upper case
}

// Parameters contains file path options.
type Parameters struct {
	Input  string
	Output string
}

// Flags contains behavior options.
type Flags struct {
	Normalize bool
	Verify    bool
	View      bool
	Watch     bool

	Force bool
	Debug bool
	Quiet bool
}

// OutputFlags contains dump formatting options.
type OutputFlags struct {
	NoASCII   bool
	NoRegions bool
}

// Program options of the hex editor.
type Program struct {
	Parameters
	Flags
	OutputFlags

	Patches []Patch
	Range   dump.Range
}
