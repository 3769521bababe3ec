// Package region maps addresses to named hardware memory regions of the
// target device.
package region

// Region is a named address range of the target's system memory map.
type Region struct {
	ID    string // short stable identifier
	Label string // human readable name shown next to dump rows
	First uint32
	Last  uint32 // inclusive
}

// Unclassified is the label returned for addresses outside every region.
const Unclassified = "unclassified"

// Table is a list of non-overlapping regions ordered by start address.
type Table []Region

// Contains reports whether the address falls into the region.
func (r Region) Contains(address uint32) bool {
	return address >= r.First && address <= r.Last
}

// Lookup returns the region containing the address.
func (t Table) Lookup(address uint32) (Region, bool) {
	for _, reg := range t {
		if reg.Contains(address) {
			return reg, true
		}
	}
	return Region{}, false
}

// Classify returns the label of the region containing the address, or
// Unclassified for addresses outside every region. Classification only
// affects display, never decoding or edits.
func (t Table) Classify(address uint32) string {
	if reg, ok := t.Lookup(address); ok {
		return reg.Label
	}
	return Unclassified
}

// MaxLabelWidth returns the length of the longest label in the table,
// at least the length of the Unclassified label.
func (t Table) MaxLabelWidth() int {
	width := len(Unclassified)
	for _, reg := range t {
		if len(reg.Label) > width {
			width = len(reg.Label)
		}
	}
	return width
}

// DefaultTable returns the memory map of the AURIX TC3xx family, the
// microcontrollers whose firmware images this tool targets.
func DefaultTable() Table {
	return Table{
		{ID: "cpu2-dspr", Label: "CPU2 DSPR", First: 0x5000_0000, Last: 0x5003_BFFF},
		{ID: "cpu2-pspr", Label: "CPU2 PSPR", First: 0x5010_0000, Last: 0x5010_FFFF},
		{ID: "cpu1-dspr", Label: "CPU1 DSPR", First: 0x6000_0000, Last: 0x6003_BFFF},
		{ID: "cpu1-pspr", Label: "CPU1 PSPR", First: 0x6010_0000, Last: 0x6010_FFFF},
		{ID: "cpu0-dspr", Label: "CPU0 DSPR", First: 0x7000_0000, Last: 0x7003_BFFF},
		{ID: "cpu0-pspr", Label: "CPU0 PSPR", First: 0x7010_0000, Last: 0x7010_FFFF},
		{ID: "pflash", Label: "PFLASH cached", First: 0x8000_0000, Last: 0x80FF_FFFF},
		{ID: "bootrom", Label: "Boot ROM", First: 0x8FFF_8000, Last: 0x8FFF_FFFF},
		{ID: "lmu", Label: "LMU RAM cached", First: 0x9000_0000, Last: 0x900F_FFFF},
		{ID: "pflash-nc", Label: "PFLASH", First: 0xA000_0000, Last: 0xA0FF_FFFF},
		{ID: "dflash", Label: "DFLASH0", First: 0xAF00_0000, Last: 0xAF0F_FFFF},
		{ID: "ucb", Label: "UCB", First: 0xAF40_0000, Last: 0xAF40_5FFF},
		{ID: "lmu-nc", Label: "LMU RAM", First: 0xB000_0000, Last: 0xB00F_FFFF},
		{ID: "sfr", Label: "SFR space", First: 0xF000_0000, Last: 0xFFFF_FFFF},
	}
}
