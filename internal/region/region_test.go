package region

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestClassify(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name    string
		address uint32
		want    string
	}{
		{
			name:    "inside data scratchpad",
			address: 0x7001_0000,
			want:    "CPU0 DSPR",
		},
		{
			name:    "region start boundary",
			address: 0x7000_0000,
			want:    "CPU0 DSPR",
		},
		{
			name:    "region end boundary",
			address: 0x7003_BFFF,
			want:    "CPU0 DSPR",
		},
		{
			name:    "gap between regions",
			address: 0x7003_C000,
			want:    Unclassified,
		},
		{
			name:    "program flash",
			address: 0x8000_1234,
			want:    "PFLASH cached",
		},
		{
			name:    "peripheral space",
			address: 0xF003_0000,
			want:    "SFR space",
		},
		{
			name:    "outside all regions",
			address: 0x0000_0000,
			want:    Unclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.address))
		})
	}
}

func TestLookup(t *testing.T) {
	table := DefaultTable()

	reg, ok := table.Lookup(0x8FFF_8000)
	assert.True(t, ok)
	assert.Equal(t, "bootrom", reg.ID)

	_, ok = table.Lookup(0x4000_0000)
	assert.False(t, ok)
}

func TestDefaultTableOrderedNonOverlapping(t *testing.T) {
	table := DefaultTable()

	for i, reg := range table {
		assert.True(t, reg.First <= reg.Last)
		if i > 0 {
			assert.True(t, table[i-1].Last < reg.First)
		}
	}
}

func TestMaxLabelWidth(t *testing.T) {
	assert.Equal(t, len("LMU RAM cached"), DefaultTable().MaxLabelWidth())

	assert.Equal(t, len(Unclassified), Table{}.MaxLabelWidth())
}
