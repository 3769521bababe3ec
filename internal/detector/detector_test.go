package detector

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		filename   string
		wantFormat Format
	}{
		{
			name:       ".hex extension",
			filename:   "firmware.hex",
			wantFormat: IntelHex,
		},
		{
			name:       ".ihex extension",
			filename:   "firmware.ihex",
			wantFormat: IntelHex,
		},
		{
			name:       ".ihx extension",
			filename:   "firmware.ihx",
			wantFormat: IntelHex,
		},
		{
			name:       ".HEX extension (uppercase)",
			filename:   "FIRMWARE.HEX",
			wantFormat: IntelHex,
		},
		{
			name:       "path with directories",
			filename:   "/tmp/build/out.hex",
			wantFormat: IntelHex,
		},
		{
			name:       ".bin extension",
			filename:   "firmware.bin",
			wantFormat: Unknown,
		},
		{
			name:       "no extension",
			filename:   "firmware",
			wantFormat: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.filename)
			assert.Equal(t, tt.wantFormat, got)
		})
	}
}
