package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/ihexgoedit/internal/dump"
	"github.com/retroenv/ihexgoedit/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

//nolint:funlen // test functions can be long
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		want        options.Program
		expectError bool
	}{
		{
			name: "default flags",
			args: []string{"prog", "test.hex"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.hex"},
				Range:      dump.Full(),
			},
		},
		{
			name: "input flag",
			args: []string{"prog", "-i", "test.hex"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.hex"},
				Range:      dump.Full(),
			},
		},
		{
			name: "output flag",
			args: []string{"prog", "-o", "out.txt", "test.hex"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.hex", Output: "out.txt"},
				Range:      dump.Full(),
			},
		},
		{
			name: "normalize flag",
			args: []string{"prog", "-normalize", "test.hex"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.hex"},
				Flags:      options.Flags{Normalize: true},
				Range:      dump.Full(),
			},
		},
		{
			name: "output flags",
			args: []string{"prog", "-noascii", "-noregions", "test.hex"},
			want: options.Program{
				Parameters:  options.Parameters{Input: "test.hex"},
				OutputFlags: options.OutputFlags{NoASCII: true, NoRegions: true},
				Range:       dump.Full(),
			},
		},
		{
			name: "single patch",
			args: []string{"prog", "-patch", "70010000=DEADBEEF", "test.hex"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.hex"},
				Patches:    []options.Patch{{Address: 0x7001_0000, Value: "DEADBEEF"}},
				Range:      dump.Full(),
			},
		},
		{
			name: "multiple patches",
			args: []string{"prog", "-patch", "0x100=00112233,$200=aabbccdd", "test.hex"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.hex"},
				Patches: []options.Patch{
					{Address: 0x100, Value: "00112233"},
					{Address: 0x200, Value: "AABBCCDD"},
				},
				Range: dump.Full(),
			},
		},
		{
			name: "range flag",
			args: []string{"prog", "-range", "70000000:7003BFFF", "test.hex"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.hex"},
				Range:      dump.Range{First: 0x7000_0000, Last: 0x7003_BFFF},
			},
		},
		{
			name:        "invalid patch format",
			args:        []string{"prog", "-patch", "70010000", "test.hex"},
			expectError: true,
		},
		{
			name:        "invalid patch value",
			args:        []string{"prog", "-patch", "70010000=DEADBE", "test.hex"},
			expectError: true,
		},
		{
			name:        "invalid range separator",
			args:        []string{"prog", "-range", "100-200", "test.hex"},
			expectError: true,
		},
		{
			name:        "range start past end",
			args:        []string{"prog", "-range", "200:100", "test.hex"},
			expectError: true,
		},
		{
			name:        "flag after file argument",
			args:        []string{"prog", "test.hex", "-debug"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want.Input, got.Input)
			assert.Equal(t, tt.want.Output, got.Output)
			assert.Equal(t, tt.want.Normalize, got.Normalize)
			assert.Equal(t, tt.want.NoASCII, got.NoASCII)
			assert.Equal(t, tt.want.NoRegions, got.NoRegions)
			assert.Equal(t, tt.want.Range, got.Range)
			assert.Equal(t, len(tt.want.Patches), len(got.Patches))
			for i, patch := range tt.want.Patches {
				assert.Equal(t, patch.Address, got.Patches[i].Address)
				assert.Equal(t, patch.Value, got.Patches[i].Value)
			}
		})
	}
}

func TestParseFlagsMissingInput(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog"}

	_, err := ParseFlags()
	assert.Error(t, err)

	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestValidateOptionCombinations(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		expectError bool
	}{
		{
			name:        "no conflict",
			opts:        options.Program{},
			expectError: false,
		},
		{
			name: "watch only",
			opts: options.Program{
				Flags: options.Flags{Watch: true},
			},
			expectError: false,
		},
		{
			name: "view and watch conflict",
			opts: options.Program{
				Flags: options.Flags{View: true, Watch: true},
			},
			expectError: true,
		},
		{
			name: "view and patch conflict",
			opts: options.Program{
				Flags:   options.Flags{View: true},
				Patches: []options.Patch{{Address: 0, Value: "00000000"}},
			},
			expectError: true,
		},
		{
			name: "watch and patch conflict",
			opts: options.Program{
				Flags:   options.Flags{Watch: true},
				Patches: []options.Patch{{Address: 0, Value: "00000000"}},
			},
			expectError: true,
		},
		{
			name: "watch and normalize conflict",
			opts: options.Program{
				Flags: options.Flags{Watch: true, Normalize: true},
			},
			expectError: true,
		},
		{
			name: "view and normalize conflict",
			opts: options.Program{
				Flags: options.Flags{View: true, Normalize: true},
			},
			expectError: true,
		},
		{
			name: "verify and watch conflict",
			opts: options.Program{
				Flags: options.Flags{Watch: true, Verify: true},
			},
			expectError: true,
		},
		{
			name: "verify and view conflict",
			opts: options.Program{
				Flags: options.Flags{View: true, Verify: true},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionCombinations(tt.opts)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
