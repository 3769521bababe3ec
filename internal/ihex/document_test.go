package ihex

import (
	"strings"
	"testing"

	"github.com/marcinbor85/gohex"
	"github.com/retroenv/ihexgoedit/internal/memory"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecodeDataRecords(t *testing.T) {
	text := ":100000000102030405060708090A0B0C0D0E0F1068\n:00000001FF"

	img := Decode(text)

	assert.Equal(t, 16, img.Len())
	for i := uint32(0); i < 16; i++ {
		value, ok := img.Get(i)
		assert.True(t, ok)
		assert.Equal(t, byte(i+1), value)
	}
}

func TestDecodeCRLFLineEndings(t *testing.T) {
	text := ":01000000AA55\r\n:00000001FF\r\n"

	img := Decode(text)

	assert.Equal(t, 1, img.Len())
	value, ok := img.Get(0)
	assert.True(t, ok)
	assert.Equal(t, byte(0xAA), value)
}

func TestDecodeExtendedLinearBase(t *testing.T) {
	text := ":02000004700189\n:04000000DEADBEEFC4\n:00000001FF"

	img := Decode(text)

	assert.Equal(t, 4, img.Len())
	for i, want := range []byte{0xDE, 0xAD, 0xBE, 0xEF} {
		value, ok := img.Get(0x7001_0000 + uint32(i))
		assert.True(t, ok)
		assert.Equal(t, want, value)
	}
}

func TestDecodeExtendedSegmentBase(t *testing.T) {
	text := ":020000021000EC\n:01000000AA55\n:00000001FF"

	img := Decode(text)

	assert.Equal(t, 1, img.Len())
	value, ok := img.Get(0x1_0000)
	assert.True(t, ok)
	assert.Equal(t, byte(0xAA), value)
}

func TestDecodeEOFStopsProcessing(t *testing.T) {
	text := ":01000000AA55\n:00000001FF\n:01001000BB34"

	img := Decode(text)

	assert.Equal(t, 1, img.Len())
	_, ok := img.Get(0x10)
	assert.False(t, ok)
}

func TestDecodeLastWriteWins(t *testing.T) {
	text := ":01000000AA55\n:01000000BB44\n:00000001FF"

	img := Decode(text)

	assert.Equal(t, 1, img.Len())
	value, _ := img.Get(0)
	assert.Equal(t, byte(0xBB), value)
}

func TestDecodeSkipsUnrecognizedRecordTypes(t *testing.T) {
	text := ":0400000300003800C1\n:01000000AA55\n:00000001FF"

	img := Decode(text)

	assert.Equal(t, 1, img.Len())
}

func TestDecodeSkipsMalformedLines(t *testing.T) {
	text := strings.Join([]string{
		"garbage",
		"",
		":XX000000AA55",
		":01000000AA55",
		"  ",
	}, "\n")

	img := Decode(text)

	assert.Equal(t, 1, img.Len())
	value, _ := img.Get(0)
	assert.Equal(t, byte(0xAA), value)
}

func TestDecodeMalformedBaseRecordIgnored(t *testing.T) {
	// Declared length 3 disqualifies the extended linear record, the
	// following data record still lands at base 0.
	text := ":0300000470010000\n:01000000AA55\n:00000001FF"

	img := Decode(text)

	assert.Equal(t, 1, img.Len())
	_, ok := img.Get(0x7001_0000)
	assert.False(t, ok)
	_, ok = img.Get(0)
	assert.True(t, ok)
}

func TestDecodeEmptyInput(t *testing.T) {
	assert.Equal(t, 0, Decode("").Len())
	assert.Equal(t, 0, Decode("no records here\n\n").Len())
}

func TestEncodeEmptyImage(t *testing.T) {
	assert.Equal(t, ":00000001FF", Encode(memory.NewImage()))
}

func TestEncodeBankSwitches(t *testing.T) {
	img := memory.NewImage()
	img.Set(0x1_0000, 0xAA)
	img.Set(0x2_0000, 0xBB)

	want := strings.Join([]string{
		":020000040001F9",
		":01000000AA55",
		":020000040002F8",
		":01000000BB44",
		":00000001FF",
	}, "\n")
	assert.Equal(t, want, Encode(img))
}

func TestEncodeImplicitBankZero(t *testing.T) {
	img := memory.NewImage()
	img.Set(0x10, 0xAA)

	text := Encode(img)

	assert.False(t, strings.Contains(text, ":02000004"))
}

func TestEncodeChunking(t *testing.T) {
	img := memory.NewImage()
	for i := uint32(0); i < 20; i++ {
		img.Set(i, byte(i))
	}

	want := strings.Join([]string{
		":10000000000102030405060708090A0B0C0D0E0F78",
		":0400100010111213A6",
		":00000001FF",
	}, "\n")
	assert.Equal(t, want, Encode(img))
}

func TestEncodeGapBreaksChunk(t *testing.T) {
	img := memory.NewImage()
	for i := uint32(0); i < 4; i++ {
		img.Set(i, 0xAA)
		img.Set(8+i, 0xBB)
	}

	want := strings.Join([]string{
		":04000000AAAAAAAA54",
		":04000800BBBBBBBB08",
		":00000001FF",
	}, "\n")
	assert.Equal(t, want, Encode(img))
}

func TestEncodeDeterministic(t *testing.T) {
	forward := memory.NewImage()
	backward := memory.NewImage()
	addresses := []uint32{0x0, 0x1, 0x100, 0x1_0000, 0x7001_0000, 0xFFFF_FFFF}
	for i, address := range addresses {
		forward.Set(address, byte(i))
	}
	for i := len(addresses) - 1; i >= 0; i-- {
		backward.Set(addresses[i], byte(i))
	}

	assert.Equal(t, Encode(forward), Encode(backward))
}

func TestRoundTripIdentity(t *testing.T) {
	tests := []struct {
		name      string
		addresses map[uint32]byte
	}{
		{
			name:      "empty image",
			addresses: map[uint32]byte{},
		},
		{
			name:      "single byte",
			addresses: map[uint32]byte{0x0: 0xFF},
		},
		{
			name: "scattered bytes",
			addresses: map[uint32]byte{
				0x10:        0x01,
				0x11:        0x02,
				0x12:        0x03,
				0x2000:      0x04,
				0x7001_0000: 0xDE,
				0x7001_0001: 0xAD,
			},
		},
		{
			name:      "top of address space",
			addresses: map[uint32]byte{0xFFFF_FFFE: 0x01, 0xFFFF_FFFF: 0x02},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := memory.NewImage()
			for address, value := range tt.addresses {
				img.Set(address, value)
			}

			got := Decode(Encode(img))

			assert.True(t, img.Equal(got))
		})
	}
}

func TestRoundTripBankStraddlingRun(t *testing.T) {
	// A contiguous run crossing a 64KB boundary stays one record, the
	// data continues linearly past the 16-bit record address.
	img := memory.NewImage()
	for i := uint32(0); i < 16; i++ {
		img.Set(0xFFF8+i, byte(i))
	}

	got := Decode(Encode(img))

	assert.True(t, img.Equal(got))
}

func TestEncodeMatchesReferenceParser(t *testing.T) {
	img := memory.NewImage()
	img.SetWord(0x7001_0000, [4]byte{0xDE, 0xAD, 0xBE, 0xEF})
	for i := uint32(0); i < 20; i++ {
		img.Set(0x100+i, byte(i))
	}
	img.Set(0x2_0000, 0x42)

	mem := gohex.NewMemory()
	assert.NoError(t, mem.ParseIntelHex(strings.NewReader(Encode(img))))

	total := 0
	for _, segment := range mem.GetDataSegments() {
		for i, value := range segment.Data {
			imgValue, ok := img.Get(segment.Address + uint32(i))
			assert.True(t, ok)
			assert.Equal(t, imgValue, value)
			total++
		}
	}
	assert.Equal(t, img.Len(), total)
}
