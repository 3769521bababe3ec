package ihex

import (
	"strings"

	"github.com/retroenv/ihexgoedit/internal/memory"
)

// Decode parses a whole Intel HEX document into a sparse memory image.
// It runs a single pass over the lines, tracking the current base address
// set by extended linear and extended segment records. Data bytes land at
// base plus record address plus payload offset, later records overwrite
// earlier ones. An end of file record stops the pass immediately, content
// after it is ignored. Decode never fails, malformed input decodes to
// whatever usable records it contains.
func Decode(text string) *memory.Image {
	img := memory.NewImage()
	base := uint32(0)

	for _, line := range strings.Split(text, "\n") {
		record, ok := ParseLine(line)
		if !ok {
			continue
		}

		switch record.Type {
		case RecordData:
			for _, pb := range record.Payload {
				img.Set(base+uint32(record.Address)+pb.Offset, pb.Value)
			}

		case RecordEOF:
			return img

		case RecordExtLinear:
			if value, ok := record.baseValue(); ok {
				base = uint32(value) << 16
			}

		case RecordExtSegment:
			if value, ok := record.baseValue(); ok {
				base = uint32(value) << 4
			}
		}
	}

	return img
}

// Encode serializes the image as canonical Intel HEX text. Data records
// cover runs of contiguous addresses with at most MaxPayloadBytes bytes
// each, in ascending address order. An extended linear record is emitted
// whenever the upper 16 bits of the next run differ from the current base,
// starting from an implicit base of zero. The document ends with an end of
// file record, lines are joined with a newline and there is no trailing
// newline. Encoding the same image always produces the same text.
func Encode(img *memory.Image) string {
	addresses := img.Addresses()

	var lines []string
	base := uint32(0)

	for start := 0; start < len(addresses); {
		end := start + 1
		for end < len(addresses) && end-start < MaxPayloadBytes &&
			addresses[end] == addresses[end-1]+1 {
			end++
		}

		first := addresses[start]
		if upper := first >> 16; upper != base {
			base = upper
			lines = append(lines, EmitRecord(0, RecordExtLinear,
				[]byte{byte(upper >> 8), byte(upper)}))
		}

		payload := make([]byte, 0, end-start)
		for _, address := range addresses[start:end] {
			value, _ := img.Get(address)
			payload = append(payload, value)
		}
		lines = append(lines, EmitRecord(uint16(first), RecordData, payload))

		start = end
	}

	lines = append(lines, EmitRecord(0, RecordEOF, nil))

	return strings.Join(lines, "\n")
}
