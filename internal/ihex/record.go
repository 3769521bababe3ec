// Package ihex implements a permissive reader and a canonical writer for
// the Intel HEX file format.
package ihex

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordType identifies the type of an Intel HEX record.
type RecordType byte

// Record types handled by the document decoder. Records of any other type
// parse but carry no meaning for the memory image.
const (
	RecordData       RecordType = 0x00
	RecordEOF        RecordType = 0x01
	RecordExtSegment RecordType = 0x02
	RecordExtLinear  RecordType = 0x04
)

const (
	// recordMark is the character every record line starts with.
	recordMark = ':'

	// minRecordLen is the shortest well formed record line:
	// mark, length, address, type and checksum fields.
	minRecordLen = 11

	// payloadIndex is the character offset of the first payload byte.
	payloadIndex = 9

	// MaxPayloadBytes is the largest payload the canonical writer emits
	// per data record.
	MaxPayloadBytes = 16
)

// PayloadByte is one decoded payload byte together with its offset inside
// the record payload. Offsets can be non-contiguous when individual bytes
// of a record failed to parse.
type PayloadByte struct {
	Offset uint32
	Value  byte
}

// Record is a single parsed line of an Intel HEX document.
type Record struct {
	Length  byte // declared payload length in bytes
	Address uint16
	Type    RecordType
	Payload []PayloadByte
}

// ParseLine parses one line into a record. ok is false for lines carrying
// no usable record: blank lines, stray text and lines with a malformed
// length, address or type field are tolerated and skipped. Payload bytes
// that individually fail to parse or run past the end of the line are
// dropped while the rest of the record is kept. The checksum field is not
// validated, the payload is trusted as written.
func ParseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if len(line) < minRecordLen || line[0] != recordMark {
		return Record{}, false
	}

	length, err := parseHexByte(line[1:3])
	if err != nil {
		return Record{}, false
	}
	address, err := strconv.ParseUint(line[3:7], 16, 16)
	if err != nil {
		return Record{}, false
	}
	typ, err := parseHexByte(line[7:9])
	if err != nil {
		return Record{}, false
	}

	record := Record{
		Length:  length,
		Address: uint16(address),
		Type:    RecordType(typ),
	}

	for i := 0; i < int(length); i++ {
		pos := payloadIndex + i*2
		if pos+2 > len(line) {
			break
		}
		value, err := parseHexByte(line[pos : pos+2])
		if err != nil {
			continue
		}
		record.Payload = append(record.Payload, PayloadByte{
			Offset: uint32(i),
			Value:  value,
		})
	}

	return record, true
}

// baseValue returns the payload interpreted as a big-endian 16-bit base
// address value. ok is false unless the record declares exactly 2 payload
// bytes and both parsed.
func (r Record) baseValue() (uint16, bool) {
	if r.Length != 2 || len(r.Payload) != 2 ||
		r.Payload[0].Offset != 0 || r.Payload[1].Offset != 1 {
		return 0, false
	}
	return uint16(r.Payload[0].Value)<<8 | uint16(r.Payload[1].Value), true
}

// EmitRecord builds the canonical record line for the given address field,
// record type and payload: upper-case hex digits, zero-padded fields and a
// trailing two's-complement checksum.
func EmitRecord(address uint16, typ RecordType, payload []byte) string {
	var sb strings.Builder
	sb.Grow(minRecordLen + len(payload)*2)

	fmt.Fprintf(&sb, ":%02X%04X%02X", len(payload), address, byte(typ))
	for _, value := range payload {
		fmt.Fprintf(&sb, "%02X", value)
	}
	fmt.Fprintf(&sb, "%02X", Checksum(address, typ, payload))

	return sb.String()
}

// Checksum computes the record checksum, the two's complement of the 8-bit
// sum of the length, both address bytes, the type and all payload bytes.
func Checksum(address uint16, typ RecordType, payload []byte) byte {
	sum := len(payload) + int(address>>8) + int(address&0xFF) + int(typ)
	for _, value := range payload {
		sum += int(value)
	}
	return byte(0x100 - (sum & 0xFF))
}

func parseHexByte(s string) (byte, error) {
	value, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("parsing hex byte %q: %w", s, err)
	}
	return byte(value), nil
}
