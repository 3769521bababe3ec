// Package verification verifies that an emitted document recreates the
// memory image it was serialized from.
package verification

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/retroenv/ihexgoedit/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// VerifyText parses document text with an independent, strict reference
// parser and compares its content byte for byte against the image, in
// both directions. A document the reference parser rejects fails
// verification even when the permissive reader accepts it.
func VerifyText(logger *log.Logger, text string, img *memory.Image) error {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(strings.NewReader(text)); err != nil {
		return fmt.Errorf("reference parsing failed: %w", err)
	}

	return checkImageEqual(logger, mem.GetDataSegments(), img)
}

// VerifyFile reads a document file and verifies its content against the
// image.
func VerifyFile(logger *log.Logger, path string, img *memory.Image) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", path, err)
	}
	if err := VerifyText(logger, string(data), img); err != nil {
		return fmt.Errorf("verifying file %s: %w", path, err)
	}
	return nil
}

func checkImageEqual(logger *log.Logger, segments []gohex.DataSegment, img *memory.Image) error {
	var diffs uint64
	documentBytes := 0

	for _, segment := range segments {
		for i, value := range segment.Data {
			address := segment.Address + uint32(i)
			documentBytes++

			imageValue, ok := img.Get(address)
			if ok && imageValue == value {
				continue
			}

			diffs++
			if diffs < 10 {
				if ok {
					logger.Error("Byte mismatch",
						log.Hex("address", address),
						log.Hex("expected", imageValue),
						log.Hex("got", value))
				} else {
					logger.Error("Byte missing from image",
						log.Hex("address", address),
						log.Hex("got", value))
				}
			}
		}
	}

	if diffs > 0 {
		return fmt.Errorf("%d byte mismatches", diffs)
	}
	if documentBytes != img.Len() {
		return fmt.Errorf("mismatched byte counts, document %d != image %d",
			documentBytes, img.Len())
	}
	return nil
}
