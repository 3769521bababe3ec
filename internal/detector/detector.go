// Package detector handles document format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// Format identifies a supported document format.
type Format string

// Supported document formats.
const (
	IntelHex Format = "ihex"
	Unknown  Format = ""
)

// Detector handles document format detection from file extensions.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the document format from the input filename extension.
func (d *Detector) Detect(filename string) Format {
	format := detectFromFile(filename)
	d.logger.Debug("Detected file format",
		log.String("format", string(format)),
		log.String("file", filename))
	return format
}

func detectFromFile(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".hex", ".ihex", ".ihx":
		return IntelHex
	default:
		return Unknown
	}
}
