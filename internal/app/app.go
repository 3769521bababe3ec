// Package app provides the main application helper for the hex editor.
package app

import (
	"github.com/retroenv/ihexgoedit/internal/memory"
	"github.com/retroenv/ihexgoedit/internal/options"
	"github.com/retroenv/ihexgoedit/internal/region"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the input file and the decoded image.
func PrintInfo(logger *log.Logger, opts options.Program, img *memory.Image, regions region.Table) {
	if opts.Quiet {
		return
	}

	addresses := img.Addresses()
	if len(addresses) == 0 {
		logger.Info("Processing Intel HEX file",
			log.String("file", opts.Input),
			log.Int("bytes", 0),
		)
		return
	}

	logger.Info("Processing Intel HEX file",
		log.String("file", opts.Input),
		log.Int("bytes", img.Len()),
		log.Hex("first", addresses[0]),
		log.Hex("last", addresses[len(addresses)-1]),
		log.Int("banks", countBanks(addresses)),
	)

	printRegionUsage(logger, regions, addresses)
}

// countBanks returns the number of distinct 64 KiB banks that hold data.
func countBanks(addresses []uint32) int {
	banks := 0
	var lastBank uint32
	for i, address := range addresses {
		bank := address >> 16
		if i == 0 || bank != lastBank {
			banks++
			lastBank = bank
		}
	}
	return banks
}

// printRegionUsage logs the byte count of every populated memory region.
func printRegionUsage(logger *log.Logger, regions region.Table, addresses []uint32) {
	counts := make(map[string]int, len(regions))
	unclassified := 0

	for _, address := range addresses {
		reg, ok := regions.Lookup(address)
		if !ok {
			unclassified++
			continue
		}
		counts[reg.ID]++
	}

	for _, reg := range regions {
		count := counts[reg.ID]
		if count == 0 {
			continue
		}
		logger.Info("Region usage",
			log.String("region", reg.Label),
			log.Int("bytes", count),
		)
	}

	if unclassified > 0 {
		logger.Info("Region usage",
			log.String("region", region.Unclassified),
			log.Int("bytes", unclassified),
		)
	}
}
