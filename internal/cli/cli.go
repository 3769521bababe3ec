// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/ihexgoedit/internal/dump"
	"github.com/retroenv/ihexgoedit/internal/options"
	"github.com/retroenv/ihexgoedit/internal/session"
)

// ParseFlags parses command line flags and returns program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	var patches, addressRange string
	readOptionFlags(flags, &opts, &patches, &addressRange)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	if err := parsePatches(patches, &opts); err != nil {
		return opts, err
	}
	if err := parseRange(addressRange, &opts); err != nil {
		return opts, err
	}
	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("error: %s\n\n", e.msg)
	}
	fmt.Printf("usage: ihexgoedit [options] <file to inspect>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to inspect, please pass the file to inspect as last argument", arg),
			}
		}
	}
	return nil
}

// parsePatches parses the -patch flag value into word edits
func parsePatches(value string, opts *options.Program) error {
	if value == "" {
		return nil
	}

	for _, part := range strings.Split(value, ",") {
		address, editValue, found := strings.Cut(part, "=")
		if !found {
			return &UsageError{
				msg: fmt.Sprintf("invalid patch %s, expected format ADDRESS=VALUE", part),
			}
		}

		parsedAddress, err := session.ParseHexAddress(address)
		if err != nil {
			return &UsageError{
				msg: fmt.Sprintf("invalid patch address %s", address),
			}
		}

		editValue = strings.TrimSpace(editValue)
		if _, err := session.ParseWordValue(editValue); err != nil {
			return &UsageError{
				msg: fmt.Sprintf("invalid patch value %s, expected 8 hex digits", editValue),
			}
		}

		opts.Patches = append(opts.Patches, options.Patch{
			Address: parsedAddress,
			Value:   strings.ToUpper(editValue),
		})
	}
	return nil
}

// parseRange parses the -range flag value, an empty value selects the
// full address space
func parseRange(value string, opts *options.Program) error {
	opts.Range = dump.Full()
	if value == "" {
		return nil
	}

	first, last, found := strings.Cut(value, ":")
	if !found {
		return &UsageError{
			msg: fmt.Sprintf("invalid range %s, expected format FIRST:LAST", value),
		}
	}

	firstAddress, err := session.ParseHexAddress(first)
	if err != nil {
		return &UsageError{
			msg: fmt.Sprintf("invalid range start %s", first),
		}
	}
	lastAddress, err := session.ParseHexAddress(last)
	if err != nil {
		return &UsageError{
			msg: fmt.Sprintf("invalid range end %s", last),
		}
	}
	if firstAddress > lastAddress {
		return &UsageError{
			msg: fmt.Sprintf("invalid range %s, start is past end", value),
		}
	}

	opts.Range = dump.Range{First: firstAddress, Last: lastAddress}
	return nil
}

// validateOptionCombinations checks for mode flags that exclude each other
func validateOptionCombinations(opts options.Program) error {
	if opts.View && opts.Watch {
		return &UsageError{msg: "the view and watch modes can not be combined"}
	}
	if opts.View && len(opts.Patches) > 0 {
		return &UsageError{msg: "patches can not be combined with the viewer, edit interactively instead"}
	}
	if opts.Watch && len(opts.Patches) > 0 {
		return &UsageError{msg: "patches can not be combined with watch mode"}
	}
	if opts.Watch && opts.Normalize {
		return &UsageError{msg: "normalize can not be combined with watch mode"}
	}
	if opts.View && opts.Normalize {
		return &UsageError{msg: "normalize can not be combined with the viewer, use its normalize command instead"}
	}
	if opts.Verify && (opts.View || opts.Watch) {
		return &UsageError{msg: "verify only applies when processing the file once"}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, patches, addressRange *string) {
	flags.StringVar(&opts.Input, "i", "", "name of the input .hex file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(patches, "patch", "", "word edits to apply, format ADDRESS=VALUE[,ADDRESS=VALUE] with 8 hex digit values")
	flags.StringVar(addressRange, "range", "", "restrict the dump to the inclusive address range FIRST:LAST")
	flags.BoolVar(&opts.Normalize, "normalize", false, "rewrite the file using canonical records, in place or to the output file")
	flags.BoolVar(&opts.Watch, "watch", false, "keep running and redump the file whenever it changes on disk")
	flags.BoolVar(&opts.View, "view", false, "open the interactive viewer")
	flags.BoolVar(&opts.Force, "force", false, "process files with an unrecognized extension")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the emitted records with an independent parser and check that they match the image")

	readOutputOptionFlags(flags, opts)
}

func readOutputOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.NoASCII, "noascii", false, "do not output the ASCII sidebar")
	flags.BoolVar(&opts.NoRegions, "noregions", false, "do not output memory region labels")
}
