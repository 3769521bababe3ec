// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/ihexgoedit/internal/app"
	"github.com/retroenv/ihexgoedit/internal/detector"
	"github.com/retroenv/ihexgoedit/internal/dump"
	"github.com/retroenv/ihexgoedit/internal/host"
	"github.com/retroenv/ihexgoedit/internal/ihex"
	"github.com/retroenv/ihexgoedit/internal/options"
	"github.com/retroenv/ihexgoedit/internal/region"
	"github.com/retroenv/ihexgoedit/internal/session"
	"github.com/retroenv/ihexgoedit/internal/verification"
	"github.com/retroenv/ihexgoedit/internal/viewer"
	"github.com/retroenv/ihexgoedit/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Process handles the complete file processing workflow for the mode
// selected by the program options.
func Process(ctx context.Context, logger *log.Logger, opts options.Program) error {
	if err := checkFileFormat(logger, opts); err != nil {
		return err
	}

	switch {
	case opts.View:
		return runViewer(ctx, logger, opts)
	case opts.Watch:
		return runWatch(ctx, logger, opts)
	default:
		return runOnce(logger, opts)
	}
}

// checkFileFormat ensures the input file looks like an Intel HEX file,
// unrecognized extensions need the force option.
func checkFileFormat(logger *log.Logger, opts options.Program) error {
	format := detector.New(logger).Detect(opts.Input)
	if format == detector.IntelHex || opts.Force {
		return nil
	}
	return fmt.Errorf("unrecognized file extension '%s', use -force to process the file anyway",
		filepath.Ext(opts.Input))
}

// runOnce decodes the file, applies the requested operations and writes
// a single dump listing.
func runOnce(logger *log.Logger, opts options.Program) error {
	doc := host.NewFile(opts.Input)
	surface := &captureSurface{}
	sess := session.New(logger, doc, surface, session.Options{Range: opts.Range})

	if err := sess.Open(); err != nil {
		return fmt.Errorf("opening document: %w", err)
	}

	regions := region.DefaultTable()
	app.PrintInfo(logger, opts, sess.Image(), regions)

	for _, patch := range opts.Patches {
		err := sess.Apply(session.EditWord{Address: int64(patch.Address), Value: patch.Value})
		if err != nil {
			return fmt.Errorf("applying patch at %08X: %w", patch.Address, err)
		}
	}

	if opts.Normalize {
		if err := normalizeDocument(logger, opts, sess); err != nil {
			return err
		}
	}

	if opts.Verify {
		img := sess.Image()
		if err := verification.VerifyText(logger, ihex.Encode(img), img); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	if opts.Normalize && opts.Output != "" {
		// the normalized document is the output, no listing
		return nil
	}
	return writeDump(opts, regions, surface.Rows())
}

// normalizeDocument persists the canonical serialization of the image,
// in place or to the output file when one is given.
func normalizeDocument(logger *log.Logger, opts options.Program, sess *session.Session) error {
	if opts.Output == "" {
		if err := sess.Normalize(); err != nil {
			return fmt.Errorf("normalizing document: %w", err)
		}
		logger.Info("Document normalized", log.String("file", opts.Input))
		return nil
	}

	text := ihex.Encode(sess.Image())
	if err := host.NewFile(opts.Output).Replace(text); err != nil {
		return fmt.Errorf("writing normalized document: %w", err)
	}
	logger.Info("Document normalized", log.String("file", opts.Output))
	return nil
}

// runWatch keeps the session running and rewrites the dump listing
// whenever the file changes on disk.
func runWatch(ctx context.Context, logger *log.Logger, opts options.Program) error {
	doc := host.NewFile(opts.Input)
	surface := newPrintSurface(logger, opts)
	sess := session.New(logger, doc, surface, session.Options{Range: opts.Range})

	if err := sess.Open(); err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	app.PrintInfo(logger, opts, sess.Image(), region.DefaultTable())

	watcher, err := host.NewWatcher(logger, doc.Path(), sess.NotifyChanged)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}

	return runUntilFirstError(ctx,
		watcher.Run,
		sess.Run,
	)
}

// runViewer opens the interactive viewer on the file, tracking external
// changes while it is open.
func runViewer(ctx context.Context, logger *log.Logger, opts options.Program) error {
	doc := host.NewFile(opts.Input)

	view, err := viewer.New(logger, region.DefaultTable(), viewer.Options{
		ShowASCII:   !opts.NoASCII,
		ShowRegions: !opts.NoRegions,
		Title:       filepath.Base(opts.Input),
	})
	if err != nil {
		return fmt.Errorf("creating viewer: %w", err)
	}

	sess := session.New(logger, doc, view, session.Options{Range: opts.Range})
	view.SetController(sess)

	if err := sess.Open(); err != nil {
		return fmt.Errorf("opening document: %w", err)
	}

	watcher, err := host.NewWatcher(logger, doc.Path(), sess.NotifyChanged)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}

	return runUntilFirstError(ctx,
		watcher.Run,
		sess.Run,
		view.Run,
	)
}

// runUntilFirstError runs all tasks concurrently and stops the remaining
// ones as soon as the first task returns.
func runUntilFirstError(ctx context.Context, tasks ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, len(tasks))
	for _, task := range tasks {
		go func(task func(context.Context) error) {
			errc <- task(ctx)
		}(task)
	}

	err := <-errc
	cancel()
	for i := 1; i < len(tasks); i++ {
		if taskErr := <-errc; err == nil {
			err = taskErr
		}
	}
	return err
}

// writeDump writes the dump listing to the output file, or to the
// console if no output file name is given.
func writeDump(opts options.Program, regions region.Table, rows []dump.Row) error {
	writerOptions := writer.Options{
		ShowRegions: !opts.NoRegions,
		ShowASCII:   !opts.NoASCII,
	}

	if opts.Output == "" {
		return writer.New(regions, os.Stdout, writerOptions).WriteRows(rows)
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	defer func() { _ = file.Close() }()

	if err := writer.New(regions, file, writerOptions).WriteRows(rows); err != nil {
		return fmt.Errorf("writing dump: %w", err)
	}
	return nil
}

// captureSurface keeps the latest projected rows for a single dump.
type captureSurface struct {
	rows []dump.Row
}

func (c *captureSurface) Update(rows []dump.Row) {
	c.rows = rows
}

func (c *captureSurface) Rows() []dump.Row {
	return c.rows
}

// printSurface writes a fresh dump listing for every projection update.
type printSurface struct {
	logger  *log.Logger
	opts    options.Program
	regions region.Table

	printed bool
}

func newPrintSurface(logger *log.Logger, opts options.Program) *printSurface {
	return &printSurface{
		logger:  logger,
		opts:    opts,
		regions: region.DefaultTable(),
	}
}

func (p *printSurface) Update(rows []dump.Row) {
	if p.printed && p.opts.Output == "" {
		fmt.Println()
	}
	p.printed = true

	if err := writeDump(p.opts, p.regions, rows); err != nil {
		p.logger.Error("Writing dump", log.Err(err))
	}
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("ihexgoedit", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
