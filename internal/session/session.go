// Package session drives the decode, edit and refresh protocol for one
// open document.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/retroenv/ihexgoedit/internal/dump"
	"github.com/retroenv/ihexgoedit/internal/ihex"
	"github.com/retroenv/ihexgoedit/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// ErrEditRejected marks a word edit request that failed validation.
// Rejected edits are inert, the image and the rendered rows stay
// unchanged.
var ErrEditRejected = errors.New("edit rejected")

const (
	defaultDebounce = 150 * time.Millisecond

	requestBuffer = 64
)

// Document is the text document host owning the underlying file.
type Document interface {
	// Text returns the current document text.
	Text() (string, error)
	// Replace replaces the whole document text and persists it.
	Replace(text string) error
}

// Surface receives full row updates for display.
type Surface interface {
	// Update replaces all previously displayed rows.
	Update(rows []dump.Row)
}

// Options configures a session.
type Options struct {
	// Debounce is the quiescence delay before an external change
	// triggers a re-decode. Zero selects the default delay.
	Debounce time.Duration
	// Range restricts projections to an address range. The zero value
	// selects the full address space.
	Range dump.Range
}

// Session owns the decode, project and edit cycle of one open document.
// Each document gets its own session, sessions never share state. All
// state changes happen on the caller's goroutine for the direct methods
// or on the Run goroutine for posted requests.
type Session struct {
	logger  *log.Logger
	doc     Document
	surface Surface
	options Options

	img *memory.Image

	// selfEdit suppresses change notifications while the session is
	// committing its own write, so it does not decode a replacement it
	// caused itself.
	selfEdit atomic.Bool

	requests  chan Request
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session for the given document and surface.
func New(logger *log.Logger, doc Document, surface Surface, options Options) *Session {
	if options.Debounce <= 0 {
		options.Debounce = defaultDebounce
	}
	if options.Range == (dump.Range{}) {
		options.Range = dump.Full()
	}

	return &Session{
		logger:   logger,
		doc:      doc,
		surface:  surface,
		options:  options,
		img:      memory.NewImage(),
		requests: make(chan Request, requestBuffer),
		done:     make(chan struct{}),
	}
}

// Open decodes the current document text and pushes the first projection
// to the surface.
func (s *Session) Open() error {
	return s.refresh()
}

// Image returns the current sparse memory image.
func (s *Session) Image() *memory.Image {
	return s.img
}

// Apply handles a single request to completion. Edit requests mutate,
// reserialize and re-project, change notifications re-decode right away.
// Unknown request kinds are ignored.
func (s *Session) Apply(req Request) error {
	switch r := req.(type) {
	case EditWord:
		return s.editWord(r)
	case ContentChanged:
		return s.refresh()
	case NormalizeDocument:
		return s.commit()
	default:
		s.logger.Debug("Ignoring unknown request")
		return nil
	}
}

// Normalize reserializes the document into canonical form and persists
// it, without changing any byte values.
func (s *Session) Normalize() error {
	return s.commit()
}

// Post submits a request to the running session. Safe to call from other
// goroutines, a no-op once the session is closed.
func (s *Session) Post(req Request) {
	select {
	case s.requests <- req:
	case <-s.done:
	}
}

// NotifyChanged forwards a document change notification to the running
// session. Notifications arriving while the session commits its own
// write are dropped. Safe to call from other goroutines.
func (s *Session) NotifyChanged() {
	if s.selfEdit.Load() {
		s.logger.Debug("Ignoring own document change")
		return
	}
	s.Post(ContentChanged{})
}

// Run processes posted requests until the context is cancelled or the
// session is closed, serializing all state changes onto this goroutine.
// External change notifications are coalesced: a new notification
// replaces the pending one, and only the latest is acted on once the
// debounce delay passed without further changes.
func (s *Session) Run(ctx context.Context) error {
	defer func() { _ = s.Close() }()

	timer := time.NewTimer(s.options.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.done:
			return nil

		case req := <-s.requests:
			switch r := req.(type) {
			case ContentChanged:
				if s.selfEdit.Load() {
					s.logger.Debug("Ignoring own document change")
					continue
				}
				if pending && !timer.Stop() {
					<-timer.C
				}
				timer.Reset(s.options.Debounce)
				pending = true

			case EditWord:
				if err := s.editWord(r); err != nil && !errors.Is(err, ErrEditRejected) {
					return err
				}

			case NormalizeDocument:
				if err := s.commit(); err != nil {
					return err
				}

			default:
				s.logger.Debug("Ignoring unknown request")
			}

		case <-timer.C:
			pending = false
			if err := s.refresh(); err != nil {
				return err
			}
		}
	}
}

// Close releases the session. A pending debounced update is discarded,
// posted requests are dropped from then on. Close is idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// editWord validates and applies a word edit, then commits the
// reserialized document.
func (s *Session) editWord(r EditWord) error {
	address, err := ParseAddress(r.Address)
	if err != nil {
		s.logger.Debug("Rejecting word edit", log.Err(err))
		return err
	}
	word, err := ParseWordValue(r.Value)
	if err != nil {
		s.logger.Debug("Rejecting word edit", log.Err(err))
		return err
	}

	s.logger.Debug("Applying word edit",
		log.Hex("address", address),
		log.String("value", strings.ToUpper(r.Value)))

	s.img.SetWord(address, word)
	return s.commit()
}

// commit serializes the image, replaces the document text and re-derives
// the image from the committed text instead of trusting the in-memory
// edit, so the view always matches what is durably stored. The self edit
// guard stays set until both the replacement and the re-decode finished,
// on all exit paths.
func (s *Session) commit() error {
	text := ihex.Encode(s.img)

	s.selfEdit.Store(true)
	defer s.selfEdit.Store(false)

	if err := s.doc.Replace(text); err != nil {
		return fmt.Errorf("replacing document text: %w", err)
	}
	return s.refresh()
}

// refresh re-decodes the current document text and pushes a full row
// update to the surface.
func (s *Session) refresh() error {
	text, err := s.doc.Text()
	if err != nil {
		return fmt.Errorf("reading document text: %w", err)
	}

	s.img = ihex.Decode(text)
	s.surface.Update(dump.Project(s.img, s.options.Range))
	return nil
}

// ParseWordValue validates an 8 hex digit word value, upper or lower
// case, and returns its bytes in address order.
func ParseWordValue(value string) ([4]byte, error) {
	var word [4]byte
	if len(value) != 8 {
		return word, fmt.Errorf("%w: value %q is not 8 hex digits", ErrEditRejected, value)
	}
	for i := range word {
		b, err := strconv.ParseUint(value[i*2:i*2+2], 16, 8)
		if err != nil {
			return word, fmt.Errorf("%w: value %q is not 8 hex digits", ErrEditRejected, value)
		}
		word[i] = byte(b)
	}
	return word, nil
}

// ParseAddress validates that an edit address is non-negative and fits
// the 32-bit address space.
func ParseAddress(address int64) (uint32, error) {
	if address < 0 || address > math.MaxUint32 {
		return 0, fmt.Errorf("%w: address %d outside the 32-bit address space",
			ErrEditRejected, address)
	}
	return uint32(address), nil
}

// ParseHexAddress parses a textual address in hex notation, accepting an
// optional 0x or $ prefix.
func ParseHexAddress(text string) (uint32, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "0x"), strings.HasPrefix(trimmed, "0X"):
		trimmed = trimmed[2:]
	case strings.HasPrefix(trimmed, "$"):
		trimmed = trimmed[1:]
	}

	address, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing address %q: %w", text, err)
	}
	return uint32(address), nil
}
