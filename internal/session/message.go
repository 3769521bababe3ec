package session

// Request is a message sent to a session by the presentation surface or
// the document host. The set of implementations is closed, the session
// ignores any request kind it does not recognize instead of trusting its
// shape.
type Request interface {
	request()
}

// EditWord asks the session to overwrite the 4 bytes of one 32-bit word.
// Value must be exactly 8 hex digits, Address must be non-negative and
// fit the 32-bit address space. Requests failing validation are dropped
// without mutating the image or re-rendering.
type EditWord struct {
	Address int64
	Value   string
}

// ContentChanged notifies the session that the document text changed
// outside of its own edits.
type ContentChanged struct{}

// NormalizeDocument asks the session to reserialize the document into
// canonical form without changing any byte values.
type NormalizeDocument struct{}

func (EditWord) request()          {}
func (ContentChanged) request()    {}
func (NormalizeDocument) request() {}
