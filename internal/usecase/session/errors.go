package session

import (
	"errors"
	"fmt"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/protocol"
)

// Transport operations reported by TransportError.
const (
	OpDial    = "dial"
	OpSend    = "send"
	OpReceive = "receive"
)

var (
	// ErrNoData is returned when the server closed the stream before a full
	// record was delivered.
	ErrNoData = errors.New("connection closed without data")

	// ErrSequenceOutOfRange is returned for a resend request whose sequence
	// does not fit the one-byte request parameter.
	ErrSequenceOutOfRange = errors.New("sequence out of resend range")

	// ErrUnexpectedSequence is returned when a resend answer carries a
	// different sequence than the one requested.
	ErrUnexpectedSequence = errors.New("unexpected sequence in resend answer")
)

// TransportError wraps a failure of the underlying connection.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// CorruptRecordError reports a record that failed validation. It is fatal
// for the whole run.
type CorruptRecordError struct {
	Tick      tickv1.Tick
	Violation protocol.Violation
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record (sequence %d): %s", e.Tick.Sequence, e.Violation.Error())
}

// Unwrap exposes the violation so callers can match it with errors.Is.
func (e *CorruptRecordError) Unwrap() error {
	return e.Violation
}

// IsFatal reports whether err must stop the run instead of being retried.
func IsFatal(err error) bool {
	var corrupt *CorruptRecordError
	return errors.As(err, &corrupt) || errors.Is(err, ErrSequenceOutOfRange)
}
