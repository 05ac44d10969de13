package proto

import "errors"

var (
	// ErrFraming reports a malformed or truncated length-prefixed envelope.
	// The connection must be treated as closed, not retried.
	ErrFraming = errors.New("malformed or truncated frame")

	// ErrProtocol reports a payload that does not parse as a known message.
	ErrProtocol = errors.New("invalid protocol payload")
)
