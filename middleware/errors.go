package middleware

import "errors"

var (
	// ErrInvalidMessage is returned by Send and Broadcast when a message does
	// not match the JSON Schema registered for its channel.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrMuted is returned by Send and Broadcast on a radio tuned with
	// "muted": true.
	ErrMuted = errors.New("radio is muted")
)
