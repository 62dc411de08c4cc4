package utils

import (
	"github.com/google/uuid"
)

// MaxRequestIDLength bounds client supplied request ids
const MaxRequestIDLength = 64

var newUUIDv7 = uuid.NewV7

// NewID returns a time-ordered UUID v7, or a random v4 if the clock source fails
func NewID() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// RequestID returns header when it is usable as a request id, or a fresh id.
// Ids are echoed into logs and response headers, so only printable ASCII is kept.
func RequestID(header string) string {
	if header == "" || len(header) > MaxRequestIDLength {
		return NewID().String()
	}
	for i := 0; i < len(header); i++ {
		if header[i] < 0x21 || header[i] > 0x7e {
			return NewID().String()
		}
	}
	return header
}
