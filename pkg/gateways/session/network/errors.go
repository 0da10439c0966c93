package network

import "github.com/pkg/errors"

var (
	// ErrConnection means the broker is unreachable, rejected the client or dropped it.
	ErrConnection = errors.New("broker connection error")
	// ErrPublishTimeout means a confirmed publish was not acknowledged within its deadline.
	ErrPublishTimeout = errors.New("publish not acknowledged in time")
	// ErrMalformedPayload means an inbound payload could not be decoded or lacks a required field.
	ErrMalformedPayload = errors.New("malformed payload")
	ErrNotConnected     = errors.New("not connected")
)
