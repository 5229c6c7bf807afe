package rpc

import "fmt"

// ErrorKind classifies a failed call so that policies layered on top of
// this client (retrying, alerting) can decide what to do with it.
//
type ErrorKind string

const (
	// ErrorKindTransport covers network-level failures: connection
	// refused, timeouts, connections dropped mid-flight.
	//
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindProtocol covers responses that came back but could not
	// be used: non-json bodies, json-rpc error objects (e.g., a node
	// still warming up), results that don't match the expected schema.
	//
	ErrorKindProtocol ErrorKind = "protocol"

	// ErrorKindAuth means the node rejected our credentials. Every
	// subsequent call will fail the same way, so this one is not
	// retryable.
	//
	ErrorKindAuth ErrorKind = "auth"
)

// Error is the uniform error signal emitted by `Client.Call`.
//
type Error struct {
	Kind   ErrorKind
	Method string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %s", e.Method, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether submitting the same call again could
// plausibly succeed.
//
func (e *Error) Retryable() bool {
	return e.Kind != ErrorKindAuth
}
