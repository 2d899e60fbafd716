package domain

import "fmt"

// ValidationError aborts an operation before any network or storage write.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid ticket: " + e.Reason
}

// ConfigurationError means no remote endpoint is configured.
type ConfigurationError struct {
	Message string
}

func (e ConfigurationError) Error() string {
	return e.Message
}

// TransportError wraps a network-level failure talking to the remote
// endpoint.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("remote endpoint unreachable: %v", e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError means the remote response was not a valid envelope.
type ProtocolError struct {
	Message string
}

func (e ProtocolError) Error() string {
	return "malformed remote response: " + e.Message
}

// RemoteOperationError carries the error field of a success=false envelope.
type RemoteOperationError struct {
	Operation string
	Message   string
}

func (e RemoteOperationError) Error() string {
	return fmt.Sprintf("remote operation %q failed: %s", e.Operation, e.Message)
}

type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("ticket %q not found", e.ID)
}

// ConflictError rejects a second booking attempt on an already
// booked ticket.
type ConflictError struct {
	ID string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("ticket %q is already booked", e.ID)
}
