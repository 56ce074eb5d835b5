// Package sagalog records every state transition of a place-order saga.
//
// Rows are append-only: the latest row for a saga ID is its current state,
// and the full history shows which reservations were taken, which
// compensations ran and which of them failed. Failed compensations are the
// input for offline stock reconciliation.
package sagalog

import (
	"errors"
	"time"
)

// Status is a state of the place-order state machine.
type Status string

const (
	StatusReserving     Status = "RESERVING"
	StatusCreatingOrder Status = "CREATING_ORDER"
	StatusNotifying     Status = "NOTIFYING"
	StatusDone          Status = "DONE"
	StatusCompensating  Status = "COMPENSATING"
	StatusFailed        Status = "FAILED"
)

// Terminal reports whether no further transitions can follow s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// ErrNotFound is returned by readers when no row exists for a saga ID.
var ErrNotFound = errors.New("saga not found")

// SagaLog is a single row in the saga_logs table.
type SagaLog struct {
	// SagaID identifies one place-order attempt.
	SagaID string

	Status Status

	// CurrentStep is the step that was entered, completed or failed.
	CurrentStep string

	// Payload is the JSON request that started the saga. Only set on the
	// first row.
	Payload string

	// ErrorMessages is a JSON array of failure details, including
	// compensations that could not be applied.
	ErrorMessages string

	// TraceID and SpanID link the row to the distributed trace.
	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
