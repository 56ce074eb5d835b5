package sagalog

import "context"

// Repository persists saga log entries. The coordinator only writes.
type Repository interface {
	// Save appends a new row; it never updates an existing one.
	Save(ctx context.Context, entry *SagaLog) error
}

// Reader serves the saga status endpoint.
type Reader interface {
	GetLatest(ctx context.Context, sagaID string) (*SagaLog, error)
	History(ctx context.Context, sagaID string) ([]SagaLog, error)
}
