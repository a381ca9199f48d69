package outbox

import (
	"context"

	"postflow/internal/core/outbox"
)

type OutboxRepository interface {
	GetPending(ctx context.Context, limit int) ([]*outbox.Message, error)
	MarkDone(ctx context.Context, id string) error
	// RecordFailure bumps the attempt counter and marks the message failed once maxAttempts is reached.
	RecordFailure(ctx context.Context, id string, maxAttempts int) error
}

// EventPublisher delivers relayed events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
