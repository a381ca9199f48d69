package workers

import (
	"context"
	"time"

	"postflow/internal/core/outbox"
	outboxPort "postflow/internal/ports/outbox"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const (
	SubjectPrefix      = "posts"
	defaultMaxAttempts = 5
)

// OutboxWorker relays pending outbox rows to the message bus in sequence order.
type OutboxWorker struct {
	OutboxRepo   outboxPort.OutboxRepository
	Publisher    outboxPort.EventPublisher
	BatchSize    int
	PollInterval time.Duration
	MaxAttempts  int // a message is marked failed after this many publish errors
	Logger       *zap.Logger
}

func NewOutboxWorker(
	outboxRepo outboxPort.OutboxRepository,
	publisher outboxPort.EventPublisher,
	batchSize int,
	pollInterval time.Duration,
	logger *zap.Logger,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &OutboxWorker{
		OutboxRepo:   outboxRepo,
		Publisher:    publisher,
		BatchSize:    batchSize,
		PollInterval: pollInterval,
		MaxAttempts:  defaultMaxAttempts,
		Logger:       logger,
	}
}

// Run polls until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 OutboxWorker started", zap.Int("batch", w.BatchSize), zap.Duration("interval", w.PollInterval))
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		// keep draining while whole batches go out; failures wait for the next tick
		for {
			n, err := w.ProcessBatch(ctx)
			if err != nil {
				w.Logger.Error("❌ Error fetching pending outbox messages", zap.Error(err))
				break
			}
			if n < w.BatchSize || ctx.Err() != nil {
				break
			}
		}

		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 Outbox worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessBatch publishes one batch of pending messages and returns how many were published.
// Once a message of a post fails, the post's later messages wait for the next batch.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	pending, err := w.OutboxRepo.GetPending(ctx, w.BatchSize)
	if err != nil {
		return 0, err
	}
	published := 0
	blocked := make(map[uuid.UUID]bool)
	for _, m := range pending {
		if ctx.Err() != nil {
			break
		}
		if blocked[m.PostID] {
			continue
		}
		if w.relay(ctx, m) {
			published++
		} else {
			blocked[m.PostID] = true
		}
	}
	return published, nil
}

func (w *OutboxWorker) relay(ctx context.Context, m *outbox.Message) bool {
	subject := Subject(m.Type)
	if err := w.Publisher.Publish(ctx, subject, []byte(m.Payload)); err != nil {
		w.Logger.Warn("⚠️ Could not publish outbox message", zap.String("ID", m.ID.String()), zap.Int("Attempts", m.Attempts+1), zap.Error(err))
		if err := w.OutboxRepo.RecordFailure(ctx, m.ID.String(), w.MaxAttempts); err != nil {
			w.Logger.Error("❌ Could not record outbox failure", zap.String("ID", m.ID.String()), zap.Error(err))
		}
		return false
	}

	if err := w.OutboxRepo.MarkDone(ctx, m.ID.String()); err != nil {
		w.Logger.Warn("⚠️ Could not mark outbox message done", zap.String("ID", m.ID.String()), zap.Error(err))
		return false
	}
	w.Logger.Debug("✅ Outbox message relayed", zap.String("ID", m.ID.String()), zap.String("Subject", subject))
	return true
}

// Subject maps an event type onto its bus subject, e.g. posts.post.status_changed.
func Subject(eventType string) string {
	return SubjectPrefix + "." + eventType
}
