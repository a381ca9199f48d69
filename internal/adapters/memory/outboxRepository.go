package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"postflow/internal/core/outbox"
)

var errMessageNotFound = errors.New("outbox message not found")

type OutboxRepository struct {
	store *Store
	now   func() time.Time
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store, now: time.Now}
}

// GetPending returns pending messages by sequence.
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*outbox.Message
	for _, m := range r.store.outbox {
		if m.Status != outbox.StatusPending {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepository) MarkDone(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m := r.find(id)
	if m == nil {
		return errMessageNotFound
	}
	now := r.now()
	m.Status = outbox.StatusDone
	m.ProcessedAt = &now
	return nil
}

func (r *OutboxRepository) RecordFailure(ctx context.Context, id string, maxAttempts int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m := r.find(id)
	if m == nil {
		return errMessageNotFound
	}
	m.Attempts++
	if m.Attempts >= maxAttempts {
		now := r.now()
		m.Status = outbox.StatusFailed
		m.ProcessedAt = &now
	}
	return nil
}

// All returns a snapshot of every message regardless of status.
func (r *OutboxRepository) All() []*outbox.Message {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*outbox.Message, 0, len(r.store.outbox))
	for _, m := range r.store.outbox {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

func (r *OutboxRepository) find(id string) *outbox.Message {
	for _, m := range r.store.outbox {
		if m.ID.String() == id {
			return m
		}
	}
	return nil
}
