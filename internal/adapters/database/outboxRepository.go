package database

import (
	"context"
	"time"

	"postflow/internal/core/outbox"

	"gorm.io/gorm"
)

type OutboxRepositoryDatabase struct {
	db *gorm.DB
}

func NewOutboxRepositoryDatabase(db *gorm.DB) *OutboxRepositoryDatabase {
	return &OutboxRepositoryDatabase{db: db}
}

func (repo *OutboxRepositoryDatabase) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	var messages []*outbox.Message
	if err := repo.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("seq ASC").
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (repo *OutboxRepositoryDatabase) MarkDone(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Model(&outbox.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": outbox.StatusDone, "processed_at": time.Now()}).Error
}

func (repo *OutboxRepositoryDatabase) RecordFailure(ctx context.Context, id string, maxAttempts int) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m outbox.Message
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		cols := map[string]interface{}{"attempts": m.Attempts + 1}
		if m.Attempts+1 >= maxAttempts {
			cols["status"] = outbox.StatusFailed
			cols["processed_at"] = time.Now()
		}
		return tx.Model(&outbox.Message{}).Where("id = ?", id).Updates(cols).Error
	})
}
