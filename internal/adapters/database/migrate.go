package database

import (
	"postflow/internal/core/client"
	"postflow/internal/core/file"
	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
	"postflow/internal/core/review"
	"postflow/internal/core/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const backfillBatchSize = 200

// legacy board values that may still sit in old rows
var legacyStatuses = []string{"concluido", "em_progresso"}

// Migrate creates the tables, rewrites legacy statuses and fills the stage columns.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&user.User{},
		&client.Client{},
		&post.Post{},
		&review.Review{},
		&file.File{},
		&outbox.Message{},
	); err != nil {
		return err
	}
	logger.Info("✅ Database migrations completed")

	for _, legacy := range legacyStatuses {
		st, err := post.ParseStatus(legacy)
		if err != nil {
			return err
		}
		stages := post.DeriveStages(string(st))
		res := db.Model(&post.Post{}).Where("status = ?", legacy).UpdateColumns(map[string]interface{}{
			"status":         st,
			"theme_status":   stages.Theme,
			"content_status": stages.Content,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			logger.Info("normalized legacy statuses", zap.String("from", legacy), zap.String("to", string(st)), zap.Int64("rows", res.RowsAffected))
		}
	}

	return BackfillStages(db, logger)
}

// BackfillStages writes theme_status and content_status for rows created before the columns existed.
func BackfillStages(db *gorm.DB, logger *zap.Logger) error {
	var batch []*post.Post
	updated := 0
	res := db.Where("theme_status IS NULL OR theme_status = '' OR content_status IS NULL OR content_status = ''").
		FindInBatches(&batch, backfillBatchSize, func(tx *gorm.DB, _ int) error {
			for _, p := range batch {
				stages := post.DeriveStages(string(p.Status))
				if err := tx.Model(&post.Post{}).Where("id = ?", p.ID).UpdateColumns(map[string]interface{}{
					"theme_status":   stages.Theme,
					"content_status": stages.Content,
				}).Error; err != nil {
					return err
				}
				updated++
			}
			return nil
		})
	if res.Error != nil {
		return res.Error
	}
	if updated > 0 {
		logger.Info("backfilled post stages", zap.Int("rows", updated))
	}
	return nil
}
