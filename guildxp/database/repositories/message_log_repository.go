package repositories

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

type MessageLogRepository interface {
	Insert(ctx context.Context, log *models.MessageLog) error
}

type messageLogRepository struct {
	db *bun.DB
}

func NewMessageLogRepository(db *bun.DB) MessageLogRepository {
	return &messageLogRepository{db: db}
}

func (r *messageLogRepository) Insert(ctx context.Context, log *models.MessageLog) error {
	_, err := r.db.NewInsert().
		Model(log).
		Exec(ctx)
	return err
}
