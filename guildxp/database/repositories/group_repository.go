package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

type GroupRepository interface {
	Upsert(ctx context.Context, group *models.Group) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.Group, error)
}

type groupRepository struct {
	db *bun.DB
}

func NewGroupRepository(db *bun.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Upsert(ctx context.Context, group *models.Group) error {
	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(group).
		On("CONFLICT (discord_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *groupRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.Group, error) {
	group := new(models.Group)
	err := r.db.NewSelect().
		Model(group).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return group, nil
}
