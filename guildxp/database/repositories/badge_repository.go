package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

type BadgeRepository interface {
	ListActive(ctx context.Context) ([]*models.Badge, error)
	ListEarned(ctx context.Context, userID, groupID string) ([]*models.UserBadge, error)
	CountEarned(ctx context.Context, userID, groupID string) (int, error)
	// Award records the badge for the membership. Awarding an already
	// earned badge is a no-op; awarded is false in that case.
	Award(ctx context.Context, userID, groupID string, badgeID int64) (awarded bool, err error)
}

type badgeRepository struct {
	db *bun.DB
}

func NewBadgeRepository(db *bun.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) ListActive(ctx context.Context) ([]*models.Badge, error) {
	var badges []*models.Badge
	err := r.db.NewSelect().
		Model(&badges).
		Where("is_active = true").
		Order("requirement_type ASC").
		Order("requirement_value ASC").
		Scan(ctx)
	return badges, err
}

func (r *badgeRepository) ListEarned(ctx context.Context, userID, groupID string) ([]*models.UserBadge, error) {
	var earned []*models.UserBadge
	err := r.db.NewSelect().
		Model(&earned).
		Relation("Badge").
		Where("ub.user_id = ?", userID).
		Where("ub.group_id = ?", groupID).
		Order("ub.earned_at ASC").
		Scan(ctx)
	return earned, err
}

func (r *badgeRepository) CountEarned(ctx context.Context, userID, groupID string) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserBadge)(nil)).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Count(ctx)
}

func (r *badgeRepository) Award(ctx context.Context, userID, groupID string, badgeID int64) (bool, error) {
	award := &models.UserBadge{
		UserID:   userID,
		GroupID:  groupID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}

	res, err := r.db.NewInsert().
		Model(award).
		On("CONFLICT (user_id, group_id, badge_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
