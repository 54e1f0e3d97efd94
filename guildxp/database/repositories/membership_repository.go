package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

type MembershipRepository interface {
	Get(ctx context.Context, userID, groupID string) (*models.Membership, error)
	GetOrCreate(ctx context.Context, userID, groupID string) (*models.Membership, error)
	// AddMessageStats applies one rewarded message: xp/coins/message
	// count and both timestamps in a single atomic increment.
	AddMessageStats(ctx context.Context, userID, groupID string, xp, coins int64) error
	// AddStats is the admin-grant variant: xp/coins only, no message
	// bookkeeping.
	AddStats(ctx context.Context, userID, groupID string, xp, coins int64) error
	SetLevel(ctx context.Context, userID, groupID string, levelID int64) error
	SetClan(ctx context.Context, userID, groupID string, clanID int64) error
	ClearClan(ctx context.Context, userID, groupID string) error
	ClearClanForAll(ctx context.Context, clanID int64) error
	Reset(ctx context.Context, userID, groupID string) error
	GetTopByXP(ctx context.Context, groupID string, limit, offset int) ([]*models.Membership, error)
	CountByGroup(ctx context.Context, groupID string) (int, error)
	ListByClan(ctx context.Context, clanID int64) ([]*models.Membership, error)
}

type membershipRepository struct {
	db *bun.DB
}

func NewMembershipRepository(db *bun.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Get(ctx context.Context, userID, groupID string) (*models.Membership, error) {
	membership := new(models.Membership)
	err := r.db.NewSelect().
		Model(membership).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Scan(ctx)

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("Database error when getting membership",
				slog.String("type", "db"),
				slog.String("operation", "Get"),
				slog.String("user_id", userID),
				slog.String("group_id", groupID),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	return membership, nil
}

func (r *membershipRepository) GetOrCreate(ctx context.Context, userID, groupID string) (*models.Membership, error) {
	membership := &models.Membership{
		UserID:    userID,
		GroupID:   groupID,
		LevelID:   1,
		IsActive:  true,
		JoinedAt:  time.Now(),
		UpdatedAt: time.Now(),
	}

	// Lazy creation on first interaction; a concurrent insert for the
	// same pair is absorbed by the unique key.
	_, err := r.db.NewInsert().
		Model(membership).
		On("CONFLICT (user_id, group_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, userID, groupID)
}

func (r *membershipRepository) AddMessageStats(ctx context.Context, userID, groupID string, xp, coins int64) error {
	now := time.Now()
	_, err := r.db.NewUpdate().
		Model((*models.Membership)(nil)).
		Set("xp = xp + ?", xp).
		Set("coins = coins + ?", coins).
		Set("total_messages = total_messages + 1").
		Set("last_message_at = ?", now).
		Set("last_xp_gain = ?", now).
		Set("updated_at = ?", now).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Exec(ctx)
	return err
}

func (r *membershipRepository) AddStats(ctx context.Context, userID, groupID string, xp, coins int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Membership)(nil)).
		Set("xp = xp + ?", xp).
		Set("coins = coins + ?", coins).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Exec(ctx)
	return err
}

func (r *membershipRepository) SetLevel(ctx context.Context, userID, groupID string, levelID int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Membership)(nil)).
		Set("level_id = ?", levelID).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Exec(ctx)
	return err
}

func (r *membershipRepository) SetClan(ctx context.Context, userID, groupID string, clanID int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Membership)(nil)).
		Set("clan_id = ?", clanID).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Exec(ctx)
	return err
}

func (r *membershipRepository) ClearClan(ctx context.Context, userID, groupID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.Membership)(nil)).
		Set("clan_id = NULL").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Exec(ctx)
	return err
}

func (r *membershipRepository) ClearClanForAll(ctx context.Context, clanID int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Membership)(nil)).
		Set("clan_id = NULL").
		Set("updated_at = ?", time.Now()).
		Where("clan_id = ?", clanID).
		Exec(ctx)
	return err
}

// Reset zeroes a membership back to its initial state. Earned badges
// and quest history are deliberately left in place.
func (r *membershipRepository) Reset(ctx context.Context, userID, groupID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.Membership)(nil)).
		Set("xp = 0").
		Set("coins = 0").
		Set("level_id = 1").
		Set("total_messages = 0").
		Set("last_xp_gain = NULL").
		Set("clan_id = NULL").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Exec(ctx)
	return err
}

func (r *membershipRepository) GetTopByXP(ctx context.Context, groupID string, limit, offset int) ([]*models.Membership, error) {
	var memberships []*models.Membership
	err := r.db.NewSelect().
		Model(&memberships).
		Where("group_id = ?", groupID).
		Order("xp DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	return memberships, err
}

func (r *membershipRepository) CountByGroup(ctx context.Context, groupID string) (int, error) {
	return r.db.NewSelect().
		Model((*models.Membership)(nil)).
		Where("group_id = ?", groupID).
		Count(ctx)
}

func (r *membershipRepository) ListByClan(ctx context.Context, clanID int64) ([]*models.Membership, error) {
	var memberships []*models.Membership
	err := r.db.NewSelect().
		Model(&memberships).
		Where("clan_id = ?", clanID).
		Order("xp DESC").
		Scan(ctx)
	return memberships, err
}
