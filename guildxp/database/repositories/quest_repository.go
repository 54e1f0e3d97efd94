package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

type QuestRepository interface {
	ListForDate(ctx context.Context, userID, groupID, questDate string) ([]*models.DailyQuest, error)
	// CreateIfAbsent inserts the day's quest set only when no row
	// exists yet for the membership and date. A partial set from a
	// previous run is left untouched.
	CreateIfAbsent(ctx context.Context, quests []*models.DailyQuest) error
	// AddProgress increments an incomplete quest and flips it to
	// completed in the same statement when the target is reached.
	// completed_at is written only at the transition.
	AddProgress(ctx context.Context, userID, groupID, questType, questDate string, amount int64) error
	GetCompleted(ctx context.Context, userID, groupID, questDate string) ([]*models.DailyQuest, error)
}

type questRepository struct {
	db *bun.DB
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) ListForDate(ctx context.Context, userID, groupID, questDate string) ([]*models.DailyQuest, error) {
	var quests []*models.DailyQuest
	err := r.db.NewSelect().
		Model(&quests).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Where("quest_date = ?", questDate).
		Order("quest_type ASC").
		Scan(ctx)
	return quests, err
}

func (r *questRepository) CreateIfAbsent(ctx context.Context, quests []*models.DailyQuest) error {
	if len(quests) == 0 {
		return nil
	}

	count, err := r.db.NewSelect().
		Model((*models.DailyQuest)(nil)).
		Where("user_id = ?", quests[0].UserID).
		Where("group_id = ?", quests[0].GroupID).
		Where("quest_date = ?", quests[0].QuestDate).
		Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// The unique key absorbs a concurrent generation of the same set.
	_, err = r.db.NewInsert().
		Model(&quests).
		On("CONFLICT (user_id, group_id, quest_type, quest_date) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *questRepository) AddProgress(ctx context.Context, userID, groupID, questType, questDate string, amount int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.DailyQuest)(nil)).
		Set("current_progress = current_progress + ?", amount).
		Set("is_completed = current_progress + ? >= target_value", amount).
		Set("completed_at = CASE WHEN current_progress + ? >= target_value THEN ? ELSE completed_at END", amount, time.Now()).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Where("quest_type = ?", questType).
		Where("quest_date = ?", questDate).
		Where("is_completed = false").
		Exec(ctx)
	return err
}

func (r *questRepository) GetCompleted(ctx context.Context, userID, groupID, questDate string) ([]*models.DailyQuest, error) {
	var quests []*models.DailyQuest
	err := r.db.NewSelect().
		Model(&quests).
		Where("user_id = ?", userID).
		Where("group_id = ?", groupID).
		Where("quest_date = ?", questDate).
		Where("is_completed = true").
		Scan(ctx)
	return quests, err
}
