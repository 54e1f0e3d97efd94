package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailyQuest rows are uniquely keyed by (user, group, quest_type,
// quest_date). Progress only ever accumulates; completion is monotonic
// and CompletedAt is set exactly once, at the transition.
type DailyQuest struct {
	bun.BaseModel `bun:"table:daily_quests,alias:dq"`

	ID              int64      `bun:"id,pk,autoincrement"`
	UserID          string     `bun:"user_id,notnull,unique:daily_quests_key"`
	GroupID         string     `bun:"group_id,notnull,unique:daily_quests_key"`
	QuestType       string     `bun:"quest_type,notnull,unique:daily_quests_key"`
	QuestDate       string     `bun:"quest_date,notnull,unique:daily_quests_key"`
	TargetValue     int64      `bun:"target_value,notnull"`
	CurrentProgress int64      `bun:"current_progress,notnull,default:0"`
	RewardXP        int64      `bun:"reward_xp,notnull,default:0"`
	RewardCoins     int64      `bun:"reward_coins,notnull,default:0"`
	IsCompleted     bool       `bun:"is_completed,notnull,default:false"`
	CompletedAt     *time.Time `bun:"completed_at"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

// QuestDate values use this layout; the calendar day is the quest key.
const QuestDateLayout = "2006-01-02"
