package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Badge struct {
	bun.BaseModel `bun:"table:badges,alias:b"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Name             string    `bun:"name,notnull,unique"`
	Description      string    `bun:"description"`
	Emoji            string    `bun:"emoji,notnull,default:'🏅'"`
	Category         string    `bun:"category,notnull,default:'achievement'"`
	RequirementType  string    `bun:"requirement_type,notnull"`
	RequirementValue int64     `bun:"requirement_value,notnull,default:1"`
	Rarity           string    `bun:"rarity,notnull,default:'common'"`
	IsActive         bool      `bun:"is_active,notnull,default:true"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UserBadge is a set: at most one award per (user, group, badge).
type UserBadge struct {
	bun.BaseModel `bun:"table:user_badges,alias:ub"`

	ID       int64     `bun:"id,pk,autoincrement"`
	UserID   string    `bun:"user_id,notnull,unique:user_badges_award"`
	GroupID  string    `bun:"group_id,notnull,unique:user_badges_award"`
	BadgeID  int64     `bun:"badge_id,notnull,unique:user_badges_award"`
	EarnedAt time.Time `bun:"earned_at,notnull,default:current_timestamp"`

	Badge *Badge `bun:"rel:belongs-to,join:badge_id=id"`
}
