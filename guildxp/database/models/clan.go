package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Clan is group-scoped; membership is the clan_id foreign key on
// Membership. Name is unique within a group.
type Clan struct {
	bun.BaseModel `bun:"table:clans,alias:c"`

	ID           int64     `bun:"id,pk,autoincrement"`
	GroupID      string    `bun:"group_id,notnull,unique:clans_group_name"`
	Name         string    `bun:"name,notnull,unique:clans_group_name"`
	Description  string    `bun:"description"`
	LeaderUserID string    `bun:"leader_user_id,notnull"`
	TotalXP      int64     `bun:"total_xp,notnull,default:0"`
	MemberCount  int       `bun:"member_count,notnull,default:1"`
	MaxMembers   int       `bun:"max_members,notnull,default:20"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}
