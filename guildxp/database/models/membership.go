package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Membership is the per-(user, group) progression record and the only
// mutable aggregate in the schema. Created lazily on the first observed
// message from a user in a group.
//
// LevelID is not self-maintaining: it must be re-derived after every XP
// grant so that it equals the highest level whose required XP does not
// exceed Membership.XP.
type Membership struct {
	bun.BaseModel `bun:"table:memberships,alias:m"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        string    `bun:"user_id,notnull,unique:memberships_user_group"`
	GroupID       string    `bun:"group_id,notnull,unique:memberships_user_group"`
	XP            int64     `bun:"xp,notnull,default:0"`
	Coins         int64     `bun:"coins,notnull,default:0"`
	LevelID       int64     `bun:"level_id,notnull,default:1"`
	TotalMessages int64     `bun:"total_messages,notnull,default:0"`
	LastMessageAt time.Time `bun:"last_message_at,nullzero"`
	LastXPGain    time.Time `bun:"last_xp_gain,nullzero"`
	ClanID        *int64    `bun:"clan_id"`
	IsActive      bool      `bun:"is_active,notnull,default:true"`
	JoinedAt      time.Time `bun:"joined_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}
