package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is one row per platform identity, upserted on every observed
// message so the display name stays current.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int64     `bun:"id,pk,autoincrement"`
	DiscordID   string    `bun:"discord_id,notnull,unique"`
	Username    string    `bun:"username,notnull"`
	DisplayName string    `bun:"display_name"`
	Locale      string    `bun:"locale,notnull,default:'en'"`
	IsBot       bool      `bun:"is_bot,notnull,default:false"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}
