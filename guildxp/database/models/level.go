package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Level is a static reference row. Rows are strictly ordered by Number
// and by RequiredXP; both are unique by construction of the seed data.
type Level struct {
	bun.BaseModel `bun:"table:levels,alias:l"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Number     int       `bun:"number,notnull,unique"`
	Name       string    `bun:"name,notnull"`
	Emoji      string    `bun:"emoji,notnull"`
	RequiredXP int64     `bun:"required_xp,notnull,unique"`
	Category   string    `bun:"category,notnull"`
	Tier       int       `bun:"tier,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
