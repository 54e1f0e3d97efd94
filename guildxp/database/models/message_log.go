package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MessageLog is append-only telemetry; nothing reads it back.
type MessageLog struct {
	bun.BaseModel `bun:"table:message_logs,alias:ml"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull"`
	GroupID     string    `bun:"group_id,notnull"`
	MessageID   string    `bun:"message_id,notnull"`
	XPGained    int64     `bun:"xp_gained,notnull,default:0"`
	CoinsGained int64     `bun:"coins_gained,notnull,default:0"`
	MessageType string    `bun:"message_type,notnull,default:'text'"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
