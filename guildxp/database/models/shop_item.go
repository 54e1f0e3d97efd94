package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ItemTypeBooster    = "booster"
	ItemTypeUpgrade    = "upgrade"
	ItemTypeBadge      = "badge"
	ItemTypeVIP        = "vip"
	ItemTypeProtection = "protection"
)

type ShopItem struct {
	bun.BaseModel `bun:"table:shop_items,alias:si"`

	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull"`
	Description   string    `bun:"description"`
	Price         int64     `bun:"price,notnull,default:0"`
	ItemType      string    `bun:"item_type,notnull,default:'booster'"`
	EffectType    string    `bun:"effect_type,notnull,default:'xp_multiplier'"`
	EffectValue   float64   `bun:"effect_value,notnull,default:1.0"`
	DurationHours int       `bun:"duration_hours,notnull,default:0"`
	IsActive      bool      `bun:"is_active,notnull,default:true"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UserInventory holds purchased items per membership.
type UserInventory struct {
	bun.BaseModel `bun:"table:user_inventory,alias:ui"`

	ID         int64      `bun:"id,pk,autoincrement"`
	UserID     string     `bun:"user_id,notnull"`
	GroupID    string     `bun:"group_id,notnull"`
	ItemID     int64      `bun:"item_id,notnull"`
	Quantity   int        `bun:"quantity,notnull,default:1"`
	IsActive   bool       `bun:"is_active,notnull,default:true"`
	ExpiresAt  *time.Time `bun:"expires_at"`
	AcquiredAt time.Time  `bun:"acquired_at,notnull,default:current_timestamp"`

	Item *ShopItem `bun:"rel:belongs-to,join:item_id=id"`
}
