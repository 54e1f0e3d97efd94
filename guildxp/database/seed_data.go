package database

import (
	"context"
	"fmt"
	"log/slog"
)

// Static reference data. Seeded idempotently at startup; the
// progression engine treats these tables as read-only.

type levelSeed struct {
	Category string
	Emoji    string
}

// 11 categories x 5 tiers = 55 levels. RequiredXP follows a quadratic
// curve, strictly increasing so both number and required_xp stay unique.
var levelCategories = []levelSeed{
	{"Newcomer", "🌱"},
	{"Member", "🙂"},
	{"Regular", "💬"},
	{"Active", "⚡"},
	{"Veteran", "🎖️"},
	{"Elite", "🔥"},
	{"Master", "🏆"},
	{"Champion", "👑"},
	{"Hero", "🦸"},
	{"Legend", "🌟"},
	{"Mythic", "🐉"},
}

var tierNumerals = [5]string{"I", "II", "III", "IV", "V"}

func requiredXPForLevel(number int) int64 {
	return int64(100 * (number - 1) * (number - 1))
}

// InitializeLevelData upserts the 55-level reference table.
func (db *DB) InitializeLevelData(ctx context.Context) error {
	insertSQL := `
		INSERT INTO levels (number, name, emoji, required_xp, category, tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (number) DO UPDATE SET
			name = EXCLUDED.name,
			emoji = EXCLUDED.emoji,
			required_xp = EXCLUDED.required_xp,
			category = EXCLUDED.category,
			tier = EXCLUDED.tier;
	`

	count := 0
	for ci, cat := range levelCategories {
		for tier := 1; tier <= 5; tier++ {
			number := ci*5 + tier
			name := fmt.Sprintf("%s %s", cat.Category, tierNumerals[tier-1])
			if _, err := db.ExecWithLog(ctx, insertSQL,
				number, name, cat.Emoji, requiredXPForLevel(number), cat.Category, tier,
			); err != nil {
				return fmt.Errorf("failed to upsert level %d: %w", number, err)
			}
			count++
		}
	}

	slog.Info("Level reference data initialized", slog.Int("count", count))
	return nil
}

// InitializeBadgeData upserts the badge catalog. Requirement types are
// one of messages/xp/coins/level; each badge has a single threshold.
func (db *DB) InitializeBadgeData(ctx context.Context) error {
	type badgeSeed struct {
		Name            string
		Description     string
		Emoji           string
		Category        string
		RequirementType string
		RequirementVal  int64
		Rarity          string
	}

	badges := []badgeSeed{
		{"First Words", "Send 10 messages", "💬", "activity", "messages", 10, "common"},
		{"Chatterbox", "Send 100 messages", "🗣️", "activity", "messages", 100, "common"},
		{"Town Crier", "Send 1,000 messages", "📣", "activity", "messages", 1000, "rare"},
		{"Voice of the Guild", "Send 10,000 messages", "📯", "activity", "messages", 10000, "legendary"},
		{"Apprentice", "Earn 1,000 XP", "📘", "progression", "xp", 1000, "common"},
		{"Scholar", "Earn 10,000 XP", "📚", "progression", "xp", 10000, "rare"},
		{"Sage", "Earn 100,000 XP", "🧙", "progression", "xp", 100000, "epic"},
		{"Penny Pincher", "Hold 500 coins", "🪙", "economy", "coins", 500, "common"},
		{"Merchant", "Hold 5,000 coins", "💰", "economy", "coins", 5000, "rare"},
		{"Tycoon", "Hold 50,000 coins", "🏦", "economy", "coins", 50000, "epic"},
		{"Rising Star", "Reach level 10", "⭐", "progression", "level", 10, "common"},
		{"Halfway There", "Reach level 25", "🌠", "progression", "level", 25, "rare"},
		{"Summit", "Reach level 55", "🗻", "progression", "level", 55, "legendary"},
	}

	insertSQL := `
		INSERT INTO badges (name, description, emoji, category, requirement_type, requirement_value, rarity, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO NOTHING;
	`

	for _, b := range badges {
		if _, err := db.ExecWithLog(ctx, insertSQL,
			b.Name, b.Description, b.Emoji, b.Category,
			b.RequirementType, b.RequirementVal, b.Rarity,
		); err != nil {
			return fmt.Errorf("failed to seed badge %q: %w", b.Name, err)
		}
	}

	slog.Info("Badge catalog initialized", slog.Int("count", len(badges)))
	return nil
}

// InitializeShopData seeds the shop catalog.
func (db *DB) InitializeShopData(ctx context.Context) error {
	type itemSeed struct {
		Name          string
		Description   string
		Price         int64
		ItemType      string
		EffectType    string
		EffectValue   float64
		DurationHours int
	}

	items := []itemSeed{
		{"XP Booster", "Doubles XP gains for a day", 500, "booster", "xp_multiplier", 2.0, 24},
		{"Coin Booster", "Doubles coin gains for a day", 400, "booster", "coin_multiplier", 2.0, 24},
		{"Cooldown Reducer", "Halves the XP cooldown for a day", 750, "upgrade", "cooldown_factor", 0.5, 24},
		{"VIP Pass", "VIP flair on your profile for a week", 2500, "vip", "cosmetic", 1.0, 168},
		{"Streak Shield", "Protects your daily quest streak once", 1000, "protection", "streak_protect", 1.0, 0},
		{"Collector's Badge", "A badge to show off in your inventory", 5000, "badge", "cosmetic", 1.0, 0},
	}

	var itemCount int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM shop_items").Scan(&itemCount); err == nil && itemCount >= len(items) {
		slog.Info("Shop catalog already initialized, skipping")
		return nil
	}

	insertSQL := `
		INSERT INTO shop_items (name, description, price, item_type, effect_type, effect_value, duration_hours, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, CURRENT_TIMESTAMP)
		ON CONFLICT DO NOTHING;
	`

	for _, item := range items {
		if _, err := db.ExecWithLog(ctx, insertSQL,
			item.Name, item.Description, item.Price, item.ItemType,
			item.EffectType, item.EffectValue, item.DurationHours,
		); err != nil {
			return fmt.Errorf("failed to seed shop item %q: %w", item.Name, err)
		}
	}

	slog.Info("Shop catalog initialized", slog.Int("count", len(items)))
	return nil
}
