package progression

import (
	"fmt"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

// RequirementKind is the closed set of badge requirement kinds. Parsing
// an unknown string is an error, not a silent fallthrough.
type RequirementKind int

const (
	RequireMessages RequirementKind = iota
	RequireXP
	RequireCoins
	RequireLevel
)

func ParseRequirementKind(s string) (RequirementKind, error) {
	switch s {
	case "messages":
		return RequireMessages, nil
	case "xp":
		return RequireXP, nil
	case "coins":
		return RequireCoins, nil
	case "level":
		return RequireLevel, nil
	default:
		return 0, fmt.Errorf("unknown badge requirement kind %q", s)
	}
}

func (k RequirementKind) String() string {
	switch k {
	case RequireMessages:
		return "messages"
	case RequireXP:
		return "xp"
	case RequireCoins:
		return "coins"
	case RequireLevel:
		return "level"
	default:
		return fmt.Sprintf("RequirementKind(%d)", int(k))
	}
}

// QuestKind identifies a daily quest type. The string value is the
// quest_type column.
type QuestKind string

const (
	QuestMessages  QuestKind = "messages"
	QuestXPGain    QuestKind = "xp_gain"
	QuestCoinsGain QuestKind = "coins_gain"
)

func (k QuestKind) Label() string {
	switch k {
	case QuestMessages:
		return "Send messages"
	case QuestXPGain:
		return "Earn XP"
	case QuestCoinsGain:
		return "Collect coins"
	default:
		return string(k)
	}
}

// Reward is one message's roll.
type Reward struct {
	XP    int64
	Coins int64
}

// MessageResult reports what one processed message produced. A zero
// result with Granted=false means the cooldown swallowed the message.
type MessageResult struct {
	Granted         bool
	Reward          Reward
	LeveledUp       bool
	NewLevel        *models.Level
	BadgesAwarded   []*models.Badge
	QuestsCompleted []*models.DailyQuest
}

// ClanRank is the display tier derived from a clan's total XP.
type ClanRank struct {
	Name  string
	Emoji string
}

var clanRanks = []struct {
	minXP int64
	rank  ClanRank
}{
	{1_000_000, ClanRank{"Legendary", "🌟"}},
	{500_000, ClanRank{"Diamond", "💎"}},
	{100_000, ClanRank{"Gold", "🥇"}},
	{50_000, ClanRank{"Silver", "🥈"}},
	{10_000, ClanRank{"Bronze", "🥉"}},
	{0, ClanRank{"Beginner", "🌱"}},
}

// ClanRankFor classifies total XP into a tier. Boundaries are
// inclusive on the upper tier: exactly 100,000 XP is Gold.
func ClanRankFor(totalXP int64) ClanRank {
	for _, entry := range clanRanks {
		if totalXP >= entry.minXP {
			return entry.rank
		}
	}
	return clanRanks[len(clanRanks)-1].rank
}
