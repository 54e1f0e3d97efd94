package progression

import "time"

// Config is the value object holding every tunable of the reward
// pipeline. It is passed in at construction so tests can inject exact
// ranges and cooldowns.
type Config struct {
	Cooldown time.Duration
	MinXP    int64
	MaxXP    int64
	MinCoins int64
	MaxCoins int64
}

func DefaultConfig() Config {
	return Config{
		Cooldown: 60 * time.Second,
		MinXP:    5,
		MaxXP:    15,
		MinCoins: 1,
		MaxCoins: 10,
	}
}

// normalized fills zero or inverted fields from the defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Cooldown <= 0 {
		c.Cooldown = def.Cooldown
	}
	if c.MinXP <= 0 || c.MaxXP < c.MinXP {
		c.MinXP, c.MaxXP = def.MinXP, def.MaxXP
	}
	if c.MinCoins <= 0 || c.MaxCoins < c.MinCoins {
		c.MinCoins, c.MaxCoins = def.MinCoins, def.MaxCoins
	}
	return c
}

// QuestTemplate describes one entry of the fixed daily quest set.
type QuestTemplate struct {
	Kind        QuestKind
	Target      int64
	RewardXP    int64
	RewardCoins int64
}

// QuestTemplates is the daily set generated for every membership.
func QuestTemplates() []QuestTemplate {
	return []QuestTemplate{
		{Kind: QuestMessages, Target: 50, RewardXP: 100, RewardCoins: 50},
		{Kind: QuestXPGain, Target: 100, RewardXP: 150, RewardCoins: 75},
		{Kind: QuestCoinsGain, Target: 50, RewardXP: 75, RewardCoins: 100},
	}
}
