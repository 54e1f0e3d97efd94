package progression

import (
	"math/rand"
	"sync"
	"time"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

// Engine holds the pure progression rules: reward rolls, the cooldown
// gate, level thresholds, badge requirements and clan ranks. It does
// no I/O.
type Engine struct {
	cfg Config

	// rand.Rand is not safe for concurrent use, and grants for
	// different members run concurrently.
	mu   sync.Mutex
	rand *rand.Rand
}

// NewEngine builds an engine from the config value object. rng may be
// nil, in which case a time-seeded source is used; tests pass a seeded
// source to get deterministic rolls.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg.normalized(), rand: rng}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// RollReward draws xp and coins uniformly from their inclusive ranges.
// The two draws are independent.
func (e *Engine) RollReward() Reward {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Reward{
		XP:    e.cfg.MinXP + e.rand.Int63n(e.cfg.MaxXP-e.cfg.MinXP+1),
		Coins: e.cfg.MinCoins + e.rand.Int63n(e.cfg.MaxCoins-e.cfg.MinCoins+1),
	}
}

// CooldownActive reports whether a grant at now is still inside the
// cooldown window opened by lastGain. A zero lastGain means no grant
// has ever happened, so the window is open.
func (e *Engine) CooldownActive(lastGain, now time.Time) bool {
	if lastGain.IsZero() {
		return false
	}
	return now.Sub(lastGain) < e.cfg.Cooldown
}

// ShouldAdvance reports whether xp clears the next level's threshold.
// Callers only ever pass the ordinal immediately above the current
// one, so at most one step is taken per event.
func (e *Engine) ShouldAdvance(xp int64, next *models.Level) bool {
	if next == nil {
		return false
	}
	return xp >= next.RequiredXP
}

// MeetsBadgeRequirement evaluates one badge against a membership. The
// switch is exhaustive over the closed requirement kinds.
func (e *Engine) MeetsBadgeRequirement(kind RequirementKind, threshold int64, m *models.Membership, levelNumber int) bool {
	switch kind {
	case RequireMessages:
		return m.TotalMessages >= threshold
	case RequireXP:
		return m.XP >= threshold
	case RequireCoins:
		return m.Coins >= threshold
	case RequireLevel:
		return int64(levelNumber) >= threshold
	default:
		return false
	}
}
