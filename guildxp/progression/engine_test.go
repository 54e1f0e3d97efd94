package progression

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

func testEngine(cfg Config) *Engine {
	return NewEngine(cfg, rand.New(rand.NewSource(1)))
}

func TestEngine_RollReward_Bounds(t *testing.T) {
	e := testEngine(Config{
		Cooldown: time.Minute,
		MinXP:    5, MaxXP: 15,
		MinCoins: 1, MaxCoins: 10,
	})

	for i := 0; i < 1000; i++ {
		r := e.RollReward()
		if r.XP < 5 || r.XP > 15 {
			t.Fatalf("xp roll %d outside [5,15]", r.XP)
		}
		if r.Coins < 1 || r.Coins > 10 {
			t.Fatalf("coin roll %d outside [1,10]", r.Coins)
		}
	}
}

func TestEngine_RollReward_CollapsedRange(t *testing.T) {
	e := testEngine(Config{
		Cooldown: time.Minute,
		MinXP:    7, MaxXP: 7,
		MinCoins: 3, MaxCoins: 3,
	})

	for i := 0; i < 10; i++ {
		if r := e.RollReward(); r.XP != 7 || r.Coins != 3 {
			t.Fatalf("collapsed range rolled %+v, want {7 3}", r)
		}
	}
}

// Run with -race; the messages of different members roll on the same
// engine concurrently, serialized only inside RollReward itself.
func TestEngine_RollReward_Concurrent(t *testing.T) {
	e := testEngine(Config{
		Cooldown: time.Minute,
		MinXP:    5, MaxXP: 15,
		MinCoins: 1, MaxCoins: 10,
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				r := e.RollReward()
				if r.XP < 5 || r.XP > 15 || r.Coins < 1 || r.Coins > 10 {
					t.Errorf("concurrent roll %+v outside ranges", r)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestEngine_CooldownActive(t *testing.T) {
	e := testEngine(Config{Cooldown: 60 * time.Second, MinXP: 5, MaxXP: 15, MinCoins: 1, MaxCoins: 10})
	now := time.Now()

	tests := []struct {
		name     string
		lastGain time.Time
		want     bool
	}{
		{"never granted", time.Time{}, false},
		{"30s ago is inside the window", now.Add(-30 * time.Second), true},
		{"61s ago is outside the window", now.Add(-61 * time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CooldownActive(tt.lastGain, now); got != tt.want {
				t.Errorf("CooldownActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_ShouldAdvance(t *testing.T) {
	e := testEngine(DefaultConfig())
	next := &models.Level{Number: 4, RequiredXP: 310}

	tests := []struct {
		name string
		xp   int64
		next *models.Level
		want bool
	}{
		{"no next level", 1000, nil, false},
		{"below threshold", 309, next, false},
		{"at threshold", 310, next, true},
		{"above threshold", 315, next, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ShouldAdvance(tt.xp, tt.next); got != tt.want {
				t.Errorf("ShouldAdvance(%d) = %v, want %v", tt.xp, got, tt.want)
			}
		})
	}
}

func TestEngine_MeetsBadgeRequirement(t *testing.T) {
	e := testEngine(DefaultConfig())
	m := &models.Membership{
		XP:            1200,
		Coins:         480,
		TotalMessages: 100,
	}

	tests := []struct {
		name      string
		kind      RequirementKind
		threshold int64
		level     int
		want      bool
	}{
		{"messages met at threshold", RequireMessages, 100, 1, true},
		{"messages not met", RequireMessages, 101, 1, false},
		{"xp met", RequireXP, 1000, 1, true},
		{"coins not met", RequireCoins, 500, 1, false},
		{"level met", RequireLevel, 10, 10, true},
		{"level not met", RequireLevel, 10, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.MeetsBadgeRequirement(tt.kind, tt.threshold, m, tt.level); got != tt.want {
				t.Errorf("MeetsBadgeRequirement(%s, %d) = %v, want %v", tt.kind, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestConfig_Normalized(t *testing.T) {
	got := Config{}.normalized()
	want := DefaultConfig()
	if got != want {
		t.Errorf("normalized zero config = %+v, want defaults %+v", got, want)
	}

	custom := Config{Cooldown: 30 * time.Second, MinXP: 1, MaxXP: 2, MinCoins: 1, MaxCoins: 1}
	if got := custom.normalized(); got != custom {
		t.Errorf("normalized valid config = %+v, want unchanged %+v", got, custom)
	}

	inverted := Config{Cooldown: time.Minute, MinXP: 10, MaxXP: 5, MinCoins: 1, MaxCoins: 10}
	if got := inverted.normalized(); got.MinXP != 5 || got.MaxXP != 15 {
		t.Errorf("inverted xp range normalized to [%d,%d], want defaults [5,15]", got.MinXP, got.MaxXP)
	}
}
