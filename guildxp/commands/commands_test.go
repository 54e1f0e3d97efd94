package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

func TestCommands_Surface(t *testing.T) {
	want := []string{
		"start", "help", "xp", "level", "progress", "profile",
		"leaderboard", "daily", "badges", "shop", "inventory",
		"clan", "createclan", "joinclan", "leaveclan", "admin",
	}

	names := make(map[string]bool, len(Commands))
	for _, c := range Commands {
		sc, ok := c.(discord.SlashCommandCreate)
		if !ok {
			t.Fatalf("unexpected command type %T", c)
		}
		if names[sc.Name] {
			t.Errorf("command %q registered twice", sc.Name)
		}
		names[sc.Name] = true
	}

	for _, name := range want {
		if !names[name] {
			t.Errorf("command %q missing", name)
		}
	}
	if len(names) != len(want) {
		t.Errorf("surface has %d commands, want %d", len(names), len(want))
	}
}

type fakeBadgeRepo struct {
	active []*models.Badge
	earned []*models.UserBadge
}

func (f *fakeBadgeRepo) ListActive(context.Context) ([]*models.Badge, error) {
	return f.active, nil
}

func (f *fakeBadgeRepo) ListEarned(_ context.Context, _, _ string) ([]*models.UserBadge, error) {
	return f.earned, nil
}

func (f *fakeBadgeRepo) CountEarned(_ context.Context, _, _ string) (int, error) {
	return len(f.earned), nil
}

func (f *fakeBadgeRepo) Award(_ context.Context, _, _ string, _ int64) (bool, error) {
	return false, nil
}

func TestBadgesEmbed(t *testing.T) {
	first := &models.Badge{ID: 1, Name: "First Steps", Emoji: "👣", Description: "Send your first message"}
	chatty := &models.Badge{ID: 2, Name: "Chatterbox", Emoji: "💬", Description: "Send 100 messages"}

	t.Run("nothing earned", func(t *testing.T) {
		b := &guildxp.Bot{BadgeRepository: &fakeBadgeRepo{
			active: []*models.Badge{first, chatty},
		}}

		embed, err := badgesEmbed(context.Background(), b, "u1", "g1")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(embed.Description, "2 are waiting") {
			t.Errorf("description %q does not mention the 2 available badges", embed.Description)
		}
	})

	t.Run("one earned", func(t *testing.T) {
		b := &guildxp.Bot{BadgeRepository: &fakeBadgeRepo{
			active: []*models.Badge{first, chatty},
			earned: []*models.UserBadge{{
				BadgeID:  1,
				Badge:    first,
				EarnedAt: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
			}},
		}}

		embed, err := badgesEmbed(context.Background(), b, "u1", "g1")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(embed.Description, "First Steps") {
			t.Errorf("description %q missing the earned badge", embed.Description)
		}
		if strings.Contains(embed.Description, "Chatterbox") {
			t.Errorf("description %q lists an unearned badge", embed.Description)
		}
		if embed.Footer == nil || embed.Footer.Text != "1/2 collected" {
			t.Errorf("footer = %+v, want 1/2 collected", embed.Footer)
		}
	})
}
