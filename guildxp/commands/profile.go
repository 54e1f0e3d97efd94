package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"golang.org/x/sync/errgroup"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/database/models"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "👤 Your full profile: level, stats, badges, quests and clan",
}

func ProfileHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		userID := e.User().ID.String()

		m, notFound, err := fetchMembership(ctx, b, userID, groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your profile. Please try again later.")
		}
		if notFound {
			return replyNoMembership(e)
		}

		// The derived sections are independent reads, so fan out.
		var (
			level      *models.Level
			badgeCount int
			questsDone int
			clan       *models.Clan
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			level, err = b.LevelRepository.GetByID(gctx, m.LevelID)
			return err
		})
		g.Go(func() error {
			var err error
			badgeCount, err = b.BadgeRepository.CountEarned(gctx, userID, groupID)
			return err
		})
		g.Go(func() error {
			today := time.Now().Format(models.QuestDateLayout)
			completed, err := b.QuestRepository.GetCompleted(gctx, userID, groupID, today)
			if err != nil {
				return err
			}
			questsDone = len(completed)
			return nil
		})
		if m.ClanID != nil {
			clanID := *m.ClanID
			g.Go(func() error {
				var err error
				clan, err = b.ClanRepository.GetByID(gctx, clanID)
				if errors.Is(err, sql.ErrNoRows) {
					return nil
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your profile. Please try again later.")
		}

		clanField := "None"
		if clan != nil {
			clanField = clan.Name
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("👤 %s", e.User().EffectiveName()),
				Description: fmt.Sprintf("%s **%s** (level %d)",
					level.Emoji, level.Name, level.Number),
				Color: utils.InfoColor,
				Fields: []discord.EmbedField{
					{Name: "⚡ XP", Value: utils.FormatNumber(m.XP), Inline: &inlineTrue},
					{Name: "💰 Coins", Value: utils.FormatNumber(m.Coins), Inline: &inlineTrue},
					{Name: "💬 Messages", Value: utils.FormatNumber(m.TotalMessages), Inline: &inlineTrue},
					{Name: "🏅 Badges", Value: fmt.Sprintf("%d", badgeCount), Inline: &inlineTrue},
					{Name: "🎯 Quests today", Value: fmt.Sprintf("%d/3", questsDone), Inline: &inlineTrue},
					{Name: "⚔️ Clan", Value: clanField, Inline: &inlineTrue},
				},
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Member since %s", m.JoinedAt.Format("2006-01-02")),
				},
				Timestamp: &now,
			}},
			Components: []discord.ContainerComponent{
				discord.NewActionRow(
					discord.NewSecondaryButton("🏅 Badges", fmt.Sprintf("/profile/badges/%s", userID)),
				),
			},
		})
	}
}
