package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var XP = discord.SlashCommandCreate{
	Name:        "xp",
	Description: "⚡ View your XP, coins and message count",
}

var Level = discord.SlashCommandCreate{
	Name:        "level",
	Description: "🏅 View your current level",
}

var Progress = discord.SlashCommandCreate{
	Name:        "progress",
	Description: "📈 See how far you are from the next level",
}

func XPHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		m, notFound, err := fetchMembership(ctx, b, e.User().ID.String(), groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your stats. Please try again later.")
		}
		if notFound {
			return replyNoMembership(e)
		}

		now := time.Now()

		nextGain := "Ready now"
		if !m.LastXPGain.IsZero() {
			cooldown := b.Progression.Engine().Config().Cooldown
			if remaining := cooldown - now.Sub(m.LastXPGain); remaining > 0 {
				nextGain = "in " + utils.FormatDuration(remaining)
			}
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "⚡ Your Stats",
				Color: utils.InfoColor,
				Fields: []discord.EmbedField{
					{Name: "XP", Value: utils.FormatNumber(m.XP), Inline: &inlineTrue},
					{Name: "Coins", Value: utils.FormatNumber(m.Coins), Inline: &inlineTrue},
					{Name: "Messages", Value: utils.FormatNumber(m.TotalMessages), Inline: &inlineTrue},
					{Name: "⏳ Next XP", Value: nextGain, Inline: &inlineTrue},
				},
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
	}
}

func LevelHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		m, notFound, err := fetchMembership(ctx, b, e.User().ID.String(), groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your level. Please try again later.")
		}
		if notFound {
			return replyNoMembership(e)
		}

		level, err := b.LevelRepository.GetByID(ctx, m.LevelID)
		if err != nil {
			slog.Error("Failed to load level",
				slog.String("type", "db"),
				slog.Int64("level_id", m.LevelID),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your level. Please try again later.")
		}

		ladder := fmt.Sprintf("Level %d", level.Number)
		if all, err := b.LevelRepository.GetAll(ctx); err == nil && len(all) > 0 {
			ladder = fmt.Sprintf("Level %d of %d", level.Number, len(all))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("%s Level %d", level.Emoji, level.Number),
				Description: fmt.Sprintf("**%s**\nTotal XP: %s",
					level.Name, utils.FormatNumber(m.XP)),
				Color: utils.InfoColor,
				Footer: &discord.EmbedFooter{
					Text: ladder,
				},
			}},
		})
	}
}

func ProgressHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		m, notFound, err := fetchMembership(ctx, b, e.User().ID.String(), groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your progress. Please try again later.")
		}
		if notFound {
			return replyNoMembership(e)
		}

		current, err := b.LevelRepository.GetByID(ctx, m.LevelID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your progress. Please try again later.")
		}

		next, err := b.LevelRepository.GetByNumber(ctx, current.Number+1)
		if err != nil {
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
				"%s You are at the top of the ladder: **%s**!", current.Emoji, current.Name))
		}

		span := next.RequiredXP - current.RequiredXP
		into := m.XP - current.RequiredXP
		percent := utils.Percent(into, span)

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "📈 Progress",
				Description: fmt.Sprintf("%s **%s** → %s **%s**\n\n`%s` %.0f%%\n\n%s / %s XP",
					current.Emoji, current.Name,
					next.Emoji, next.Name,
					utils.ProgressBar(percent, 10), percent,
					utils.FormatNumber(m.XP), utils.FormatNumber(next.RequiredXP)),
				Color: utils.InfoColor,
			}},
		})
	}
}
