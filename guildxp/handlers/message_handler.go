package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/progression"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

// MessageHandler feeds every guild message into the progression
// pipeline and announces level-ups and badge awards in the channel the
// message came from.
func MessageHandler(b *guildxp.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.Message.Author.Bot || e.GuildID == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.CommandTimeout)
		defer cancel()

		groupName := "Unknown Guild"
		if guild, ok := e.Client().Caches().Guild(*e.GuildID); ok {
			groupName = guild.Name
		}

		result, err := b.Progression.HandleMessage(ctx, progression.MessageInput{
			UserID:      e.Message.Author.ID.String(),
			GroupID:     e.GuildID.String(),
			Username:    e.Message.Author.Username,
			DisplayName: e.Message.Author.EffectiveName(),
			GroupName:   groupName,
			MessageID:   e.MessageID.String(),
		})
		if err != nil {
			slog.Error("Message pipeline failed",
				slog.String("type", "sys"),
				slog.String("user_id", e.Message.Author.ID.String()),
				slog.Any("error", err))
			return
		}

		if result.LeveledUp && result.NewLevel != nil {
			announceLevelUp(e, result)
		}
		for _, badge := range result.BadgesAwarded {
			announce(e, discord.Embed{
				Description: fmt.Sprintf("%s **%s** earned the **%s** badge!",
					badge.Emoji, e.Message.Author.EffectiveName(), badge.Name),
				Color: utils.InfoColor,
			})
		}
		for _, quest := range result.QuestsCompleted {
			announce(e, discord.Embed{
				Description: fmt.Sprintf("✅ **%s** completed a daily quest: %s (+%s XP, +%s coins)",
					e.Message.Author.EffectiveName(),
					progression.QuestKind(quest.QuestType).Label(),
					utils.FormatNumber(quest.RewardXP),
					utils.FormatNumber(quest.RewardCoins)),
				Color: utils.SuccessColor,
			})
		}
	})
}

func announceLevelUp(e *events.MessageCreate, result *progression.MessageResult) {
	level := result.NewLevel
	announce(e, discord.Embed{
		Title: "🎉 Level Up!",
		Description: fmt.Sprintf("Congratulations %s!\nYou reached level %d: %s %s",
			e.Message.Author.EffectiveName(), level.Number, level.Emoji, level.Name),
		Color: utils.SuccessColor,
	})
}

func announce(e *events.MessageCreate, embed discord.Embed) {
	if _, err := e.Client().Rest().CreateMessage(e.ChannelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	}); err != nil {
		slog.Error("Failed to send announcement",
			slog.String("channel_id", e.ChannelID.String()),
			slog.Any("error", err))
	}
}
