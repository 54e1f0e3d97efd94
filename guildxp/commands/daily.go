package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/database/models"
	"github.com/guildxp/guildxp-bot/guildxp/progression"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "🎯 Today's quests and your progress on them",
}

func DailyHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		userID := e.User().ID.String()
		today := time.Now().Format(models.QuestDateLayout)

		// Looking at quests is what materializes them for the day.
		if err := b.Progression.EnsureDailyQuests(ctx, userID, groupID, today); err != nil {
			slog.Error("Failed to generate daily quests",
				slog.String("type", "db"),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to load your daily quests. Please try again later.")
		}

		quests, err := b.QuestRepository.ListForDate(ctx, userID, groupID, today)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load your daily quests. Please try again later.")
		}

		var description strings.Builder
		completed := 0
		for _, q := range quests {
			status := "🔲"
			if q.IsCompleted {
				status = "✅"
				completed++
			}

			percent := utils.Percent(q.CurrentProgress, q.TargetValue)
			description.WriteString(fmt.Sprintf("%s **%s**\n`%s` %s/%s\n🎁 %s XP + %s 💰\n\n",
				status,
				progression.QuestKind(q.QuestType).Label(),
				utils.ProgressBar(percent, 10),
				utils.FormatNumber(q.CurrentProgress),
				utils.FormatNumber(q.TargetValue),
				utils.FormatNumber(q.RewardXP),
				utils.FormatNumber(q.RewardCoins)))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🎯 Daily Quests",
				Description: description.String(),
				Color:       utils.InfoColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("%d/%d completed • resets at midnight", completed, len(quests)),
				},
			}},
		})
	}
}
