package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Start = discord.SlashCommandCreate{
	Name:        "start",
	Description: "👋 Welcome! Learn how to start earning XP",
}

func StartHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "👋 Welcome to GuildXP!",
				Description: "Just chat! Every message earns you XP and coins.\n\n" +
					"⚡ XP levels you up through 55 ranks\n" +
					"💰 Coins buy boosters in the `/shop`\n" +
					"🎯 `/daily` quests reset every day\n" +
					"🏅 Badges mark your milestones\n" +
					"⚔️ Clans pool XP with your friends\n\n" +
					"Type `/help` for the full command list.",
				Color: utils.SuccessColor,
				Footer: &discord.EmbedFooter{
					Text: "GuildXP " + b.Version,
				},
			}},
		})
	}
}
