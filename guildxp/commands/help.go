package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "📖 How the XP system works and what you can do",
}

func HelpHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "GuildXP",
				Description: "Every message you send earns XP and coins. " +
					"Level up, collect badges, finish daily quests and climb the leaderboard!",
				Color: utils.InfoColor,
				Fields: []discord.EmbedField{
					{
						Name: "📊 Progress",
						Value: "`/xp` current XP and coins\n" +
							"`/level` your current level\n" +
							"`/progress` distance to the next level\n" +
							"`/profile` everything at a glance",
					},
					{
						Name: "🎯 Goals",
						Value: "`/daily` today's quests\n" +
							"`/badges` badges you earned\n" +
							"`/leaderboard` top members",
					},
					{
						Name: "💰 Economy",
						Value: "`/shop` spend your coins\n" +
							"`/inventory` what you own",
					},
					{
						Name: "⚔️ Clans",
						Value: "`/clan` view a clan\n" +
							"`/createclan` found your own\n" +
							"`/joinclan` join one\n" +
							"`/leaveclan` walk away",
					},
				},
				Footer: &discord.EmbedFooter{
					Text: "GuildXP " + b.Version,
				},
			}},
		})
	}
}
