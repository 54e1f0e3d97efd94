package commands

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏆 Top members by XP",
}

// leaderboardFetchLimit bounds the snapshot a single invocation pages
// through.
const leaderboardFetchLimit = 100

func LeaderboardHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		top, err := b.MembershipRepository.GetTopByXP(ctx, groupID, leaderboardFetchLimit, 0)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch the leaderboard. Please try again later.")
		}
		if len(top) == 0 {
			return utils.EH.CreateInfoEmbed(e, "No one has earned XP here yet. Start chatting!")
		}

		medals := []string{"🥇", "🥈", "🥉"}
		totalPages := int(math.Ceil(float64(len(top)) / float64(utils.LeaderboardPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * utils.LeaderboardPerPage
				endIdx := min(startIdx+utils.LeaderboardPerPage, len(top))

				var description strings.Builder
				for i, m := range top[startIdx:endIdx] {
					rank := startIdx + i
					prefix := fmt.Sprintf("`#%d`", rank+1)
					if rank < len(medals) {
						prefix = medals[rank]
					}
					description.WriteString(fmt.Sprintf("%s <@%s> — %s XP (%s 💰)\n",
						prefix, m.UserID,
						utils.FormatNumber(m.XP),
						utils.AbbreviateNumber(m.Coins)))
				}

				embed.
					SetTitle("🏆 Leaderboard").
					SetDescription(description.String()).
					SetColor(utils.InfoColor).
					SetFooterTextf("Page %d/%d", page+1, totalPages)
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
