package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Badges = discord.SlashCommandCreate{
	Name:        "badges",
	Description: "🏅 Badges you have earned here",
}

func BadgesHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		embed, err := badgesEmbed(ctx, b, e.User().ID.String(), groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your badges. Please try again later.")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed},
		})
	}
}

// ProfileBadgesHandler resolves the badges button on the profile embed.
// The profile owner gets the message swapped in place; anyone else gets
// their own badges ephemerally.
func ProfileBadgesHandler(b *guildxp.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		if e.GuildID() == nil {
			return nil
		}

		owner := strings.TrimPrefix(e.Data.CustomID(), "/profile/badges/")
		clicker := e.User().ID.String()

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		embed, err := badgesEmbed(ctx, b, clicker, e.GuildID().String())
		if err != nil {
			if clicker == owner {
				return utils.EH.UpdateErrorEmbed(e, "Failed to fetch your badges. Please try again later.")
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: "Failed to fetch your badges. Please try again later.",
					Color:       utils.ErrorColor,
				}},
				Flags: discord.MessageFlagEphemeral,
			})
		}

		if clicker == owner {
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds:     &[]discord.Embed{embed},
				Components: &[]discord.ContainerComponent{},
			})
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}

// badgesEmbed builds the earned-badge listing shared by the /badges
// command and the profile badges button.
func badgesEmbed(ctx context.Context, b *guildxp.Bot, userID, groupID string) (discord.Embed, error) {
	earned, err := b.BadgeRepository.ListEarned(ctx, userID, groupID)
	if err != nil {
		return discord.Embed{}, err
	}

	total, err := b.BadgeRepository.ListActive(ctx)
	if err != nil {
		return discord.Embed{}, err
	}

	if len(earned) == 0 {
		return discord.Embed{
			Description: fmt.Sprintf("No badges yet. %d are waiting to be earned. Keep chatting!", len(total)),
			Color:       utils.InfoColor,
		}, nil
	}

	var description strings.Builder
	for _, ub := range earned {
		if ub.Badge == nil {
			continue
		}
		description.WriteString(fmt.Sprintf("%s **%s** — %s\n*earned %s*\n\n",
			ub.Badge.Emoji, ub.Badge.Name, ub.Badge.Description,
			ub.EarnedAt.Format("2006-01-02")))
	}

	return discord.Embed{
		Title:       "🏅 Your Badges",
		Description: description.String(),
		Color:       utils.InfoColor,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("%d/%d collected", len(earned), len(total)),
		},
	}, nil
}
