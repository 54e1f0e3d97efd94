package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/database/models"
	"github.com/guildxp/guildxp-bot/guildxp/database/repositories"
	"github.com/guildxp/guildxp-bot/guildxp/progression"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Clan = discord.SlashCommandCreate{
	Name:        "clan",
	Description: "⚔️ View your clan, or another clan by name",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "Clan to look up (defaults to your own)",
			Required:    false,
		},
	},
}

var CreateClan = discord.SlashCommandCreate{
	Name:        "createclan",
	Description: "⚔️ Found a new clan and become its leader",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "Name of the new clan",
			Required:    true,
		},
	},
}

var JoinClan = discord.SlashCommandCreate{
	Name:        "joinclan",
	Description: "⚔️ Join an existing clan",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "Name of the clan to join (close matches work)",
			Required:    true,
		},
	},
}

var LeaveClan = discord.SlashCommandCreate{
	Name:        "leaveclan",
	Description: "⚔️ Leave your clan (leaders disband it)",
}

func ClanHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		var clan *models.Clan
		if name := strings.TrimSpace(e.SlashCommandInteractionData().String("name")); name != "" {
			found, err := b.ClanRepository.GetByName(ctx, groupID, name)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No clan named **%s** here.", name))
				}
				return utils.EH.CreateErrorEmbed(e, "Failed to look up the clan. Please try again later.")
			}
			clan = found
		} else {
			m, notFound, err := fetchMembership(ctx, b, e.User().ID.String(), groupID)
			if err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to look up your clan. Please try again later.")
			}
			if notFound || m.ClanID == nil {
				return utils.EH.CreateInfoEmbed(e, "You are not in a clan. Use `/joinclan` or `/createclan`.")
			}
			found, err := b.ClanRepository.GetByID(ctx, *m.ClanID)
			if err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to look up your clan. Please try again later.")
			}
			clan = found
		}

		rank := progression.ClanRankFor(clan.TotalXP)

		var roster strings.Builder
		if members, err := b.MembershipRepository.ListByClan(ctx, clan.ID); err == nil {
			shown := min(len(members), 10)
			for _, m := range members[:shown] {
				roster.WriteString(fmt.Sprintf("<@%s> — %s XP\n", m.UserID, utils.FormatNumber(m.XP)))
			}
			if len(members) > shown {
				roster.WriteString(fmt.Sprintf("…and %d more", len(members)-shown))
			}
		}

		description := clan.Description
		if roster.Len() > 0 {
			description += "\n\n**Members**\n" + roster.String()
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("⚔️ %s", clan.Name),
				Description: description,
				Color:       utils.InfoColor,
				Fields: []discord.EmbedField{
					{Name: "Rank", Value: fmt.Sprintf("%s %s", rank.Emoji, rank.Name), Inline: &inlineTrue},
					{Name: "Total XP", Value: utils.FormatNumber(clan.TotalXP), Inline: &inlineTrue},
					{Name: "Members", Value: fmt.Sprintf("%d/%d", clan.MemberCount, clan.MaxMembers), Inline: &inlineTrue},
					{Name: "Leader", Value: fmt.Sprintf("<@%s>", clan.LeaderUserID), Inline: &inlineTrue},
				},
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Founded %s", clan.CreatedAt.Format("2006-01-02")),
				},
			}},
		})
	}
}

func CreateClanHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		name := strings.TrimSpace(e.SlashCommandInteractionData().String("name"))
		if len(name) < 3 || len(name) > 32 {
			return utils.EH.CreateErrorEmbed(e, "Clan names must be between 3 and 32 characters.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		userID := e.User().ID.String()

		m, err := b.MembershipRepository.GetOrCreate(ctx, userID, groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to create the clan. Please try again later.")
		}
		if m.ClanID != nil {
			return utils.EH.CreateErrorEmbed(e, "You are already in a clan. Leave it first with `/leaveclan`.")
		}

		if _, err := b.ClanRepository.GetByName(ctx, groupID, name); err == nil {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("A clan named **%s** already exists here.", name))
		} else if !errors.Is(err, sql.ErrNoRows) {
			return utils.EH.CreateErrorEmbed(e, "Failed to create the clan. Please try again later.")
		}

		clan := &models.Clan{
			GroupID:      groupID,
			Name:         name,
			LeaderUserID: userID,
			MemberCount:  1,
			MaxMembers:   20,
		}
		if err := b.ClanRepository.Create(ctx, clan); err != nil {
			slog.Error("Failed to create clan",
				slog.String("type", "db"),
				slog.String("name", name),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to create the clan. Please try again later.")
		}

		if err := b.MembershipRepository.SetClan(ctx, userID, groupID, clan.ID); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Clan created, but joining it failed. Try `/joinclan`.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("⚔️ **%s** has been founded. You are its leader!", name))
	}
}

func JoinClanHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		query := strings.TrimSpace(e.SlashCommandInteractionData().String("name"))

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		userID := e.User().ID.String()

		m, err := b.MembershipRepository.GetOrCreate(ctx, userID, groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to join the clan. Please try again later.")
		}
		if m.ClanID != nil {
			return utils.EH.CreateErrorEmbed(e, "You are already in a clan. Leave it first with `/leaveclan`.")
		}

		clans, err := b.ClanRepository.ListByGroup(ctx, groupID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to join the clan. Please try again later.")
		}
		if len(clans) == 0 {
			return utils.EH.CreateInfoEmbed(e, "There are no clans here yet. Found one with `/createclan`!")
		}

		clan := matchClan(query, clans)
		if clan == nil {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No clan matching **%s** found.", query))
		}

		if err := b.ClanRepository.AddMember(ctx, clan.ID); err != nil {
			if errors.Is(err, repositories.ErrClanFull) {
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("**%s** is full (%d/%d).",
					clan.Name, clan.MemberCount, clan.MaxMembers))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to join the clan. Please try again later.")
		}

		if err := b.MembershipRepository.SetClan(ctx, userID, groupID, clan.ID); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to join the clan. Please try again later.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("⚔️ Welcome to **%s**!", clan.Name))
	}
}

// matchClan picks the best fuzzy match for query, falling back to an
// exact case-insensitive comparison when the fuzzy pass finds nothing.
func matchClan(query string, clans []*models.Clan) *models.Clan {
	names := make([]string, len(clans))
	for i, c := range clans {
		names[i] = c.Name
	}

	if matches := fuzzy.Find(query, names); len(matches) > 0 {
		return clans[matches[0].Index]
	}

	for _, c := range clans {
		if strings.EqualFold(c.Name, query) {
			return c
		}
	}
	return nil
}

func LeaveClanHandler(b *guildxp.Bot) handler.CommandHandler {
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
			return utils.EH.CreateErrorEmbed(e, "Failed to leave the clan. Please try again later.")
		}
		if notFound || m.ClanID == nil {
			return utils.EH.CreateInfoEmbed(e, "You are not in a clan.")
		}

		clan, err := b.ClanRepository.GetByID(ctx, *m.ClanID)
		if err != nil {
			// Dangling reference; clear it and move on.
			_ = b.MembershipRepository.ClearClan(ctx, userID, groupID)
			return utils.EH.CreateInfoEmbed(e, "You are not in a clan.")
		}

		// The leader walking out takes the clan with them.
		if clan.LeaderUserID == userID {
			if err := b.MembershipRepository.ClearClanForAll(ctx, clan.ID); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to disband the clan. Please try again later.")
			}
			if err := b.ClanRepository.Delete(ctx, clan.ID); err != nil {
				slog.Error("Failed to delete disbanded clan",
					slog.String("type", "db"),
					slog.Int64("clan_id", clan.ID),
					slog.Any("error", err))
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("⚔️ **%s** has been disbanded.", clan.Name))
		}

		if err := b.MembershipRepository.ClearClan(ctx, userID, groupID); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to leave the clan. Please try again later.")
		}
		if err := b.ClanRepository.RemoveMember(ctx, clan.ID); err != nil {
			slog.Error("Failed to decrement clan member count",
				slog.String("type", "db"),
				slog.Int64("clan_id", clan.ID),
				slog.Any("error", err))
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("You left **%s**.", clan.Name))
	}
}
