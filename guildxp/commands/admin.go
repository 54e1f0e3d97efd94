package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Admin = discord.SlashCommandCreate{
	Name:        "admin",
	Description: "🔧 Moderation tools for the XP system",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "addxp",
			Description: "Grant XP to a member",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Member to grant XP to",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Amount of XP",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "addcoins",
			Description: "Grant coins to a member",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Member to grant coins to",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Amount of coins",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "resetuser",
			Description: "Reset a member's progress in this server",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Member to reset",
					Required:    true,
				},
			},
		},
	},
}

func AdminHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		// Plain rejection, not an error; non-admins poking at the
		// command is normal traffic.
		if e.Member() == nil || !e.Member().Permissions.Has(discord.PermissionAdministrator) {
			return utils.EH.CreateEphemeralError(e, "You need administrator permissions for this.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		if target.Bot {
			return utils.EH.CreateEphemeralError(e, "Bots do not take part in the XP system.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		targetID := target.ID.String()
		if _, err := b.MembershipRepository.GetOrCreate(ctx, targetID, groupID); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to apply the change. Please try again later.")
		}

		var sub string
		if data.SubCommandName != nil {
			sub = *data.SubCommandName
		}

		switch sub {
		case "addxp":
			amount := int64(data.Int("amount"))
			if err := b.MembershipRepository.AddStats(ctx, targetID, groupID, amount, 0); err != nil {
				return adminFailed(e, sub, err)
			}
			// Admin grants can cross several thresholds at once, so
			// re-resolve the level fully instead of single-stepping.
			resolveLevel(ctx, b, targetID, groupID)
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Granted %s XP to %s.",
				utils.FormatNumber(amount), target.Mention()))

		case "addcoins":
			amount := int64(data.Int("amount"))
			if err := b.MembershipRepository.AddStats(ctx, targetID, groupID, 0, amount); err != nil {
				return adminFailed(e, sub, err)
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Granted %s coins to %s.",
				utils.FormatNumber(amount), target.Mention()))

		case "resetuser":
			if err := b.MembershipRepository.Reset(ctx, targetID, groupID); err != nil {
				return adminFailed(e, sub, err)
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Reset all progress for %s.", target.Mention()))

		default:
			return utils.EH.CreateErrorEmbed(e, "Unknown subcommand.")
		}
	}
}

func resolveLevel(ctx context.Context, b *guildxp.Bot, userID, groupID string) {
	m, err := b.MembershipRepository.Get(ctx, userID, groupID)
	if err != nil {
		return
	}
	level, err := b.LevelRepository.GetByXP(ctx, m.XP)
	if err != nil || level.ID == m.LevelID {
		return
	}
	if err := b.MembershipRepository.SetLevel(ctx, userID, groupID, level.ID); err != nil {
		slog.Error("Failed to re-resolve level after grant",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Any("error", err))
	}
}

func adminFailed(e *handler.CommandEvent, sub string, err error) error {
	slog.Error("Admin command failed",
		slog.String("type", "db"),
		slog.String("subcommand", sub),
		slog.Any("error", err))
	return utils.EH.CreateErrorEmbed(e, "Failed to apply the change. Please try again later.")
}
