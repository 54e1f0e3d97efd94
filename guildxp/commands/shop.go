package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/database/models"
	"github.com/guildxp/guildxp-bot/guildxp/database/repositories"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var Shop = discord.SlashCommandCreate{
	Name:        "shop",
	Description: "🛒 Spend your coins on boosters and perks",
}

var Inventory = discord.SlashCommandCreate{
	Name:        "inventory",
	Description: "🎒 Items you have purchased",
}

func ShopHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		items, err := b.ShopRepository.ListActive(ctx)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load the shop. Please try again later.")
		}
		if len(items) == 0 {
			return utils.EH.CreateInfoEmbed(e, "The shop is empty right now. Check back later!")
		}

		balance := "0"
		if m, notFound, err := fetchMembership(ctx, b, e.User().ID.String(), groupID); err == nil && !notFound {
			balance = utils.FormatNumber(m.Coins)
		}

		var description strings.Builder
		for _, item := range items {
			description.WriteString(fmt.Sprintf("**%s** — %s 💰\n%s\n\n",
				item.Name, utils.FormatNumber(item.Price), item.Description))
		}

		// One buy button per item, five per row.
		var rows []discord.ContainerComponent
		var buttons []discord.InteractiveComponent
		for _, item := range items {
			buttons = append(buttons, discord.NewPrimaryButton(
				item.Name, fmt.Sprintf("/buy/%d", item.ID)))
			if len(buttons) == 5 {
				rows = append(rows, discord.NewActionRow(buttons...))
				buttons = nil
			}
		}
		if len(buttons) > 0 {
			rows = append(rows, discord.NewActionRow(buttons...))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🛒 Shop",
				Description: description.String(),
				Color:       utils.InfoColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Your balance: %s coins", balance),
				},
			}},
			Components: rows,
		})
	}
}

// BuyHandler resolves the buy buttons attached to the shop embed.
func BuyHandler(b *guildxp.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		data, ok := e.Data.(discord.ButtonInteractionData)
		if !ok {
			return fmt.Errorf("invalid interaction type")
		}
		if e.GuildID() == nil {
			return nil
		}

		itemID, err := strconv.ParseInt(strings.TrimPrefix(data.CustomID(), "/buy/"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id in %q", data.CustomID())
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		userID := e.User().ID.String()
		groupID := e.GuildID().String()

		item, err := b.ShopRepository.GetByID(ctx, itemID)
		if err != nil {
			return ephemeralReply(e, "That item no longer exists.", utils.ErrorColor)
		}

		if _, err := b.MembershipRepository.GetOrCreate(ctx, userID, groupID); err != nil {
			return ephemeralReply(e, "Failed to complete the purchase. Please try again later.", utils.ErrorColor)
		}

		if err := b.ShopRepository.Purchase(ctx, userID, groupID, item); err != nil {
			if errors.Is(err, repositories.ErrInsufficientCoins) {
				return ephemeralReply(e,
					fmt.Sprintf("You need %s coins for **%s**.", utils.FormatNumber(item.Price), item.Name),
					utils.WarningColor)
			}
			return ephemeralReply(e, "Failed to complete the purchase. Please try again later.", utils.ErrorColor)
		}

		// No-op unless a shop_purchase quest exists for today.
		today := time.Now().Format(models.QuestDateLayout)
		if err := b.QuestRepository.AddProgress(ctx, userID, groupID, "shop_purchase", today, 1); err != nil {
			slog.Error("Failed to progress purchase quest",
				slog.String("type", "db"),
				slog.String("user_id", userID),
				slog.Any("error", err))
		}

		return ephemeralReply(e,
			fmt.Sprintf("You bought **%s** for %s 💰!", item.Name, utils.FormatNumber(item.Price)),
			utils.SuccessColor)
	}
}

func InventoryHandler(b *guildxp.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		groupID, ok := requireGuild(e)
		if !ok {
			return replyGuildOnly(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.DBTimeout)
		defer cancel()

		inventory, err := b.ShopRepository.ListInventory(ctx, e.User().ID.String(), groupID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return utils.EH.CreateErrorEmbed(e, "Failed to load your inventory. Please try again later.")
		}
		if len(inventory) == 0 {
			return utils.EH.CreateInfoEmbed(e, "Your inventory is empty. Visit the `/shop`!")
		}

		var description strings.Builder
		for _, entry := range inventory {
			if entry.Item == nil {
				continue
			}
			line := fmt.Sprintf("**%s** ×%d", entry.Item.Name, entry.Quantity)
			if entry.ExpiresAt != nil {
				line += fmt.Sprintf(" (expires <t:%d:R>)", entry.ExpiresAt.Unix())
			}
			description.WriteString(line + "\n")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🎒 Inventory",
				Description: description.String(),
				Color:       utils.InfoColor,
			}},
		})
	}
}

func ephemeralReply(e *handler.ComponentEvent, message string, color int) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       color,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
