package commands

import (
	"context"
	"database/sql"
	"errors"

	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/database/models"
	"github.com/guildxp/guildxp-bot/guildxp/utils"
)

var inlineTrue = true

// requireGuild rejects DM invocations; every progression command is
// group-scoped.
func requireGuild(e *handler.CommandEvent) (string, bool) {
	if e.GuildID() == nil {
		return "", false
	}
	return e.GuildID().String(), true
}

// fetchMembership loads the caller's progression row. A missing row is
// reported as notFound rather than an error so commands can answer
// "send a message first".
func fetchMembership(ctx context.Context, b *guildxp.Bot, userID, groupID string) (m *models.Membership, notFound bool, err error) {
	m, err = b.MembershipRepository.Get(ctx, userID, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return m, false, nil
}

func replyNoMembership(e *handler.CommandEvent) error {
	return utils.EH.CreateInfoEmbed(e, "You have no progress here yet. Send a message to get started!")
}

func replyGuildOnly(e *handler.CommandEvent) error {
	return utils.EH.CreateEphemeralError(e, "This command only works inside a server.")
}
