package commands

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Start,
	Help,
	XP,
	Level,
	Progress,
	Profile,
	Leaderboard,
	Daily,
	Badges,
	Shop,
	Inventory,
	Clan,
	CreateClan,
	JoinClan,
	LeaveClan,
	Admin,
}
