package utils

import "time"

const (
	// Embed colors
	SuccessColor = 0x57F287
	ErrorColor   = 0xED4245
	WarningColor = 0xFEE75C
	InfoColor    = 0x5865F2

	// Pagination
	LeaderboardPerPage = 10

	// Command handling
	CommandTimeout = 10 * time.Second
	DBTimeout      = 5 * time.Second
)
