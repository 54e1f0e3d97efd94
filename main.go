package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/guildxp/guildxp-bot/guildxp"
	"github.com/guildxp/guildxp-bot/guildxp/commands"
	"github.com/guildxp/guildxp-bot/guildxp/database"
	"github.com/guildxp/guildxp-bot/guildxp/database/repositories"
	"github.com/guildxp/guildxp-bot/guildxp/handlers"
	"github.com/guildxp/guildxp-bot/guildxp/logger"
	"github.com/guildxp/guildxp-bot/guildxp/progression"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting GuildXP Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := guildxp.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbConfig := database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	}

	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing database schema...")
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	b := guildxp.New(*cfg, version, commit)
	b.DB = db

	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.GroupRepository = repositories.NewGroupRepository(db.BunDB())
	b.MembershipRepository = repositories.NewMembershipRepository(db.BunDB())
	b.LevelRepository = repositories.NewLevelRepository(db.BunDB())
	b.ShopRepository = repositories.NewShopRepository(db.BunDB())
	b.BadgeRepository = repositories.NewBadgeRepository(db.BunDB())
	b.QuestRepository = repositories.NewQuestRepository(db.BunDB())
	b.ClanRepository = repositories.NewClanRepository(db.BunDB())
	b.MessageLogRepository = repositories.NewMessageLogRepository(db.BunDB())

	engine := progression.NewEngine(progression.Config{
		Cooldown: cfg.Progression.Cooldown(),
		MinXP:    cfg.Progression.MinXPPerMessage,
		MaxXP:    cfg.Progression.MaxXPPerMessage,
		MinCoins: cfg.Progression.MinCoinsPerMsg,
		MaxCoins: cfg.Progression.MaxCoinsPerMsg,
	}, rand.New(rand.NewSource(time.Now().UnixNano())))

	b.Progression = progression.NewService(engine, progression.Repositories{
		Users:       b.UserRepository,
		Groups:      b.GroupRepository,
		Memberships: b.MembershipRepository,
		Levels:      b.LevelRepository,
		Badges:      b.BadgeRepository,
		Quests:      b.QuestRepository,
		Clans:       b.ClanRepository,
		MessageLogs: b.MessageLogRepository,
	})

	h := handler.New()

	// Progress commands
	h.Command("/start", handlers.WrapWithLogging("start", commands.StartHandler(b)))
	h.Command("/help", handlers.WrapWithLogging("help", commands.HelpHandler(b)))
	h.Command("/xp", handlers.WrapWithLogging("xp", commands.XPHandler(b)))
	h.Command("/level", handlers.WrapWithLogging("level", commands.LevelHandler(b)))
	h.Command("/progress", handlers.WrapWithLogging("progress", commands.ProgressHandler(b)))
	h.Command("/profile", handlers.WrapWithLogging("profile", commands.ProfileHandler(b)))
	h.Component("/profile/badges/", handlers.WrapComponentWithLogging("profile_badges", commands.ProfileBadgesHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))

	// Goals
	h.Command("/daily", handlers.WrapWithLogging("daily", commands.DailyHandler(b)))
	h.Command("/badges", handlers.WrapWithLogging("badges", commands.BadgesHandler(b)))

	// Economy
	h.Command("/shop", handlers.WrapWithLogging("shop", commands.ShopHandler(b)))
	h.Command("/inventory", handlers.WrapWithLogging("inventory", commands.InventoryHandler(b)))
	h.Component("/buy/", handlers.WrapComponentWithLogging("buy", commands.BuyHandler(b)))

	// Clans
	h.Command("/clan", handlers.WrapWithLogging("clan", commands.ClanHandler(b)))
	h.Command("/createclan", handlers.WrapWithLogging("createclan", commands.CreateClanHandler(b)))
	h.Command("/joinclan", handlers.WrapWithLogging("joinclan", commands.JoinClanHandler(b)))
	h.Command("/leaveclan", handlers.WrapWithLogging("leaveclan", commands.LeaveClanHandler(b)))

	// Moderation
	h.Command("/admin", handlers.WrapWithLogging("admin", commands.AdminHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
