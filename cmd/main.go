package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jessevdk/go-flags"

	"remindbot/cache"
	"remindbot/clients/discord"
	"remindbot/commands"
	"remindbot/commands/builtin"
	"remindbot/config"
	"remindbot/core/log"
	"remindbot/db"
	"remindbot/handlers"
	"remindbot/i18n"
	"remindbot/middleware"
	"remindbot/services/blacklist"
	"remindbot/services/identity"
	"remindbot/services/prefixes"
	"remindbot/services/timers"
	"remindbot/services/txmanager"
	"remindbot/usecases/dispatch"
)

type Options struct {
	EnvFile string `long:"env-file" description:"Path to a .env file to load before reading the environment"`
	Migrate bool   `long:"migrate"  description:"Apply the database schema before starting"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error("❌ Fatal error", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(opts Options) error {
	var envFiles []string
	if opts.EnvFile != "" {
		envFiles = append(envFiles, opts.EnvFile)
	}

	// provisional logger so that config loading can report problems
	if err := log.Setup(os.Getenv("ENVIRONMENT"), "info"); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := log.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Sync()

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "remindbot",
	})

	ctx := context.Background()

	dbConn, err := db.NewConnection(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	schema := db.SchemaFor(cfg.Database.Driver, cfg.Database.Schema)
	if opts.Migrate || cfg.Database.Driver == db.DriverSQLite {
		if err := db.Migrate(ctx, dbConn, schema); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	prefixCache, err := newPrefixCache(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}

	catalog, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("failed to load language packs: %w", err)
	}
	if !catalog.Supports(cfg.LocalLanguage) {
		return fmt.Errorf("LOCAL_LANGUAGE %q has no language pack", cfg.LocalLanguage)
	}

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordClient := discord.NewDiscordClient(session)

	guildsRepo := db.NewSQLGuildsRepository(dbConn, schema)
	channelsRepo := db.NewSQLChannelsRepository(dbConn, schema)
	usersRepo := db.NewSQLUsersRepository(dbConn, schema)
	timersRepo := db.NewSQLTimersRepository(dbConn, schema)
	txManager := txmanager.NewTransactionManager(dbConn)

	prefixesService := prefixes.NewPrefixesService(guildsRepo, prefixCache, txManager, cfg.DefaultPrefix)
	blacklistService := blacklist.NewBlacklistService(channelsRepo)
	identityService := identity.NewIdentityService(usersRepo, channelsRepo, txManager, discordClient, identity.Config{
		DefaultLanguage: cfg.LocalLanguage,
		DefaultTimezone: cfg.LocalTimezone,
		Languages:       catalog.Languages(),
	})
	timersService := timers.NewTimersService(timersRepo, txManager, time.Now)

	registry := commands.NewRegistry(cfg.Discord.ClientID)
	if err := builtin.Register(registry); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	if err := registry.Build(); err != nil {
		return fmt.Errorf("failed to build command registry: %w", err)
	}

	dispatcher := dispatch.NewDispatcher(
		registry,
		prefixesService,
		blacklistService,
		blacklistService,
		identityService,
		timersService,
		discordClient,
		catalog,
		dispatch.Config{IgnoreBots: cfg.IgnoreBots, DashboardURL: cfg.DashboardURL},
	)

	eventsHandler := handlers.NewDiscordEventsHandler(
		session,
		dispatcher,
		alertMiddleware.WrapMessageHandler,
		cfg.WorkerCount,
	)
	if err := eventsHandler.StartBot(); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(handlers.NewRouter(cfg.CORSAllowedOrigins)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	go handleGracefulShutdown(server, eventsHandler, alertMiddleware)

	log.Info("🚀 Server starting", "port", cfg.Port, "commands", len(registry.Commands()))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		eventsHandler.StopBot()
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("🛑 Server stopped")
	return nil
}

func newPrefixCache(ctx context.Context, redisURL string) (cache.PrefixCache, error) {
	if redisURL == "" {
		return cache.NewMemoryPrefixCache(), nil
	}

	client, err := cache.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return cache.NewRedisPrefixCache(client), nil
}

func handleGracefulShutdown(
	server *http.Server,
	eventsHandler *handlers.DiscordEventsHandler,
	alertMiddleware *middleware.ErrorAlertMiddleware,
) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Info("🛑 Shutdown signal received, stopping bot and server")

	eventsHandler.StopBot()
	alertMiddleware.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("❌ Server forced to shutdown", "error", err)
	}
}
