package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"

	"discord-strada/internal/billing"
	"discord-strada/internal/config"
	"discord-strada/internal/controller"
	"discord-strada/internal/db"
	"discord-strada/internal/discord"
	"discord-strada/internal/http"
	"discord-strada/internal/parse"
	"discord-strada/internal/repository"
	"discord-strada/internal/service"
)

const version = "v1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}

	conn, err := db.NewClickHouse(ctx, cfg)
	if err != nil {
		log.Fatal("failed to connect to clickhouse", "error", err)
	}
	defer conn.Close()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		log.Fatal("failed to connect to postgres", "error", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, conn, pool); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	activities := repository.NewActivityRepository(conn)
	teams := repository.NewTeamRepository(pool)

	worker := service.NewBatchActivityWorker(activities, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	activityService := service.NewActivityService(activities, worker, cfg.FutureTolerance)

	handlers := service.NewHandlers(
		teams,
		service.NewLeaderboard(activities, teams),
		service.NewStats(activities),
		parse.NewParser(),
		billing.Disabled{},
		cfg.ServiceURL,
		version,
	)
	dispatcher := service.NewDispatcher(handlers.Routes(), teams)

	verifier, err := discord.NewVerifier(cfg.DiscordPublicKey)
	if err != nil {
		log.Fatal("failed to parse discord public key", "error", err)
	}

	if cfg.DiscordBotToken != "" && cfg.DiscordApplicationID != "" {
		client, err := discord.NewClient(cfg.DiscordBotToken, cfg.DiscordApplicationID)
		if err != nil {
			log.Fatal("failed to build discord client", "error", err)
		}
		if err := client.InstallCommands(); err != nil {
			log.Fatal("failed to install slash commands", "error", err)
		}
		log.Info("slash commands installed", "application_id", cfg.DiscordApplicationID)
	}

	interactionController := controller.NewInteractionController(verifier, dispatcher, activityService)
	server := http.NewServer(cfg, interactionController)

	go func() {
		log.Info("server listening", "addr", cfg.HTTPPort)
		if err := server.Listen(cfg.HTTPPort); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	worker.Shutdown()
}
