package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahleite/plannito-bot/internal/backend"
	"github.com/ahleite/plannito-bot/internal/bot"
	"github.com/ahleite/plannito-bot/internal/category"
	"github.com/ahleite/plannito-bot/internal/classifier"
	"github.com/ahleite/plannito-bot/internal/config"
	"github.com/ahleite/plannito-bot/internal/service"
	"github.com/ahleite/plannito-bot/internal/store"
	"github.com/ahleite/plannito-bot/internal/transport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	var backing store.Backend
	if cfg.StatePath != "" {
		boltBacking, err := store.NewBoltBackend(cfg.StatePath)
		if err != nil {
			log.Fatal(err)
		}
		defer boltBacking.Close()
		backing = boltBacking
	}
	conversations := store.New(backing)

	keywords, err := category.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		log.Fatal(err)
	}

	client := backend.NewClient(cfg.APIURL, cfg.APIEmail, cfg.APIPassword)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := client.Login(ctx)
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("authenticated against backend", "user", session.User.Name, "categories", len(session.Categories))

	tg, err := transport.NewTelegram(cfg.TelegramToken, logger)
	if err != nil {
		log.Fatal(err)
	}

	ledger := service.NewLedger()

	b := bot.New(bot.Options{
		Transport:    tg,
		Backend:      client,
		Classifier:   classifier.NewAnthropic(cfg.AnthropicKey, cfg.ClassifierModel),
		Store:        conversations,
		Ledger:       ledger,
		Resolver:     category.NewResolver(keywords),
		Logger:       logger,
		ReplyTimeout: cfg.ReplyTimeout,
		PendingTTL:   cfg.PendingTTL,
	})

	reconciler := service.NewReconciler(conversations, client, logger)
	if err := reconciler.Start(cfg.ReconcileSchedule); err != nil {
		log.Fatal(err)
	}
	defer func() { <-reconciler.Stop().Done() }()

	logger.Info("bot started")
	tg.Listen(ctx, b.Dispatch)
}
