package main

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/config"
	"github.com/arrotondami/wealth-engine/internal/events/kafka"
	"github.com/arrotondami/wealth-engine/internal/interfaces"
	"github.com/arrotondami/wealth-engine/internal/ledger"
	"github.com/arrotondami/wealth-engine/internal/logger"
	"github.com/arrotondami/wealth-engine/internal/server"
	"github.com/arrotondami/wealth-engine/internal/session"
	filestore "github.com/arrotondami/wealth-engine/internal/storage/file"
	"github.com/arrotondami/wealth-engine/internal/storage/memory"
	"github.com/arrotondami/wealth-engine/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Development, logger.LogLevel(cfg.LogLevel)); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx := context.Background()

	var (
		ledgerStore   interfaces.LedgerStore
		identityStore interfaces.IdentityStore
	)
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		ledgerStore, identityStore = store, store
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("opening postgres", zap.Error(err))
		}
		defer db.Close()
		store := postgres.NewStore(db, log)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal("ensuring postgres schema", zap.Error(err))
		}
		ledgerStore, identityStore = store, store
	default:
		store, err := filestore.NewStore(cfg.DataDir, log)
		if err != nil {
			log.Fatal("opening file store", zap.Error(err))
		}
		ledgerStore, identityStore = store, store
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
		log.Info("event publishing enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	engine := ledger.NewEngine(ledgerStore, publisher, log)
	sessions := session.NewController(identityStore, engine, publisher, log)

	if user, err := sessions.Resume(ctx); err != nil {
		log.Warn("could not resume previous session", zap.Error(err))
	} else if user != nil {
		log.Info("previous session restored", zap.String("user_id", user.ID))
	}

	srv := server.New(engine, sessions, log)
	log.Info("starting server", zap.String("addr", cfg.ListenAddr))
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
