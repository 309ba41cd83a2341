package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/catalog"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/imagestore"
	"github.com/jafarshop/storefront/internal/localstore"
	"github.com/jafarshop/storefront/internal/settings"
	"github.com/jafarshop/storefront/internal/store"
	"github.com/jafarshop/storefront/internal/store/local"
	"github.com/jafarshop/storefront/internal/store/mongodb"
	"github.com/jafarshop/storefront/internal/store/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	// The durable local store always runs: it backs the cart, and for the
	// local backend the catalog and settings as well.
	ls, err := localstore.Open(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}
	defer ls.Close()

	// Select the store adapter
	var adapter store.Adapter
	switch cfg.StoreBackend {
	case "postgres":
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		adapter = postgres.NewAdapter(db, logger)
	case "mongodb":
		mdb, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer mdb.Client().Disconnect(ctx)
		adapter = mongodb.NewAdapter(mdb, logger)
	default:
		adapter = local.NewAdapter(ls, logger)
	}
	logger.Info("Store adapter selected", zap.String("backend", adapter.Name()))

	images, err := imagestore.New(ctx, cfg.Image)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	repo := catalog.NewRepository(adapter, images, cfg.SyncTimeout, logger)
	settingsStore := settings.NewStore(adapter, cfg.SyncTimeout, cfg.WhatsAppNumber, logger)
	ledger := cart.NewLedger(ls, logger)

	// A failed initial load is not fatal: the catalog reports unavailable
	// until a later load or store change succeeds.
	if err := repo.Load(ctx); err != nil {
		logger.Warn("Initial catalog load failed", zap.Error(err))
	}
	if err := settingsStore.Load(ctx); err != nil {
		logger.Warn("Initial settings load failed", zap.Error(err))
	}

	// React to writes from other processes sharing the data directory
	ls.Subscribe(ledger.HandleStoreChange)
	if cfg.StoreBackend == "local" {
		ls.Subscribe(func(key string, value []byte) {
			if key == local.ProductsKey {
				repo.HandleStoreChange(key, value)
			}
		})
	}

	router := api.NewRouter(cfg, repo, ledger, settingsStore, images, logger)

	logger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
