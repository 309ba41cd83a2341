package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/localstore"
	"github.com/jafarshop/storefront/internal/store"
	"github.com/jafarshop/storefront/internal/store/local"
	"github.com/jafarshop/storefront/internal/store/mongodb"
	"github.com/jafarshop/storefront/internal/store/postgres"
)

// Seeds the configured store backend with a small demo catalog so a fresh
// deployment has something to show.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()

	var adapter store.Adapter
	switch cfg.StoreBackend {
	case "postgres":
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		adapter = postgres.NewAdapter(db, logger)
	case "mongodb":
		mdb, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to MongoDB: %v\n", err)
			os.Exit(1)
		}
		defer mdb.Client().Disconnect(ctx)
		adapter = mongodb.NewAdapter(mdb, logger)
	default:
		ls, err := localstore.Open(cfg.DataDir, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open local store: %v\n", err)
			os.Exit(1)
		}
		defer ls.Close()
		adapter = local.NewAdapter(ls, logger)
	}

	products := demoCatalog(adapter.AssignsIDs())

	if err := adapter.ReplaceProducts(ctx, products); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to seed catalog: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Catalog seeded successfully!\n\n")
	fmt.Printf("Backend: %s\n", adapter.Name())
	for _, p := range products {
		fmt.Printf("  - %s (Rp %.0f)\n", p.Name, p.Price)
	}
}

func demoCatalog(backendAssignsIDs bool) []domain.Product {
	now := time.Now().UTC()

	newID := func() string {
		if backendAssignsIDs {
			// The backend will mint its own ids on insert
			return ""
		}
		return uuid.New().String()
	}

	return []domain.Product{
		{
			ID:            newID(),
			CreatedAt:     now,
			Name:          "T-Shirt Keren",
			Description:   "Kaos katun premium dengan desain modern",
			Price:         120000,
			OriginalPrice: 150000,
			SalesCount:    42,
			Stock:         10,
			Category:      "Pakaian",
			ImageURL:      "https://placehold.co/400x400?text=T-Shirt",
			Variants: []domain.Variant{
				{ID: "s", Name: "S", PriceModifier: 0},
				{ID: "m", Name: "M", PriceModifier: 0},
				{ID: "l", Name: "L", PriceModifier: 5000},
			},
		},
		{
			ID:          newID(),
			CreatedAt:   now.Add(-24 * time.Hour),
			Name:        "Sepatu Lari Cepat",
			Description: "Sepatu ringan untuk lari harian",
			Price:       750000,
			SalesCount:  15,
			Stock:       5,
			Category:    "Sepatu",
			ImageURL:    "https://placehold.co/400x400?text=Sepatu",
		},
		{
			ID:          newID(),
			CreatedAt:   now.Add(-48 * time.Hour),
			Name:        "Topi Gaul",
			Description: "Topi baseball klasik",
			Price:       85000,
			SalesCount:  73,
			Stock:       0,
			Category:    "Aksesoris",
			ImageURL:    "https://placehold.co/400x400?text=Topi",
		},
	}
}
