package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/catalog"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/imagestore"
	"github.com/jafarshop/storefront/internal/settings"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repo *catalog.Repository, ledger *cart.Ledger, store *settings.Store, images imagestore.Storage, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Locally stored product images are served straight from disk
	if cfg.Image.Backend == "local" {
		router.Static(cfg.Image.URLPrefix, cfg.Image.LocalDir)
	}

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Storefront routes
		v1.GET("/products", handlers.HandleListProducts(repo, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(repo, logger))
		v1.GET("/theme", handlers.HandleGetTheme(store))
		v1.GET("/popup", handlers.HandleGetPopup(repo, store, logger))

		// Cart and checkout
		v1.GET("/cart", handlers.HandleGetCart(ledger, repo))
		v1.POST("/cart/items", handlers.HandleAddCartItem(ledger, logger))
		v1.PUT("/cart/items", handlers.HandleSetCartQuantity(ledger, logger))
		v1.DELETE("/cart/items", handlers.HandleRemoveCartItem(ledger, logger))
		v1.DELETE("/cart", handlers.HandleClearCart(ledger))
		v1.POST("/checkout", handlers.HandleCheckout(ledger, repo, store, logger))

		// Admin routes
		adminRoutes := v1.Group("/admin")
		{
			adminRoutes.POST("/products", handlers.HandleCreateProduct(repo, logger))
			adminRoutes.PUT("/products/:id", handlers.HandleUpdateProduct(repo, logger))
			adminRoutes.DELETE("/products/:id", handlers.HandleDeleteProduct(repo, logger))
			adminRoutes.POST("/products/import", handlers.HandleImportProducts(repo, logger))
			adminRoutes.POST("/images", handlers.HandleUploadImage(images, logger))
			adminRoutes.PUT("/theme", handlers.HandleUpdateTheme(store, logger))
			adminRoutes.POST("/theme/background/reset", handlers.HandleResetBackground(store, logger))
			adminRoutes.PUT("/whatsapp", handlers.HandleSetWhatsAppNumber(store, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
