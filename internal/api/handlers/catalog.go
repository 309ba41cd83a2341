package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/catalog"
	"github.com/jafarshop/storefront/internal/settings"
	pkgerrors "github.com/jafarshop/storefront/pkg/errors"
)

// HandleListProducts serves the storefront catalog view with optional
// search and filter query parameters.
func HandleListProducts(repo *catalog.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !repo.Loaded() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
			return
		}

		filter := catalog.Filter(c.DefaultQuery("filter", string(catalog.FilterAll)))
		if !filter.IsValid() {
			respondError(c, logger, &pkgerrors.ValidationError{
				Field:   "filter",
				Message: "must be one of all, newest, bestselling, sale",
			})
			return
		}

		products := catalog.View(repo.Products(), c.Query("search"), filter)
		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"count":    len(products),
		})
	}
}

// HandleGetProduct serves a single product by id.
func HandleGetProduct(repo *catalog.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !repo.Loaded() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
			return
		}

		product, err := repo.GetByID(c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// HandleGetTheme serves the current theme settings.
func HandleGetTheme(store *settings.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Theme())
	}
}

// HandleGetPopup serves the promotional popup when it is enabled, valid
// and points at a product that still exists. Anything else returns 404
// so the storefront simply shows nothing.
func HandleGetPopup(repo *catalog.Repository, store *settings.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		popup := store.Theme().PopupSettings
		if !popup.Enabled || popup.LinkProductID == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active popup"})
			return
		}

		product, err := repo.GetByID(popup.LinkProductID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no active popup"})
				return
			}
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"popup":   popup,
			"product": product,
		})
	}
}
