package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/catalog"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/settings"
	"github.com/jafarshop/storefront/internal/whatsapp"
)

// Price carries no binding rule: zero is a legal price (a free product)
// and gin's required tag rejects zero values. ValidateProduct is the gate.
type productRequest struct {
	Name             string           `json:"name" binding:"required"`
	Description      string           `json:"description"`
	Price            float64          `json:"price"`
	OriginalPrice    float64          `json:"originalPrice"`
	SalesCount       int              `json:"salesCount"`
	Stock            int              `json:"stock"`
	Category         string           `json:"category"`
	ImageURL         string           `json:"imageUrl"`
	WhatsAppImageURL string           `json:"whatsappImageUrl"`
	Variants         []domain.Variant `json:"variants"`
}

func (r productRequest) toDomain() domain.Product {
	return domain.Product{
		Name:             r.Name,
		Description:      r.Description,
		Price:            r.Price,
		OriginalPrice:    r.OriginalPrice,
		SalesCount:       r.SalesCount,
		Stock:            r.Stock,
		Category:         r.Category,
		ImageURL:         r.ImageURL,
		WhatsAppImageURL: r.WhatsAppImageURL,
		Variants:         r.Variants,
	}
}

// HandleCreateProduct adds a product to the catalog.
func HandleCreateProduct(repo *catalog.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		product, err := repo.Add(c.Request.Context(), req.toDomain())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Product created", zap.String("id", product.ID), zap.String("name", product.Name))
		c.JSON(http.StatusCreated, product)
	}
}

// HandleUpdateProduct replaces an existing product's fields.
func HandleUpdateProduct(repo *catalog.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		product := req.toDomain()
		product.ID = c.Param("id")
		if err := repo.Update(c.Request.Context(), product); err != nil {
			respondError(c, logger, err)
			return
		}

		updated, err := repo.GetByID(product.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// HandleDeleteProduct removes a product from the catalog.
func HandleDeleteProduct(repo *catalog.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := repo.Delete(c.Request.Context(), id); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Product deleted", zap.String("id", id))
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}

type importRequest struct {
	Products []productRequest `json:"products" binding:"required"`
}

// HandleImportProducts replaces the whole catalog in one operation. The
// payload is validated before anything changes; a store failure rolls the
// catalog back to its previous contents.
func HandleImportProducts(repo *catalog.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req importRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		products := make([]domain.Product, 0, len(req.Products))
		for _, p := range req.Products {
			products = append(products, p.toDomain())
		}

		if err := repo.ImportAll(c.Request.Context(), products); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Catalog imported", zap.Int("products", len(products)))
		c.JSON(http.StatusOK, gin.H{"imported": len(products)})
	}
}

// HandleUpdateTheme applies a partial theme update. The resulting popup
// configuration is validated against the merged state, not just the patch.
func HandleUpdateTheme(store *settings.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch settings.ThemePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		preview := store.Preview(patch)
		if err := settings.ValidatePopup(preview.PopupSettings); err != nil {
			respondError(c, logger, err)
			return
		}

		if err := store.UpdateTheme(c.Request.Context(), patch); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, store.Theme())
	}
}

// HandleResetBackground clears the theme background image.
func HandleResetBackground(store *settings.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.ResetBackgroundImage(c.Request.Context()); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, store.Theme())
	}
}

type whatsAppRequest struct {
	Number string `json:"number" binding:"required"`
}

// HandleSetWhatsAppNumber updates the order contact channel. The number
// is normalized to digits before it is stored.
func HandleSetWhatsAppNumber(store *settings.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req whatsAppRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		number, err := whatsapp.NormalizeNumber(req.Number)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if err := store.SetWhatsAppNumber(c.Request.Context(), number); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("WhatsApp number updated")
		c.JSON(http.StatusOK, gin.H{"number": store.WhatsAppNumber()})
	}
}
