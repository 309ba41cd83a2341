package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/catalog"
	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/settings"
	"github.com/jafarshop/storefront/pkg/money"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type cartItemKeyRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId"`
}

// HandleGetCart serves the cart contents with the derived count and
// subtotal. Items whose product has been removed still show up but
// contribute nothing to the subtotal.
func HandleGetCart(ledger *cart.Ledger, repo *catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		subtotal := ledger.Subtotal(repo.Lookup())
		c.JSON(http.StatusOK, gin.H{
			"items":             ledger.Items(),
			"count":             ledger.ItemCount(),
			"subtotal":          subtotal,
			"subtotalFormatted": money.Format(subtotal),
		})
	}
}

// HandleAddCartItem adds a quantity for a product and variant, merging
// with any existing line for the same pair.
func HandleAddCartItem(ledger *cart.Ledger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		ledger.AddItem(req.ProductID, req.VariantID, req.Quantity)
		c.JSON(http.StatusOK, gin.H{"items": ledger.Items(), "count": ledger.ItemCount()})
	}
}

// HandleSetCartQuantity sets the quantity for a line outright. Zero or
// negative removes the line.
func HandleSetCartQuantity(ledger *cart.Ledger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		ledger.SetQuantity(req.ProductID, req.VariantID, req.Quantity)
		c.JSON(http.StatusOK, gin.H{"items": ledger.Items(), "count": ledger.ItemCount()})
	}
}

// HandleRemoveCartItem removes one line from the cart.
func HandleRemoveCartItem(ledger *cart.Ledger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		ledger.RemoveItem(req.ProductID, req.VariantID)
		c.JSON(http.StatusOK, gin.H{"items": ledger.Items(), "count": ledger.ItemCount()})
	}
}

// HandleClearCart empties the cart.
func HandleClearCart(ledger *cart.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger.Clear()
		c.JSON(http.StatusOK, gin.H{"items": ledger.Items(), "count": 0})
	}
}

type checkoutRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"paymentMethod"`
}

// HandleCheckout composes the WhatsApp order message from the current
// cart and clears it on success. Cart lines whose product no longer
// exists are skipped.
func HandleCheckout(ledger *cart.Ledger, repo *catalog.Repository, store *settings.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		if !checkout.IsValidPaymentMethod(req.PaymentMethod) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown payment method"})
			return
		}

		lookup := repo.Lookup()
		var lines []checkout.Line
		for _, item := range ledger.Items() {
			product, ok := lookup(item.ProductID)
			if !ok {
				logger.Warn("Skipping cart line for missing product", zap.String("product_id", item.ProductID))
				continue
			}
			lines = append(lines, checkout.Line{
				Product:   product,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			})
		}

		order, err := checkout.Compose(req.CustomerName, store.WhatsAppNumber(), lines, req.Notes, req.PaymentMethod)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		ledger.Clear()
		logger.Info("Order composed",
			zap.String("customer", req.CustomerName),
			zap.Int("lines", len(lines)),
			zap.Float64("total", order.Total))

		c.JSON(http.StatusOK, gin.H{
			"message":        order.Message,
			"link":           order.Link,
			"total":          order.Total,
			"totalFormatted": money.Format(order.Total),
		})
	}
}
