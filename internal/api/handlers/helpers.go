package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "github.com/jafarshop/storefront/pkg/errors"
)

// respondError maps core errors onto HTTP statuses. Validation failures
// mirror gin binding failures (422); action errors have already been
// rolled back by the time we see them.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *pkgerrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": validationErr.Error(),
		})
		return
	}

	var notFound *pkgerrors.ErrNotFound
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var loadErr *pkgerrors.LoadError
	if errors.As(err, &loadErr) {
		logger.Error("Load failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store temporarily unavailable"})
		return
	}

	var actionErr *pkgerrors.ActionError
	if errors.As(err, &actionErr) {
		logger.Error("Store action failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": actionErr.Op + " failed, change was rolled back"})
		return
	}

	logger.Error("Unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
