package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/imagestore"
)

// maxImageSize caps uploads at 5 MB
const maxImageSize = 5 << 20

// HandleUploadImage stores a product image and returns the URL to put on
// the product record. With IMAGE_STORAGE=none the upload is accepted but
// produces no URL; products then reference external images only.
func HandleUploadImage(images imagestore.Storage, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required", "details": err.Error()})
			return
		}
		if header.Size > maxImageSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds the 5 MB limit"})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload", "details": err.Error()})
			return
		}
		defer file.Close()

		result, err := images.Put(c.Request.Context(), file, imagestore.PutInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		})
		if err != nil {
			logger.Error("Image upload failed", zap.String("filename", header.Filename), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "image storage rejected the upload"})
			return
		}

		logger.Info("Image uploaded", zap.String("key", result.Key))
		c.JSON(http.StatusCreated, gin.H{"key": result.Key, "url": result.URL})
	}
}
