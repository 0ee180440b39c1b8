package handler

import (
	"context"
	"net/http"

	apperrors "github.com/Kosench/traced-url-shortener/internal/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type URLShortener interface {
	Shorten(ctx context.Context, originalURL string) (string, error)
}

type URLHandler struct {
	urlService URLShortener
	logger     *zap.Logger
}

func NewURLHandler(urlService URLShortener, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		urlService: urlService,
		logger:     logger,
	}
}

// ShortenURL serves GET /shorten?url=<original>. The short URL is returned
// as the plain-text body.
func (h *URLHandler) ShortenURL(c *gin.Context) {
	shortURL, err := h.urlService.Shorten(c.Request.Context(), c.Query("url"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.String(http.StatusOK, shortURL)
}

// handleError maps service errors to HTTP status codes
func (h *URLHandler) handleError(c *gin.Context, err error) {
	if apperrors.IsValidationError(err) {
		validationErr := apperrors.GetValidationError(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Message,
			"field":   validationErr.Field,
		})
		return
	}

	// Server-side failures are attached to the context so the request log
	// and the server span report them. Client errors are not.
	_ = c.Error(err)

	if apperrors.IsBusinessError(err) {
		businessErr := apperrors.GetBusinessError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "business_error",
			"message": businessErr.Message,
			"code":    businessErr.Code,
		})
		return
	}

	h.logger.Error("Unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An unexpected error occurred",
	})
}
