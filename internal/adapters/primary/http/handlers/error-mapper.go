package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"template-registry-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrVersionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrTemplateNameRequired),
		errors.Is(err, domain.ErrMissingExtension),
		errors.Is(err, domain.ErrUnsupportedExtension),
		errors.Is(err, domain.ErrLastVersion),
		errors.Is(err, domain.ErrInvalidFileSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Upstream integration failures
	case errors.Is(err, domain.ErrObjectStoreUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrObjectStoreUnavailable.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
