package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// WriteError maps ledger error types onto HTTP statuses. Shared by the
// donation and expense handlers, which surface the same taxonomy.
func WriteError(c *gin.Context, err error) {
	var (
		validation   *domain.ValidationError
		insufficient *domain.InsufficientFundsError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     insufficient.Error(),
			"category":  string(insufficient.Category),
			"method":    string(insufficient.Method),
			"available": insufficient.Available.String(),
			"required":  insufficient.Required.String(),
		})
	case errors.Is(err, domain.ErrFundNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVersionConflict):
		// Retry budget exhausted under write contention.
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
