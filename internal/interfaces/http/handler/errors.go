package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salesorders/internal/domain/apperror"
)

// respondError translates the domain error taxonomy into HTTP statuses.
// Unknown errors stay opaque to the client.
func respondError(c *gin.Context, err error) {
	var notFound apperror.NotFoundError
	var noLines apperror.NoLinesError
	var duplicate apperror.DuplicateLineError
	var illegal apperror.IllegalStateError
	var rule apperror.BusinessRuleError
	var invalid apperror.InvalidArgumentError

	switch {
	case errors.As(err, &notFound), errors.As(err, &noLines):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &illegal), errors.As(err, &rule), errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
