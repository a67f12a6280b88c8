// Package handler exposes the trading platform over HTTP.
package handler

import (
	"errors"
	"net/http"

	"gameswap/internal/apperr"
	"gameswap/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError maps the service error taxonomy onto HTTP status codes.
// Anything unrecognized is a 500 with a generic message so internal
// details never leak to clients.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRateLimited) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		return
	}

	var cf *apperr.ConflictError
	if errors.As(err, &cf) {
		body := gin.H{"error": cf.Error()}
		if cf.ExistingID != "" {
			body["existing_id"] = cf.ExistingID
		}
		c.JSON(http.StatusConflict, body)
		return
	}

	switch apperr.Kind(err) {
	case "validation":
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case "authentication":
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case "authorization":
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case "not_found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case "state":
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case "connectivity":
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
