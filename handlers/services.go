package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CalendarDisabledHandler answers calendar endpoints when no Google
// OAuth client is configured.
func CalendarDisabledHandler(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar integration is not configured"})
}
