package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// invalidRequest answers a body that failed to bind. details is always a
// list of messages, as for rejected checkouts.
func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": []string{err.Error()},
	})
}
