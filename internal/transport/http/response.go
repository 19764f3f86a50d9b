package http

import "github.com/gin-gonic/gin"

// RespondError writes the store's error payload shape.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
