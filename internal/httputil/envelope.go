package httputil

import "github.com/gin-gonic/gin"

// Fail writes the uniform error envelope {"success": false, "error": msg}.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// OK writes {"success": true} merged with fields.
func OK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}
