package middleware

import (
	"log"

	"main/utils"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware converts panics into a 500 response instead of killing
// the process.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Panic recovered: %v", recovered)
		utils.TrackError("panic", "handler")
		utils.InternalError(c, "Internal server error")
		c.Abort()
	})
}
