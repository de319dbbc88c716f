package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fincompass-backend/internal/logger"
)

type AdminMiddleware struct {
	log        *logger.Logger
	adminToken string
}

func NewAdminMiddleware(log *logger.Logger, adminToken string) *AdminMiddleware {
	return &AdminMiddleware{log: log.With("Middleware", "AdminMiddleware"), adminToken: adminToken}
}

// RequireAdmin guards operational endpoints like the batch trigger behind a
// shared token. With no token configured the endpoints are disabled.
func (am *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if am.adminToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin endpoints disabled"})
			return
		}
		provided := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(am.adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
