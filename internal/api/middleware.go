package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const ctxAdminID = "admin_id"

// requireAdmin пропускает запросы с заголовком Authorization: Bearer <токен сессии>.
func requireAdmin(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")
		if !strings.HasPrefix(bearer, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется токен администратора"})
			return
		}
		session, err := sessions.SessionByToken(strings.TrimSpace(bearer[len("Bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(ctxAdminID, session.UserID)
		c.Next()
	}
}

// requestLogger пишет каждый запрос в logrus.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"component": "api",
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Warn("HTTP запрос с ошибкой")
			return
		}
		entry.Debug("HTTP запрос")
	}
}
