// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/bv-cosmetics/storefront/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	sessionIDKey = "session_id"

	// sessionTokenHeader carries the guest token for clients without cookies
	sessionTokenHeader = "X-Session-Token"
)

// Session resolves the guest session from its cookie (or header) and
// issues a new one when it is missing, expired or forged
func Session(manager *session.Manager, cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	maxAge := int(manager.Expiry().Seconds())

	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || token == "" {
			token = c.GetHeader(sessionTokenHeader)
		}

		sessionID := ""
		if token != "" {
			if sessionID, err = manager.Validate(token); err != nil {
				log.WithError(err).WithField("request_id", GetRequestID(c)).Debug("Discarding invalid session token")
				sessionID = ""
			}
		}

		if sessionID == "" {
			sessionID, token, err = manager.NewSession()
			if err != nil {
				log.WithError(err).Error("Failed to issue session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to start session",
				})
				return
			}

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Session.CookieName, token, maxAge, "/", "", cfg.Session.Secure, true)
			c.Header(sessionTokenHeader, token)
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the guest session id from gin context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetString(sessionIDKey)
	return sessionID, sessionID != ""
}
