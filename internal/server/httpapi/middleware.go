package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/server/models"
	"github.com/dmitrijs2005/flashnest/internal/server/services"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "user"

// Authenticated resolves the session cookie to a user and stores it in the
// request context. Inactive users pass.
func (h *Handler) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(h.cookie.Name)

		user, err := h.users.ResolveSession(c.Request.Context(), token)
		if err != nil {
			h.fail(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// Active rejects users that have not verified their email yet. It must run
// after Authenticated.
func (h *Handler) Active() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := services.RequireActive(currentUser(c)); err != nil {
			h.fail(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(contextUserKey).(*models.User)
}

// requestLogger logs one line per request.
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			h.logger.Warn(c.Request.Context(), "request", args...)
			return
		}
		h.logger.Debug(c.Request.Context(), "request", args...)
	}
}
