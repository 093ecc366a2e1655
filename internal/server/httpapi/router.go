package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires all routes. Set, card and media routes require an active
// user; account routes that act on an unverified account only need a
// session.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		respond(c, http.StatusOK, "OK")
	})

	users := r.Group("/users")
	{
		users.POST("/", h.register)
		users.POST("/login", h.login)
		users.GET("/login", h.Authenticated(), h.refreshLogin)
		users.POST("/logout", h.logout)
		users.PUT("/verify", h.verifyEmail)
		users.POST("/verify", h.resendVerification)
		users.POST("/password", h.initiatePasswordReset)
		users.PUT("/password/:token", h.resetPassword)

		me := users.Group("/me", h.Authenticated())
		me.GET("", h.me)
		me.PUT("", h.updateMe)
		me.DELETE("", h.deleteMe)
	}

	sets := r.Group("/sets", h.Authenticated(), h.Active())
	{
		sets.POST("/", h.addSet)
		sets.GET("/", h.listSets)
		sets.GET("/:id", h.getSet)
		sets.DELETE("/:id", h.deleteSet)
		sets.GET("/:id/cards/:card_id", h.getCard)
	}

	media := r.Group("/media", h.Authenticated(), h.Active())
	{
		media.POST("", h.presignUpload)
		media.GET("/*key", h.presignDownload)
	}

	return r
}
