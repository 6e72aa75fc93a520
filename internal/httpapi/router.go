package httpapi

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suPer8Hu/gopherchat/internal/chat"
	"github.com/suPer8Hu/gopherchat/internal/config"
	"github.com/suPer8Hu/gopherchat/internal/httpapi/handlers"
	"github.com/suPer8Hu/gopherchat/internal/httpapi/middleware"
	"github.com/suPer8Hu/gopherchat/internal/users"
)

// NewRouter assembles the HTTP surface. shuttingDown flips the readiness
// probe to 503 so load balancers drain before shutdown.
func NewRouter(cfg config.Config, userSvc *users.Service, chatSvc *chat.Service, shuttingDown *atomic.Bool) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
	})

	h := handlers.NewHandler(cfg, userSvc, chatSvc)

	r.GET("/ping", h.Ping)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if shuttingDown != nil && shuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	user := api.Group("/user")
	user.POST("/signup", h.Signup)
	user.POST("/login", h.Login)

	userAuth := api.Group("/user")
	userAuth.Use(middleware.AuthRequired(cfg))
	userAuth.GET("/auth-status", h.AuthStatus)
	userAuth.GET("/logout", h.Logout)

	chatGroup := api.Group("/chat")
	chatGroup.Use(middleware.AuthRequired(cfg))
	chatGroup.POST("/new", h.NewMessage)
	chatGroup.GET("/all-chats", h.AllChats)
	chatGroup.DELETE("/delete", h.DeleteChats)

	return r
}
