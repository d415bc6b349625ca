package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theukno/ecomproject/internal/auth"
	"github.com/theukno/ecomproject/internal/config"
	"github.com/theukno/ecomproject/internal/handlers"
	"github.com/theukno/ecomproject/internal/middleware"
)

func Register(router *gin.Engine, svc *auth.Service, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))
	router.Use(middleware.RouteGuard(cfg.JwtSecret))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "moodshop-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(svc, cfg)

	api := router.Group("/api/auth")
	{
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/me", authHandler.Me)
		api.POST("/request-otp", authHandler.RequestOTP)
		api.POST("/verify-otp", authHandler.VerifyOTP)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, allowedOrigin := range origins {
			if origin == allowedOrigin {
				// Credentials mode: the session rides a cookie, so the
				// origin must be echoed back, never wildcarded.
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				c.Writer.Header().Set("Vary", "Origin")
				break
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
