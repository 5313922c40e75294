package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"libreria-backend/internal/shared/middleware"
	"libreria-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler(c))

		setupAuthRoutes(api, c)
		setupAuthorRoutes(api, c)
		setupBookRoutes(api, c)
	}

	return router
}

func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.Me)
	}
}

func setupAuthorRoutes(api *gin.RouterGroup, c *container.Container) {
	authors := api.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.GetAll)
		authors.GET("/:id", c.AuthorHandler.GetByID)

		authed := authors.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("", c.AuthorHandler.Create)
			authed.PUT("/:id", c.AuthorHandler.Update)
			authed.DELETE("/:id", middleware.AdminMiddleware(), c.AuthorHandler.Delete)
		}
	}
}

func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.GetAll)
		books.GET("/:id", c.BookHandler.GetByID)

		authed := books.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("", c.BookHandler.Create)
			authed.PUT("/:id", c.BookHandler.Update)
			authed.DELETE("/:id", middleware.AdminMiddleware(), c.BookHandler.Delete)
		}
	}
}

// healthHandler reports the server and its backing services. A broken
// database degrades the status to 503; an unreachable Redis does not, the
// API works without its cache.
func healthHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		statusCode := http.StatusOK

		dbStatus := "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "unavailable"
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		redisStatus := "ok"
		if err := appCtx.Cache.Ping(c.Request.Context()); err != nil {
			redisStatus = "unavailable"
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"version":   appCtx.Config.App.Version,
			"timestamp": time.Now().Format(time.RFC3339),
			"services": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
				"storage":  appCtx.Config.Storage.Backend,
			},
		})
	}
}
