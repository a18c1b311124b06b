package app

import (
	"interview_screening_backend/internal/config"
	"interview_screening_backend/internal/middleware"
	"interview_screening_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		api.POST("/candidates", c.candidate.Start)

		interview := api.Group("/interview/:sid")
		{
			interview.GET("/current", c.interview.Current)
			interview.POST("/submit", c.interview.Submit)
			interview.POST("/skip", c.interview.Skip)
			interview.GET("/repeat", c.interview.Repeat)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", c.admin.Login)

			// 需要管理员令牌
			authed := admin.Group("")
			authed.Use(middleware.AuthMiddleware(cfg))
			{
				authed.GET("/candidates", c.admin.ListCandidates)
				authed.GET("/candidates/:id", c.admin.CandidateDetail)
			}
		}
	}
}
