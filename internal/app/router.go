package app

import (
	"study_planner_backend/docs"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/middleware"
	"study_planner_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.RequestLogger())
	{
		authGroup.POST("/upload-syllabus", c.class.PreviewTopics)

		// 课程
		authGroup.POST("/classes", c.class.CreateClass)
		authGroup.GET("/classes", c.class.ListClasses)
		authGroup.GET("/classes/:id/details", c.class.GetClassDetails)
		authGroup.GET("/classes/:id/topics", c.class.GetClassTopics)

		// 学习路线
		authGroup.POST("/roadmaps", c.roadmap.CreateRoadmap)
		authGroup.GET("/roadmaps/:classId", c.roadmap.GetRoadmap)
		authGroup.DELETE("/roadmaps/:classId", c.roadmap.DeleteRoadmap)

		// 学习进度
		authGroup.POST("/progress/:id", c.progress.MarkStepComplete)
		authGroup.GET("/progress/roadmaps/:classId", c.progress.ListCompletedSteps)
	}
}
