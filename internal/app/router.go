package app

import (
	"exam_portal_backend/docs"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/middleware"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	student := router.Group("/api/student")
	student.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleStudent))
	registerStudentRoutes(student, c)

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	registerAdminRoutes(admin, c)
}

func registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	// Exams and attempts
	group.POST("/exam/submit", c.submission.Submit)
	group.POST("/submit-exam", c.submission.Submit)
	group.GET("/exam-result/:result_id", c.submission.GetResult)
	group.GET("/exam/:exam_id/result/:user_id", c.submission.GetPreviousResult)
	group.GET("/exam/:exam_id/attempts/:user_id", c.submission.GetPreviousAttempt)
	group.GET("/exam/:exam_id/access/:user_id", c.enrollment.AccessStatus)

	// Enrollment
	group.POST("/enroll", c.enrollment.Enroll)
	group.GET("/enrollment/:exam_id/:user_id", c.enrollment.CheckEnrollment)
	group.GET("/enrolled-exams/:user_id", c.enrollment.ListEnrolledExams)

	// Re-exam
	group.POST("/re-exam/request", c.reExam.RequestReExam)
	group.GET("/re-exam/:exam_id/:user_id", c.reExam.GetRequest)

	group.GET("/certificate/:user_id/:exam_id", c.certificate.Download)
}

func registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/questions", c.question.Create)
	group.GET("/questions", c.question.List)
	group.PUT("/questions/:id", c.question.Update)

	group.PUT("/enrollments/:id/status", c.enrollment.UpdateStatus)

	group.GET("/re-exam/requests", c.reExam.ListRequests)
	group.PUT("/re-exam/requests/:id", c.reExam.UpdateRequest)
}
