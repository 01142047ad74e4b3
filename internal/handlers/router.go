package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/config"
	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/services"
	"github.com/SAP-F-2025/learning-platform/internal/store"
	"github.com/SAP-F-2025/learning-platform/internal/utils"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	courseHandler    *CourseHandler
	studentHandler   *StudentHandler
	userHandler      *UserHandler
	auditHandler     *AuditHandler
	dashboardHandler *DashboardHandler
	exportHandler    *ExportHandler
	authMiddleware   *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authProvider store.AuthProvider,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		authHandler:      NewAuthHandler(authProvider, userRepo, validator, logger),
		courseHandler:    NewCourseHandler(serviceManager.Course(), validator, logger),
		studentHandler:   NewStudentHandler(serviceManager.Enrollment(), logger),
		userHandler:      NewUserHandler(serviceManager.UserAdmin(), logger),
		auditHandler:     NewAuditHandler(serviceManager.Audit(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		exportHandler:    NewExportHandler(serviceManager.Export(), logger),
		authMiddleware:   authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes; sign-in and sign-up are public
		auth := v1.Group("/auth")
		{
			auth.POST("/sign-in", hm.authHandler.SignIn)
			auth.POST("/sign-up", hm.authHandler.SignUp)
			auth.POST("/sign-out", hm.authHandler.SignOut)
			auth.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Me)
		}

		// Course routes; the catalog is readable without a session so the
		// browse pages stay public, but reads still pick up the caller's
		// identity when a token is present
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.authMiddleware.OptionalAuthMiddleware(), hm.courseHandler.ListCourses)
			courses.GET("/mine", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.GetMyCourses)
			courses.GET("/:id", hm.authMiddleware.OptionalAuthMiddleware(), hm.courseHandler.GetCourse)

			// Create/modify courses - Teachers and Admins only
			courses.POST("", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.DeleteCourse)
			courses.POST("/:id/publish", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.PublishCourse)
			courses.POST("/:id/unpublish", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.UnpublishCourse)

			// Enrollment - any authenticated user
			courses.POST("/:id/enroll", hm.authMiddleware.AuthMiddleware(), hm.studentHandler.Enroll)
		}

		// Student routes
		students := v1.Group("/students")
		students.Use(hm.authMiddleware.AuthMiddleware())
		{
			students.GET("/me/courses", hm.studentHandler.GetMyEnrolledCourses)
		}

		// Admin routes - Admins only
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/users", hm.userHandler.CreateUser)
			admin.GET("/users", hm.userHandler.ListUsers)
			admin.GET("/users/:id", hm.userHandler.GetUser)
			admin.DELETE("/users/:id", hm.userHandler.DeleteUser)

			admin.GET("/audit-logs", hm.auditHandler.ListAuditLogs)

			admin.GET("/dashboard/stats", hm.dashboardHandler.GetDashboardStats)
			admin.GET("/dashboard/recent-activity", hm.dashboardHandler.GetRecentActivity)

			admin.GET("/export/users", hm.exportHandler.ExportUsers)
			admin.GET("/export/courses", hm.exportHandler.ExportCourses)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "learning-platform",
		})
	})
}
