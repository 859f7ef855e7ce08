package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fieldtrack/audit"
	"fieldtrack/config"
	"fieldtrack/controllers"
	"fieldtrack/middleware"
	"fieldtrack/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg config.Config) {
	recorder := audit.NewRecorder(db)
	logs := audit.NewRepository(db)
	mail := services.NewMailService(cfg)

	employees := services.NewEmployeeService(db, recorder)
	admins := services.NewAdminService(db, recorder, mail, cfg.ClientURL)
	superAdmins := services.NewSuperAdminService(db, recorder)

	employeeCtrl := controllers.NewEmployeeController(employees)
	authCtrl := controllers.NewAuthController(admins, logs, cfg)
	superCtrl := controllers.NewSuperAdminController(superAdmins, admins, employees, logs, cfg)

	api := router.Group("/api")

	// Employee balance management, shared by both admin tiers
	employeeRoutes := api.Group("/employees")
	employeeRoutes.Use(middleware.AnyAdminAuth(db, cfg.JWTSecret))
	{
		employeeRoutes.GET("", employeeCtrl.List)
		employeeRoutes.GET("/:id", employeeCtrl.Get)
		employeeRoutes.POST("", employeeCtrl.Create)
		employeeRoutes.PUT("/:id", employeeCtrl.Update)
		employeeRoutes.DELETE("/:id", employeeCtrl.Delete)
		employeeRoutes.POST("/bulk", employeeCtrl.BulkImport)
		employeeRoutes.POST("/reset", employeeCtrl.Reset)
	}

	// Admin authentication and self-service
	authRoutes := api.Group("/admin/auth")
	{
		authRoutes.POST("/login", authCtrl.Login)
		authRoutes.POST("/forgot-password", authCtrl.ForgotPassword)
		authRoutes.POST("/verify-reset-token", authCtrl.VerifyResetToken)
		authRoutes.POST("/reset-password", authCtrl.ResetPassword)

		protected := authRoutes.Group("")
		protected.Use(middleware.AdminAuth(db, cfg.JWTSecret))
		{
			protected.GET("/me", authCtrl.Me)
			protected.POST("/logout", authCtrl.Logout)
			protected.POST("/change-password", authCtrl.ChangePassword)
			protected.GET("/audit-logs", authCtrl.AuditLogs)
			protected.GET("/audit-logs/all", authCtrl.AuditLogsAll)
			protected.POST("/audit-logs/report", authCtrl.AuditReport)
		}
	}

	// Super admin tier
	superRoutes := api.Group("/super-admin")
	{
		superRoutes.POST("/login", superCtrl.Login)

		protected := superRoutes.Group("")
		protected.Use(middleware.SuperAdminAuth(db, cfg.JWTSecret))
		{
			protected.GET("/me", superCtrl.Me)
			protected.PUT("/me", superCtrl.UpdateMe)
			protected.PUT("/me/password", superCtrl.UpdatePassword)

			protected.GET("/admins", superCtrl.ListAdmins)
			protected.GET("/admins/:id", superCtrl.GetAdmin)
			protected.POST("/admins", superCtrl.CreateAdmin)
			protected.PUT("/admins/:id", superCtrl.UpdateAdmin)
			protected.DELETE("/admins/:id", superCtrl.DeleteAdmin)

			protected.GET("/audit-logs", superCtrl.AuditLogs)
			protected.GET("/simple-logs", superCtrl.SimpleLogs)
			protected.GET("/recent-activity", superCtrl.RecentActivity)
			protected.POST("/audit-logs/report", superCtrl.AuditReport)
			protected.DELETE("/audit-logs/:id", superCtrl.DeleteAuditLog)
			protected.DELETE("/audit-logs", superCtrl.DeleteAuditLogs)

			protected.GET("/stats", superCtrl.Stats)
		}
	}
}
