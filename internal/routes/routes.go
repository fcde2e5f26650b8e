package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/auth"
	"github.com/incidentalert/backend/internal/automation"
	"github.com/incidentalert/backend/internal/controllers"
	"github.com/incidentalert/backend/internal/middleware"
	"github.com/incidentalert/backend/internal/realtime"
	"github.com/incidentalert/backend/internal/services"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, db *gorm.DB, stopChan <-chan struct{}) {
	engine := automation.NewEngine()
	authz := auth.NewAuthorizer(db)
	hub := realtime.NewHub()

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db, authz, hub)
	incidentController := controllers.NewIncidentController(db, engine, authz, hub)
	roleController := controllers.NewRoleController(db, hub)
	automationController := controllers.NewAutomationController(db, hub)
	tagController := controllers.NewTagController(db, hub)
	settingsController := controllers.NewSettingsController(db)
	streamController := controllers.NewStreamController(db, hub)

	thresholdService := services.NewThresholdService(db, engine, hub)
	thresholdService.Start(stopChan)

	api := r.Group("/api/v1")
	{
		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authController.Login)
			authGroup.POST("/register", authController.Register)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/change-password", authController.ChangePassword)

			// Users
			users := protected.Group("/users")
			{
				users.GET("/me", userController.GetCurrentUser)
				users.PUT("/me", middleware.RequirePermission(authz, auth.CategoryUsers, "editOwn"), userController.UpdateCurrentUser)
				users.GET("", userController.GetUsers)
				users.POST("", middleware.RequirePermission(authz, auth.CategoryUsers, "create"), userController.CreateUser)
				users.PUT("/:id", middleware.RequirePermission(authz, auth.CategoryUsers, "edit"), userController.UpdateUser)
				users.DELETE("/:id", middleware.RequirePermission(authz, auth.CategoryUsers, "delete"), userController.DeleteUser)
			}

			// Incidents and their sub-resources
			incidents := protected.Group("/incidents")
			{
				incidents.GET("", middleware.RequirePermission(authz, auth.CategoryIncidents, "read"), incidentController.GetIncidents)
				incidents.GET("/:id", middleware.RequirePermission(authz, auth.CategoryIncidents, "read"), incidentController.GetIncident)
				incidents.POST("", middleware.RequirePermission(authz, auth.CategoryIncidents, "create"), incidentController.CreateIncident)
				incidents.PUT("/:id", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.UpdateIncident)
				incidents.DELETE("/:id", middleware.RequirePermission(authz, auth.CategoryIncidents, "delete"), incidentController.DeleteIncident)

				incidents.POST("/:id/tags", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.AddIncidentTag)
				incidents.DELETE("/:id/tags/:tag", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.RemoveIncidentTag)

				incidents.GET("/:id/comments", middleware.RequirePermission(authz, auth.CategoryIncidents, "read"), incidentController.GetComments)
				incidents.POST("/:id/comments", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.CreateComment)
				incidents.DELETE("/:id/comments/:commentId", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.DeleteComment)

				incidents.GET("/:id/pull-requests", middleware.RequirePermission(authz, auth.CategoryIncidents, "read"), incidentController.GetPullRequests)
				incidents.POST("/:id/pull-requests", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.CreatePullRequest)
				incidents.DELETE("/:id/pull-requests/:prId", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.DeletePullRequest)

				incidents.GET("/:id/time-entries", middleware.RequirePermission(authz, auth.CategoryIncidents, "read"), incidentController.GetTimeEntries)
				incidents.POST("/:id/time-entries", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.CreateTimeEntry)
				incidents.PUT("/:id/time-entries/:entryId", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.UpdateTimeEntry)
				incidents.DELETE("/:id/time-entries/:entryId", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), incidentController.DeleteTimeEntry)
			}

			// Roles
			roles := protected.Group("/roles")
			{
				roles.GET("", middleware.RequirePermission(authz, auth.CategoryRoles, "view"), roleController.GetRoles)
				roles.GET("/:id", middleware.RequirePermission(authz, auth.CategoryRoles, "view"), roleController.GetRole)
				roles.POST("", middleware.RequirePermission(authz, auth.CategoryRoles, "create"), roleController.CreateRole)
				roles.PUT("/:id", middleware.RequirePermission(authz, auth.CategoryRoles, "edit"), roleController.UpdateRole)
				roles.DELETE("/:id", middleware.RequirePermission(authz, auth.CategoryRoles, "delete"), roleController.DeleteRole)
			}

			// Automation rules
			automationRules := protected.Group("/automation-rules")
			{
				automationRules.GET("", middleware.RequirePermission(authz, auth.CategoryAutomation, "view"), automationController.GetRules)
				automationRules.GET("/:id", middleware.RequirePermission(authz, auth.CategoryAutomation, "view"), automationController.GetRule)
				automationRules.POST("", middleware.RequirePermission(authz, auth.CategoryAutomation, "create"), automationController.CreateRule)
				automationRules.PUT("/:id", middleware.RequirePermission(authz, auth.CategoryAutomation, "edit"), automationController.UpdateRule)
				automationRules.POST("/:id/toggle", middleware.RequirePermission(authz, auth.CategoryAutomation, "edit"), automationController.ToggleRule)
				automationRules.DELETE("/:id", middleware.RequirePermission(authz, auth.CategoryAutomation, "delete"), automationController.DeleteRule)
			}

			// Tag catalog
			tags := protected.Group("/tags")
			{
				tags.GET("", tagController.GetTags)
				tags.POST("", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), tagController.CreateTag)
				tags.PUT("/:id", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), tagController.UpdateTag)
				tags.DELETE("/:id", middleware.RequirePermission(authz, auth.CategoryIncidents, "update"), tagController.DeleteTag)
			}

			// Settings
			settings := protected.Group("/settings")
			{
				settings.GET("", middleware.RequirePermission(authz, auth.CategorySettings, "view"), settingsController.GetSettings)
				settings.PUT("", middleware.RequirePermission(authz, auth.CategorySettings, "edit"), settingsController.UpdateSettings)
			}

			// Realtime snapshots
			stream := protected.Group("/stream")
			{
				stream.GET("/incidents", middleware.RequirePermission(authz, auth.CategoryIncidents, "read"), streamController.StreamIncidents)
			}
		}
	}
}
