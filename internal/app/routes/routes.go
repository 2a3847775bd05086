package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrenos-dev/vaxtrack/internal/app/controllers"
	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	driveController *controllers.DriveController,
	recordController *controllers.RecordController,
	reportController *controllers.ReportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		students := authenticated.Group("/students")
		{
			students.GET("", studentController.GetAllStudents)
			students.GET("/:id", studentController.GetStudent)
			students.POST("", studentController.CreateStudent)
			students.POST("/bulk", studentController.BulkImportStudents)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
		}

		drives := authenticated.Group("/drives")
		{
			drives.GET("", driveController.GetAllDrives)
			drives.GET("/:id", driveController.GetDrive)
			drives.POST("", driveController.CreateDrive)
			drives.PUT("/:id", driveController.UpdateDrive)
			drives.POST("/reconcile", driveController.ReconcileDrives)

			// Coordinator-only: deleting a drive discards its schedule slot
			drivesCoordinator := drives.Group("")
			drivesCoordinator.Use(authMiddleware.RequireRole(models.RoleCoordinator))
			{
				drivesCoordinator.DELETE("/:id", driveController.DeleteDrive)
			}
		}

		vaccinations := authenticated.Group("/vaccinations")
		{
			vaccinations.GET("", recordController.GetAllRecords)
			vaccinations.GET("/:id", recordController.GetRecord)
			vaccinations.POST("", recordController.CreateRecord)
			vaccinations.DELETE("/:id", recordController.DeleteRecord)
		}

		reports := authenticated.Group("/reports")
		{
			reports.GET("/vaccinations", reportController.GetVaccinationReport)
			reports.GET("/vaccinations/download", reportController.DownloadVaccinationReport)
			reports.GET("/filters", reportController.GetFilterOptions)
		}

		dashboard := authenticated.Group("/dashboard")
		{
			dashboard.GET("/stats", reportController.GetDashboardStats)
			dashboard.GET("/upcoming-drives", reportController.GetUpcomingDrives)
		}
	}
}
