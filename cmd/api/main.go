package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/database"
	"github.com/Rakshaharsha/transport-management-system/internal/handlers"
	"github.com/Rakshaharsha/transport-management-system/internal/middleware"
	"github.com/Rakshaharsha/transport-management-system/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Firebase is optional; a warning is logged when not configured
	if err := services.InitFirebase(); err != nil {
		log.Printf("Firebase initialization warning: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	hub := services.NewHub()
	go hub.Run()

	notifier := services.NewNotificationSink(db, hub)
	assigner := assignment.NewService(database.NewDirectory(db), notifier)

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "/app/uploads")

	adminOnly := middleware.RequireRole("ADMIN")
	driverOnly := middleware.RequireRole("DRIVER", "ADMIN")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.HandleWebSocketConnection(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.POST("/profile/photo", handlers.UploadProfilePhoto(db))
				users.POST("/fcm-token", handlers.UpdateFCMToken(db))
				users.GET("", adminOnly, handlers.ListUsers(db))
				users.GET("/unassigned", adminOnly, handlers.ListUnassignedRiders(db))
			}

			buses := protected.Group("/buses")
			{
				buses.GET("", handlers.ListBuses(db))
				buses.GET("/:id", handlers.GetBus(db))
				buses.GET("/:id/seats", handlers.ListBusSeats(db))
				buses.GET("/:id/location", handlers.GetBusLocation(db))
				buses.POST("", adminOnly, handlers.CreateBus(db))
				buses.PUT("/:id", adminOnly, handlers.UpdateBus(db, hub))
				buses.DELETE("/:id", adminOnly, handlers.DeleteBus(db))
				buses.POST("/:id/location", handlers.UpdateBusLocation(db, hub))
				buses.POST("/:id/driver", adminOnly, handlers.BindDriver(db))
				buses.DELETE("/:id/driver", adminOnly, handlers.UnbindDriver(db))
				buses.POST("/:id/assign", adminOnly, handlers.AutoAssignBus(assigner))
			}

			seats := protected.Group("/seats")
			{
				seats.GET("/me", handlers.GetMySeat(db))
				seats.POST("/:id/assign", adminOnly, handlers.AssignSeat(assigner))
				seats.POST("/:id/unassign", adminOnly, handlers.UnassignSeat(db))
			}

			assignments := protected.Group("/assignments")
			assignments.Use(adminOnly)
			{
				assignments.POST("/riders/:id", handlers.AutoAssignRider(assigner))
				assignments.POST("/riders", handlers.AutoAssignAll(assigner))
			}

			drivers := protected.Group("/drivers")
			{
				drivers.POST("/location", driverOnly, handlers.UpdateDriverLocation(db, hub))
				drivers.POST("/status", driverOnly, handlers.UpdateDriverStatus(db))
				drivers.GET("/me/bus", driverOnly, handlers.GetMyBus(db))
				drivers.GET("/available", adminOnly, handlers.ListAvailableDrivers(db))
			}

			fees := protected.Group("/fees")
			{
				fees.GET("/me", handlers.GetMyFees(db))
				fees.GET("", adminOnly, handlers.ListFees(db))
				fees.POST("/:id/payment", adminOnly, handlers.RecordPayment(db, notifier))
				fees.POST("/:id/reminder", adminOnly, handlers.SendFeeReminder(db, notifier))
			}

			attendance := protected.Group("/attendance")
			{
				attendance.POST("", handlers.MarkAttendance(db))
				attendance.GET("/me", handlers.GetMyAttendance(db))
				attendance.GET("", adminOnly, handlers.ListAttendance(db))
				attendance.POST("/:id/approve", adminOnly, handlers.ApproveAttendance(db))
				attendance.POST("/drivers", adminOnly, handlers.MarkDriverAttendance(db))
				attendance.GET("/drivers", adminOnly, handlers.ListDriverAttendance(db))
			}

			leaves := protected.Group("/leaves")
			{
				leaves.POST("", driverOnly, handlers.RequestLeave(db))
				leaves.GET("/me", driverOnly, handlers.GetMyLeaves(db))
				leaves.GET("", adminOnly, handlers.ListLeaves(db))
				leaves.POST("/:id/review", adminOnly, handlers.ReviewLeave(db, notifier))
			}

			alerts := protected.Group("/alerts")
			{
				alerts.POST("", driverOnly, handlers.RaiseAlert(db, hub))
				alerts.GET("", adminOnly, handlers.ListAlerts(db))
				alerts.POST("/:id/resolve", adminOnly, handlers.ResolveAlert(db))
			}

			queries := protected.Group("/queries")
			{
				queries.POST("", handlers.SubmitQuery(db))
				queries.GET("/me", handlers.GetMyQueries(db))
				queries.GET("", adminOnly, handlers.ListQueries(db))
				queries.POST("/:id/reply", adminOnly, handlers.ReplyQuery(db, notifier))
				queries.POST("/:id/feedback", handlers.SubmitQueryFeedback(db))
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", handlers.ListMyNotifications(db))
				notifications.POST("/:id/seen", handlers.MarkNotificationSeen(db))
				notifications.POST("/seen-all", handlers.MarkAllNotificationsSeen(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
