package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"USERS_COLLECTION",
		"SESSIONS_COLLECTION",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
		"REDIS_URL",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()

	if os.Getenv("GO_ENV") != "test" {
		redisURL := os.Getenv("REDIS_URL")

		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect token blacklist: %v", err)
		}
		services.TokenBlacklist = blacklist

		sessionCache, err := services.NewSessionCache(redisURL)
		if err != nil {
			log.Printf("Warning: session cache unavailable: %v", err)
		} else {
			services.GlobalSessionCache = sessionCache
		}
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Repositories
	notesRepo := repository.GetNotesRepo(utils.MongoClient)
	notesWatcher := repository.GetNotesWatcher(notesRepo)
	userRepo := repository.GetUserRepo(utils.MongoClient)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient)

	// Services
	userService := &usecase.UserService{UsersRepo: userRepo}
	stores := usecase.NewStoreManager(notesRepo, notesWatcher)

	router.Use(middleware.SessionMiddleware(sessionRepo))

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, userService)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, userService, sessionRepo)
			})
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, userService, notesRepo)
			})
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, sessionRepo, stores)
			})
			user.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllHandler(c, sessionRepo, stores)
			})
		}

		notes := protected.Group("/notes")
		{
			// Store state: raw notes + derived projection + view controls
			notes.GET("/", func(c *gin.Context) {
				handler.GetNotesHandler(c, stores)
			})
			notes.GET("/:id", func(c *gin.Context) {
				handler.GetNoteHandler(c, stores)
			})

			// Basic CRUD operations
			notes.POST("/", func(c *gin.Context) {
				handler.CreateNoteHandler(c, stores)
			})
			notes.PUT("/:id", func(c *gin.Context) {
				handler.UpdateNoteHandler(c, stores)
			})
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, stores)
			})

			// Note actions
			notes.POST("/:id/pin", func(c *gin.Context) {
				handler.TogglePinHandler(c, stores)
			})
		}

		// View controls (search, sort, color and tag filters)
		view := protected.Group("/view")
		{
			view.PUT("/", func(c *gin.Context) {
				handler.SetViewControlsHandler(c, stores)
			})
			view.POST("/clear-error", func(c *gin.Context) {
				handler.ClearErrorHandler(c, stores)
			})
		}
	}

	return router
}

func main() {
	// Set up note, user and session indexes before serving
	dbName := os.Getenv("MONGO_DB")
	if err := repository.SetupIndexes(utils.MongoClient.Database(dbName)); err != nil {
		log.Printf("Warning: failed to set up indexes: %v", err)
	}

	utils.StartSystemMetricsCollector(utils.GetEnvAsDuration("SYSTEM_METRICS_INTERVAL", 15*time.Second))

	router := setupRouter()

	port := utils.GetEnvAsString("PORT", "8080")

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
