package main

import (
	"log"
	"os"

	_ "aegisai/api/swagger" // swagger docs
	"aegisai/internal/database"
	"aegisai/internal/handler"
	"aegisai/internal/middleware"
	"aegisai/internal/model"
	"aegisai/internal/repository"
	"aegisai/internal/service"
	"aegisai/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           AegisAI Assistant API
// @version         1.0
// @description     Control plane of the AegisAI enterprise assistant: session/role authorization, conversations, document visibility and security auditing.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "aegisai")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Seed(db); err != nil {
		log.Fatalf("Database seeding failed: %v", err)
	}

	// Security alert feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	convRepo := repository.NewConversationRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	securityRepo := repository.NewSecurityRepository(db)
	txManager := repository.NewTransactionManager(db)

	securityService := service.NewSecurityService(securityRepo, userRepo, wsHub)
	authService := service.NewAuthService(userRepo, middleware.GetJWTSecret())
	chatService := service.NewChatService(convRepo, txManager, securityService)
	userService := service.NewUserService(userRepo)
	roleService := service.NewRoleService(roleRepo, userRepo)
	documentService := service.NewDocumentService(docRepo, securityService)

	middleware.InitPermissionMiddleware(db)
	middleware.InitDeniedHook(func(c *gin.Context, userID, userRole, resource string) {
		_, err := securityService.Record(c.Request.Context(), service.RecordInput{
			UserID:    userID,
			Action:    model.ActionAccessDenied,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			Details:   "role=" + userRole,
			Denied:    true,
		})
		if err != nil {
			log.Printf("Failed to record access denial: %v", err)
		}
	})

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, userService, securityService)
	chatHandler := handler.NewChatHandler(chatService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	documentHandler := handler.NewDocumentHandler(documentService, userService)
	securityHandler := handler.NewSecurityHandler(securityService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Security alert feed
	router.GET("/ws/alerts", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	chatHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	documentHandler.RegisterRoutes(router.Group(""))
	securityHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
