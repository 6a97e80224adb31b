package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/redis/go-redis/v9"

	"billingpanel/internal/billing"
	"billingpanel/internal/caching"
	"billingpanel/internal/config"
	"billingpanel/internal/handlers"
	"billingpanel/internal/jobs"
	"billingpanel/internal/jobs/background"
	"billingpanel/internal/mailer"
	"billingpanel/internal/middleware"
	"billingpanel/internal/repositories"
	"billingpanel/internal/services"
	"billingpanel/pkg/database"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	// Optional TOML config for queue and sweep settings
	cfg := config.Defaults()
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		loaded, err := config.LoadPanelConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
		cfg = loaded
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARN: using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = cfg.Queuing.RedisAddr
	}
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	if redisPassword == "" {
		redisPassword = cfg.Queuing.RedisPassword
	}
	redisDB := cfg.Queuing.RedisDB
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	cacheSvc := caching.NewRedisCacheService(redisClient)

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "billingpanel-avatars"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	storageSvc, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(ctx); err != nil {
		log.Fatalf("Failed to ensure avatar bucket: %v", err)
	}

	// Payment provider
	providerAPIKey := os.Getenv("BILLING_API_KEY")
	if providerAPIKey == "" {
		providerAPIKey = cfg.Billing.APIKey
	}
	webhookSecret := os.Getenv("BILLING_WEBHOOK_SECRET")
	if webhookSecret == "" {
		webhookSecret = cfg.Billing.WebhookSecret
	}
	provider := billing.NewStripeProvider(providerAPIKey, webhookSecret)

	panelURL := os.Getenv("PANEL_URL")
	if panelURL == "" {
		panelURL = cfg.Billing.PanelURL
	}

	// Task queue
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	// Create repositories
	orgRepo := repositories.NewOrganizationRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	planRepo := repositories.NewPlanRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create services. The subscription service is a shared singleton: the
	// same instance serves HTTP, webhooks and queue handlers.
	orgSvc := services.NewOrganizationService(orgRepo, storageSvc, cacheSvc)
	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo, orgRepo, planRepo, asynqClient, cacheSvc)
	orderSvc := services.NewOrderService(orderRepo, subscriptionRepo, asynqClient)

	mailSvc := mailer.New(mailer.LogSender{}, panelURL)

	// Queue worker
	asynqServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Queuing.Concurrency,
		Queues:      cfg.Queuing.QueuePriorities,
	})
	mux := asynq.NewServeMux()
	jobs.NewHandlers(mailSvc, orderRepo, provider).Register(mux)
	go func() {
		if err := asynqServer.Run(mux); err != nil {
			log.Fatalf("Failed to start queue worker: %v", err)
		}
	}()

	// Session sweeper
	sweeper, err := background.NewSessionSweeper(orderRepo, asynqClient, cfg.Sweep)
	if err != nil {
		log.Fatalf("Failed to initialize session sweeper: %v", err)
	}
	sweeper.Start()
	defer func() {
		if err := sweeper.Stop(); err != nil {
			log.Printf("WARN: sweeper shutdown: %v", err)
		}
	}()

	// Create handlers
	orgHandlers := handlers.NewOrganizationHandlers(orgSvc, userRepo)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	planHandlers := handlers.NewPlanHandlers(planRepo, cacheSvc)
	webhookHandlers := handlers.NewWebhookHandlers(provider, subscriptionSvc, orderRepo)
	panelHandlers := handlers.NewPanelHandlers(panelURL)
	healthHandlers := handlers.NewHealthHandlers(pool, redisClient)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	// Provider callbacks authenticate by signature, not JWT
	e.POST("/webhooks/billing", webhookHandlers.HandleBillingWebhook)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTMiddleware(jwtSecret))

	v1.POST("/organizations", orgHandlers.Register)
	v1.GET("/organizations", orgHandlers.ListOrganizations, middleware.RequireRole(middleware.RoleSuperAdmin))
	v1.GET("/organizations/:id", orgHandlers.GetOrganization)
	v1.PUT("/organizations/:id", orgHandlers.UpdateProfile)
	v1.POST("/organizations/:id/avatar", orgHandlers.UploadAvatar)
	v1.GET("/organizations/:id/avatar", orgHandlers.GetAvatarURL)
	v1.GET("/organizations/:id/members", orgHandlers.ListMembers)

	v1.POST("/subscriptions", subscriptionHandlers.CreateSubscription)
	v1.GET("/subscriptions", subscriptionHandlers.ListSubscriptions)
	v1.GET("/subscriptions/:id", subscriptionHandlers.GetSubscription)

	v1.POST("/orders", orderHandlers.CreateOrder)
	v1.GET("/orders", orderHandlers.ListOrders)
	v1.GET("/orders/:id", orderHandlers.GetOrder)

	v1.GET("/plans", planHandlers.ListPlans)
	v1.GET("/plans/:id", planHandlers.GetPlan)

	v1.GET("/panel/config", panelHandlers.GetPanelConfig)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Billing panel v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
