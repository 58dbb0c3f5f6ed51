package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/paymybuddy/backend/docs"
	"github.com/paymybuddy/backend/internal/audit"
	"github.com/paymybuddy/backend/internal/config"
	"github.com/paymybuddy/backend/internal/database"
	"github.com/paymybuddy/backend/internal/handlers"
	mW "github.com/paymybuddy/backend/internal/middleware"
	"github.com/paymybuddy/backend/internal/repository"
	"github.com/paymybuddy/backend/internal/services"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title PayMyBuddy API
// @version 1.0
// @description Peer-to-peer payments between registered friends
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")
	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}
	config.SetDefaults()

	if viper.GetString("jwt.secret_key") == "" {
		log.Fatal("JWT_SECRET_KEY must be set")
	}

	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"

	db := database.InitDatabase()
	defer database.CloseDB()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	paymentConfig := config.LoadPaymentConfig()
	auditLogger := audit.NewLogger()
	store := repository.NewPostgresStore(db)

	accountService := services.NewAccountService(store, redisClient, auditLogger)
	relationshipService := services.NewRelationshipService(store, paymentConfig, auditLogger)
	inviteService := services.NewInviteService(redisClient, relationshipService, paymentConfig, auditLogger)
	transferService := services.NewTransferService(store, relationshipService, paymentConfig, auditLogger)
	ledgerService := services.NewLedgerService(store, paymentConfig, auditLogger)

	accountHandler := handlers.NewAccountHandler(accountService)
	relationHandler := handlers.NewRelationHandler(relationshipService, inviteService)
	transferHandler := handlers.NewTransferHandler(transferService, ledgerService, paymentConfig.HistoryPageSize)

	// Initialize auth middleware with Redis
	mW.InitAuthMiddleware(redisClient)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mW.IdempotencyHeader},
		ExposedHeaders:   []string{mW.IdempotencyHitHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/auth/register", accountHandler.Register)
		r.Post("/auth/login", accountHandler.Login)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Post("/auth/logout", accountHandler.Logout)

			r.Get("/profile", accountHandler.GetProfile)
			r.Put("/profile", accountHandler.UpdateProfile)

			r.Get("/relations", relationHandler.ListRelations)
			r.Post("/relations", relationHandler.AddRelation)
			r.Post("/relations/invites", relationHandler.CreateInvite)
			r.Post("/relations/invites/accept", relationHandler.AcceptInvite)

			r.With(mW.Idempotency(redisClient, paymentConfig.IdempotencyTTL)).
				Post("/transfers", transferHandler.Transfer)
			r.Get("/transfers/history", transferHandler.History)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
