package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodieapi/internal/api"
	"foodieapi/internal/config"
	"foodieapi/internal/domain"
	"foodieapi/internal/repository/mongo"
	"foodieapi/internal/service"
	"foodieapi/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Foodie API server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureCategoryIndexes(ctx, appDB.Collection("categories"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	foodRepo := mongo.NewResourceRepository[domain.Food](appDB, "foods")
	shoeRepo := mongo.NewResourceRepository[domain.Shoe](appDB, "shoes")
	cafeRepo := mongo.NewResourceRepository[domain.Cafe](appDB, "cafes")
	categoryRepo := mongo.NewResourceRepository[domain.Category](appDB, "categories")

	// --- Initialize Services ---
	providers := []service.Provider{
		service.GithubProvider(cfg.OAuth.Github.ClientID, cfg.OAuth.Github.ClientSecret),
		service.FacebookProvider(cfg.OAuth.Facebook.ClientID, cfg.OAuth.Facebook.ClientSecret),
	}
	svcs := api.Services{
		Auth:       service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		OAuth:      service.NewOAuthService(userRepo, providers, cfg.JWT.Secret, cfg.JWT.Expiration),
		Uploads:    service.NewUploadService(fileStorage),
		Foods:      service.NewResourceService(foodRepo),
		Shoes:      service.NewResourceService(shoeRepo),
		Cafes:      service.NewResourceService(cafeRepo),
		Categories: service.NewResourceService(categoryRepo),
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, svcs)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
