package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"samadhan/backend/internal/ai"
	"samadhan/backend/internal/api/handler"
	"samadhan/backend/internal/complaint"
	"samadhan/backend/internal/config"
	"samadhan/backend/internal/feed"
	"samadhan/backend/internal/localization"
	"samadhan/backend/internal/models"
	"samadhan/backend/internal/storage"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "samadhan"),
		envOr("DB_PASSWORD", "samadhan"),
		envOr("DB_NAME", "samadhan"),
		envOr("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.Comment{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Samadhan Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	db, rdb := setupDependencies()
	store := storage.NewStorageService(db, rdb)

	var categorizer ai.Categorizer = ai.KeywordCategorizer{}
	if endpoint := os.Getenv("AI_CATEGORIZER_URL"); endpoint != "" {
		categorizer = ai.NewHTTPCategorizer(endpoint)
	}

	policy := config.AICategoryPolicy(envOr("AI_CATEGORY_POLICY", string(config.DefaultAICategoryPolicy)))
	svc := complaint.NewService(store, categorizer, policy)

	localizer, err := localization.NewLocalizer(envOr("LOCALES_DIR", "locales"))
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	hub := feed.NewHub(store)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(svc, store, hub, localizer, []byte(jwtSecret))
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           ":" + envOr("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
