package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/atherahq/athera-care-api/internal/adapters/cache"
	adapterHTTP "github.com/atherahq/athera-care-api/internal/adapters/handler/http"
	"github.com/atherahq/athera-care-api/internal/adapters/repository"
	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/atherahq/athera-care-api/internal/core/services"
	"github.com/atherahq/athera-care-api/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")

	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
	redisClient, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Warning: Redis unavailable, running without cache: %v", err)
		redisClient = nil
	} else {
		log.Println("Redis connected successfully.")
	}

	userRepo := repository.NewPostgresUserRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	medicationRepo := repository.NewPostgresMedicationRepository(db)
	hydrationRepo := repository.NewPostgresHydrationRepository(db)
	familyRepo := repository.NewPostgresFamilyRepository(db)

	var activityRepo domain.ActivityRepository = repository.NewPostgresActivityRepository(db)
	if redisClient != nil {
		activityRepo = repository.NewCachedActivityRepository(activityRepo, redisClient)
	}

	activityService := services.NewActivityService(activityRepo)
	statsService := services.NewStatsService(activityRepo)
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "athera-care-api", 24*time.Hour, userRepo)
	medicationService := services.NewMedicationService(medicationRepo, activityService)
	hydrationService := services.NewHydrationService(hydrationRepo, activityService)
	familyService := services.NewFamilyService(familyRepo, userRepo)
	profileService := services.NewProfileService(profileRepo, userRepo)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	streakWorker := workers.NewStreakWorker(activityRepo, activityService)
	streakWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService),
		ActivityHandler:   adapterHTTP.NewActivityHandler(activityService, streakWorker),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService),
		MedicationHandler: adapterHTTP.NewMedicationHandler(medicationService, streakWorker),
		HydrationHandler:  adapterHTTP.NewHydrationHandler(hydrationService, streakWorker),
		FamilyHandler:     adapterHTTP.NewFamilyHandler(familyService),
		ProfileHandler:    adapterHTTP.NewProfileHandler(profileService),
		TokenService:      tokenService,
		DB:                db,
		Redis:             redisClient,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Athera Care API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
