package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"registration-service/internal/application/services"
	"registration-service/internal/config"
	"registration-service/internal/delivery/handler"
	"registration-service/internal/domain/repositories"
	"registration-service/internal/infrastructure"
	"registration-service/internal/infrastructure/db/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	idempotencyRepo := postgres.NewIdempotencyRepository(db)

	// Redis is the authoritative pending-registration store. Without it the
	// in-memory store keeps a single instance functional for development.
	var pendingRepo repositories.PendingRepository
	var cache services.Cache

	redisService, err := infrastructure.NewRedisService(cfg)
	if err != nil {
		log.Printf("Redis unavailable (%v), falling back to in-memory store", err)
		memoryStore := infrastructure.NewMemoryStore()
		pendingRepo = memoryStore
		cache = memoryStore
	} else {
		defer redisService.Close()
		pendingRepo = redisService
		cache = redisService
	}

	mailer, err := infrastructure.NewMailer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %v", err)
	}

	otpGenerator := infrastructure.NewOTPGenerator(cfg.OTPLength)
	jwtService := infrastructure.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	rateLimiter := infrastructure.NewRateLimiter(cfg.OTPRateWindow, cfg.OTPRateMax)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go rateLimiter.StartCleanup(cfg.OTPRateWindow, stopCleanup)

	registrationService := services.NewRegistrationService(
		userRepo,
		idempotencyRepo,
		pendingRepo,
		cache,
		mailer,
		otpGenerator,
		jwtService,
		rateLimiter,
		cfg.OTPExpiry,
		cfg.PendingTTL,
		cfg.EmailTimeout,
		cfg.JWTTTL,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(handler.RequestLimiter(100, 200))

	h := handler.NewHandler(registrationService)
	h.RegisterRoutes(e)

	log.Printf("Server running on %s", cfg.HTTPAddr)
	log.Fatal(e.Start(cfg.HTTPAddr))
}
