package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/khanhng/coinfolio/docs"
	"github.com/khanhng/coinfolio/internal/db"
	"github.com/khanhng/coinfolio/internal/handlers"
	"github.com/khanhng/coinfolio/internal/logger"
	"github.com/khanhng/coinfolio/internal/repositories"
	"github.com/khanhng/coinfolio/internal/services"
)

// @title Coinfolio API
// @version 1.0
// @description Crypto portfolio tracking backend
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		log.Fatal("database health check failed", zap.Error(err))
	}
	log.Info("database connection established")

	userRepo := repositories.NewUserRepository(database)
	txRepo := repositories.NewTransactionRepository(database)

	secret := os.Getenv("JWT_SECRET")
	authService := services.NewAuthService(userRepo, secret, log)
	txService := services.NewTransactionService(txRepo, log)

	provider := services.NewCoinGeckoProvider()
	quoteService := services.NewQuoteService(
		provider,
		txRepo.DistinctAssetIDs,
		envDuration("QUOTE_REFRESH_INTERVAL", 30*time.Second),
		log,
	)
	quoteService.Start()
	defer quoteService.Stop()

	portfolioService := services.NewPortfolioService(
		txRepo,
		quoteService,
		envInt("SERIES_CAPACITY", 1000),
		envDuration("SAMPLE_INTERVAL", 30*time.Second),
		log,
	)
	defer portfolioService.Shutdown()

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:      authService,
		Tx:        txService,
		Portfolio: portfolioService,
		Quotes:    quoteService,
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handlers.CORS(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", port))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal("server stopped", zap.Error(err))
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
