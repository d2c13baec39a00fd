package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paratour-service/internal/infrastructure/config"
	"paratour-service/internal/infrastructure/persistence"
	"paratour-service/internal/interface/handler"
	mongoRepo "paratour-service/internal/interface/repository"
	"paratour-service/internal/usecase"
	"paratour-service/pkg/logger"
	"paratour-service/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting Paratour Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	bookingRepo := mongoRepo.NewMongoBookingRepository(db)
	customerRepo := mongoRepo.NewMongoCustomerRepository(db)
	serviceRepo := mongoRepo.NewGormFlightServiceRepository(gormDB)

	// Set up metrics and services
	appMetrics := metrics.NewMetrics("paratour")
	analyticsService := usecase.NewAnalyticsService(bookingRepo, log, appMetrics, cfg.UpcomingWindowDays)
	bookingService := usecase.NewBookingService(bookingRepo, customerRepo, serviceRepo, log, appMetrics)

	// Set up HTTP routes
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	handler.NewAnalyticsHandler(analyticsService, log).Register(api)
	handler.NewBookingHandler(bookingService, log).Register(api)
	handler.NewServiceHandler(serviceRepo, log).Register(api)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Paratour Service stopped")
}
