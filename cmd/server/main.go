package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/config"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/database"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	quoteRepo := repository.NewStockQuoteRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)

	// Create the provider client; all provider traffic shares its throttle
	provider := alphavantage.NewClient(
		cfg.Provider.APIKey,
		alphavantage.WithMinInterval(cfg.Provider.MinInterval),
	)

	// Create services
	systemService := service.NewSystemService(db)
	marketDataService := service.NewMarketDataService(quoteRepo, provider)
	tickerService := service.NewTickerService(marketDataService, cfg.Universe.Path, cfg.Universe.Mode)
	holdingsService := service.NewHoldingsService(holdingRepo, tickerService)
	profileService := service.NewProfileService(userRepo, profileRepo)
	analysisService := service.NewAnalysisService(holdingRepo, quoteRepo, profileRepo, marketDataService)
	transcriptService := service.NewTranscriptService(transcriptRepo, holdingRepo, profileRepo, provider)

	// Quote warmer: refresh stale quotes after each weekday close so the
	// next morning's analyses run from a warm cache
	exchangeTZ, err := time.LoadLocation("America/New_York")
	if err != nil {
		exchangeTZ = time.UTC
	}
	warmer := cron.New(cron.WithLocation(exchangeTZ))
	if _, err := warmer.AddFunc("30 17 * * 1-5", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		refreshed, err := marketDataService.RefreshAllQuotes(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("quote warmer failed: %v", err)
			return
		}
		log.Printf("quote warmer refreshed %d tickers", refreshed)
	}); err != nil {
		log.Fatalf("Failed to schedule quote warmer: %v", err)
	}
	warmer.Start()
	defer warmer.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Profile:     profileService,
		Holdings:    holdingsService,
		Analysis:    analysisService,
		MarketData:  marketDataService,
		Tickers:     tickerService,
		Transcripts: transcriptService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
