package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/handlers"
	custommiddleware "github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/middleware"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/config"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Profile     *service.ProfileService
	Holdings    *service.HoldingsService
	Analysis    *service.AnalysisService
	MarketData  *service.MarketDataService
	Tickers     *service.TickerService
	Transcripts *service.TranscriptService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	cooldown := cfg.Analysis.Cooldown

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/users", func(r chi.Router) {
			profileHandler := handlers.NewProfileHandler(svc.Profile)
			holdingsHandler := handlers.NewHoldingsHandler(svc.Holdings)
			analysisHandler := handlers.NewAnalysisHandler(svc.Analysis, svc.Profile, cooldown)
			transcriptHandler := handlers.NewTranscriptHandler(svc.Transcripts)

			r.Post("/", profileHandler.CreateProfile)

			r.Route("/{userId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDParam("userId"))

				r.Get("/", profileHandler.GetUser)
				r.Get("/profile", profileHandler.GetProfile)
				r.Put("/profile", profileHandler.UpdateProfile)

				r.Route("/holdings", func(r chi.Router) {
					r.Get("/", holdingsHandler.ListHoldings)
					r.Post("/", holdingsHandler.AddHolding)
					r.Put("/", holdingsHandler.ReplaceHoldings)

					r.Route("/{holdingId}", func(r chi.Router) {
						r.Use(custommiddleware.ValidateUUIDParam("holdingId"))
						r.Put("/", holdingsHandler.UpdateHolding)
						r.Delete("/", holdingsHandler.DeleteHolding)
					})
				})

				r.Get("/analysis", analysisHandler.Analyze)
				r.Get("/analysis/metrics", analysisHandler.Metrics)
				r.Get("/snapshot", analysisHandler.Snapshot)
				r.Post("/transcripts/{quarter}", transcriptHandler.Digest)
			})
		})

		r.Route("/tickers/{ticker}", func(r chi.Router) {
			tickerHandler := handlers.NewTickerHandler(svc.Tickers, svc.MarketData)
			r.Get("/validate", tickerHandler.Validate)
			r.Get("/asset-type", tickerHandler.AssetType)
			r.Get("/quote", tickerHandler.Quote)
		})

		r.Route("/transcripts", func(r chi.Router) {
			transcriptHandler := handlers.NewTranscriptHandler(svc.Transcripts)
			r.Get("/{ticker}/{quarter}", transcriptHandler.Summary)
		})
	})

	return r
}
