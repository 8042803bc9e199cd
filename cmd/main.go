// @title Finance Tracker API Documentation
// @version 1.0
// @description Minimal personal finance tracker backend: JWT authentication and per-user transaction CRUD

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/rs/cors"

	_ "FINTRACK_BACK-END/docs" // This is required for swagger
	"FINTRACK_BACK-END/internal/config"
	"FINTRACK_BACK-END/internal/handlers"
	"FINTRACK_BACK-END/internal/routes"
	"FINTRACK_BACK-END/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Connect storage and bootstrap the schema
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
	store, err := postgres.NewStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("connect storage: %v", err)
	}
	defer store.Close()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, cfg)
	transactionsHandler := handlers.NewTransactionsHandler(store)
	googleAuthHandler := handlers.NewGoogleAuthHandler(store, cfg)
	healthHandler := handlers.NewHealthHandler(store)

	// Setup all routes
	routes.SetupRoutes(cfg, authHandler, transactionsHandler, googleAuthHandler, healthHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	// Wrap the default mux with CORS
	handler := c.Handler(http.DefaultServeMux)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for SIGINT, then shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}
