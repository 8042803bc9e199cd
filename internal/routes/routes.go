package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"FINTRACK_BACK-END/internal/config"
	"FINTRACK_BACK-END/internal/handlers"
	"FINTRACK_BACK-END/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	transactionsHandler *handlers.TransactionsHandler,
	googleAuthHandler *handlers.GoogleAuthHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	http.HandleFunc("/register", authHandler.Register)
	http.HandleFunc("/login", authHandler.Login)
	http.HandleFunc("/user/me", middleware.AuthMiddleware(authHandler.GetCurrentUser, &cfg.JWT))

	// Google OAuth routes
	http.HandleFunc("/api/auth/google/login", googleAuthHandler.GoogleLogin)
	http.HandleFunc("/api/auth/google/callback", googleAuthHandler.GoogleCallback)

	// Transaction routes (collection and item paths share one dispatcher)
	http.HandleFunc("/transactions", middleware.AuthMiddleware(transactionsHandler.Transactions, &cfg.JWT))
	http.HandleFunc("/transactions/", middleware.AuthMiddleware(transactionsHandler.Transactions, &cfg.JWT))

	// Swagger documentation
	http.Handle("/swagger/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Finance tracker backend is running."))
}
