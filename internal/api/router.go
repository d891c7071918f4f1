// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"centledger/internal/api/handler"
	"centledger/internal/auth"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(authHandler *handler.AuthHandler, ledgerHandler *handler.LedgerHandler, verifier auth.TokenVerifier, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Authenticated ledger routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier))

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", ledgerHandler.CreateTransfer)
			r.Get("/", ledgerHandler.ListTransactions)
			r.Get("/{transactionID}", ledgerHandler.GetTransaction)
			r.Post("/{transactionID}/reverse", ledgerHandler.ReverseTransaction)
		})

		r.Get("/accounts/me/balance", ledgerHandler.GetBalance)
	})

	return r
}
