package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/khanhng/coinfolio/internal/services"
)

// RouterDeps carries the services the HTTP surface is built from.
type RouterDeps struct {
	Auth      services.AuthService
	Tx        services.TransactionService
	Portfolio services.PortfolioService
	Quotes    services.QuoteService
}

// NewRouter wires the full route table. Auth endpoints for signup and login
// are public; everything under /api/portfolio and the session endpoints
// require a bearer token.
func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.Auth, deps.Portfolio)
	txHandler := NewTransactionHandler(deps.Tx)
	portfolioHandler := NewPortfolioHandler(deps.Portfolio)
	marketsHandler := NewMarketsHandler(deps.Quotes)

	requireAuth := RequireAuth(deps.Auth)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "coinfolio-backend",
		})
	}).Methods(http.MethodGet)

	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/signup", authHandler.HandleSignup).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.HandleLogin).Methods(http.MethodPost)
	auth.Handle("/me", requireAuth(http.HandlerFunc(authHandler.HandleMe))).Methods(http.MethodGet)
	auth.Handle("/logout", requireAuth(http.HandlerFunc(authHandler.HandleLogout))).Methods(http.MethodPost)

	p := r.PathPrefix("/api/portfolio").Subrouter()
	p.Use(requireAuth)
	p.HandleFunc("", txHandler.HandleList).Methods(http.MethodGet)
	p.HandleFunc("/add", txHandler.HandleCreate).Methods(http.MethodPost)
	p.HandleFunc("/holdings", portfolioHandler.HandleHoldings).Methods(http.MethodGet)
	p.HandleFunc("/history", portfolioHandler.HandleHistory).Methods(http.MethodGet)
	p.HandleFunc("/{id}", txHandler.HandleUpdate).Methods(http.MethodPut)
	p.HandleFunc("/{id}", txHandler.HandleDelete).Methods(http.MethodDelete)

	r.HandleFunc("/api/markets", marketsHandler.HandleMarkets).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return r
}

// CORS sets permissive cross-origin headers and short-circuits preflight
// requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
