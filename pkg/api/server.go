// Package api composes the credential store, token issuer, access control
// gate and ledger store into the externally callable REST surface.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/recouvro/recouvro/pkg/auth"
	"github.com/recouvro/recouvro/pkg/httputil"
	"github.com/recouvro/recouvro/pkg/ledger"
	"github.com/recouvro/recouvro/pkg/middleware"
	"github.com/recouvro/recouvro/pkg/observability"
)

// Server is the HTTP API server
type Server struct {
	router           *mux.Router
	handler          http.Handler
	logger           *observability.Logger
	authHandlers     *AuthHandlers
	recoveryHandlers *RecoveryHandlers
	gate             *middleware.AuthMiddleware
}

// Options carries the collaborators the server composes.
type Options struct {
	Users        *auth.Store
	Issuer       auth.TokenIssuer
	Ledger       *ledger.Store
	Logger       *observability.Logger
	Metrics      *observability.Metrics
	IncludeStack bool
}

// NewServer creates the API server and registers all routes.
func NewServer(opts Options) *Server {
	s := &Server{
		router:           mux.NewRouter(),
		logger:           opts.Logger,
		authHandlers:     NewAuthHandlers(opts.Users, opts.Issuer, opts.Metrics),
		recoveryHandlers: NewRecoveryHandlers(opts.Ledger),
		gate:             middleware.NewAuthMiddleware(opts.Issuer),
	}

	s.setupRoutes()

	// The chain wraps the router itself so that unmatched requests (404, 405,
	// CORS preflight) still pass through logging, metrics and CORS.
	var h http.Handler = s.router
	h = httputil.CORSMiddleware(h)
	h = httputil.MetricsMiddleware(opts.Metrics)(h)
	h = httputil.LoggingMiddleware(opts.Logger)(h)
	h = httputil.RecoveryMiddleware(opts.Logger, opts.IncludeStack)(h)
	s.handler = h

	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Authentication routes (anonymous)
	api.HandleFunc("/auth/register", s.authHandlers.register).Methods("POST")
	api.HandleFunc("/auth/login", s.authHandlers.login).Methods("POST")

	// Public ledger routes
	api.HandleFunc("/recoveries", s.recoveryHandlers.create).Methods("POST")
	api.HandleFunc("/recoveries", s.recoveryHandlers.list).Methods("GET")
	api.HandleFunc("/recoveries/editions", s.recoveryHandlers.editionYears).Methods("GET")
	api.HandleFunc("/recoveries/summary", s.recoveryHandlers.summary).Methods("GET")
	api.HandleFunc("/recoveries/{id}", s.recoveryHandlers.getByID).Methods("GET")

	// Admin-only ledger routes: authenticate, then require the admin role
	admin := api.PathPrefix("/recoveries").Subrouter()
	admin.Use(s.gate.Handler)
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	admin.HandleFunc("/{id}", s.recoveryHandlers.update).Methods("PUT")
	admin.HandleFunc("/{id}", s.recoveryHandlers.delete).Methods("DELETE")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusNotFound, "not found - "+r.URL.Path)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
