package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pushchain/svm-faucet/faucet/metrics"
)

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/request_ping", s.handlePing).Methods(http.MethodGet)
	router.HandleFunc("/request_version", s.handleVersion).Methods(http.MethodGet)
	router.HandleFunc("/request_neon", s.handleAirdrop).Methods(http.MethodPost)
	router.HandleFunc("/request_neon_in_galans", s.handleAirdropInFractions).Methods(http.MethodPost)

	return router
}
