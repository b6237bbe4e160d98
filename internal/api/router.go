package api

import (
	"logistics-sim/internal/api/handlers"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(sims *handlers.SimulationHandler, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/simulations", sims.Create).Methods(http.MethodPost)
	r.HandleFunc("/simulations", sims.List).Methods(http.MethodGet)
	r.HandleFunc("/simulations/{id}", sims.Get).Methods(http.MethodGet)

	return requestIDMiddleware(loggingMiddleware(log, r))
}
