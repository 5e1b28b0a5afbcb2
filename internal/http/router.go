package http

import (
	"net/http"

	"coffee-backend/internal/handlers"
	"coffee-backend/internal/middleware"
	"coffee-backend/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	lotHandler *handlers.CoffeeLotHandler,
	producerHandler *handlers.RegistryHandler,
	driverHandler *handlers.RegistryHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.Message(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.Message(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Coffee lots
	lotsAPI := r.PathPrefix("/api/coffee-lots").Subrouter()
	lotsAPI.HandleFunc("", lotHandler.ListLots).Methods("GET")
	lotsAPI.HandleFunc("", lotHandler.CreateLot).Methods("POST")
	lotsAPI.HandleFunc("/{id}", lotHandler.GetLot).Methods("GET")
	lotsAPI.HandleFunc("/{id}", lotHandler.UpdateLot).Methods("PUT")
	lotsAPI.HandleFunc("/{id}", lotHandler.DeleteLot).Methods("DELETE")
	lotsAPI.HandleFunc("/{id}/ticket", lotHandler.LotTicket).Methods("GET")

	// Registries
	registryRoutes(r.PathPrefix("/api/producers").Subrouter(), producerHandler)
	registryRoutes(r.PathPrefix("/api/drivers").Subrouter(), driverHandler)

	// Health check endpoints (no auth required)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func registryRoutes(api *mux.Router, h *handlers.RegistryHandler) {
	api.HandleFunc("", h.List).Methods("GET")
	api.HandleFunc("", h.Create).Methods("POST")
	api.HandleFunc("", h.Delete).Methods("DELETE")
	api.HandleFunc("/import", h.Import).Methods("POST")
}
