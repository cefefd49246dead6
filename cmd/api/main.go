package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"fleetfin/pkg/auth"
	"fleetfin/pkg/config"
	"fleetfin/pkg/fleet"
	"fleetfin/pkg/store"
)

// Server holds the fleet service instance.
type Server struct {
	fleet     *fleet.Service
	storage   store.Storage // Keep a reference to the storage to close it
	jwtSecret string
}

func NewServer(s store.Storage, cfg *config.Config) *Server {
	return &Server{
		fleet:     fleet.NewService(s, cfg.UsefulLives),
		storage:   s,
		jwtSecret: cfg.JWTSecret,
	}
}

// Router wires up all HTTP routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.registerHandler).Methods("POST")
	api.HandleFunc("/auth/login", s.loginHandler).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Middleware(s.jwtSecret))

	protected.HandleFunc("/auth/me", s.meHandler).Methods("GET")

	protected.HandleFunc("/companies", s.listCompaniesHandler).Methods("GET")
	protected.HandleFunc("/companies", s.createCompanyHandler).Methods("POST")
	protected.HandleFunc("/companies/{id}", s.getCompanyHandler).Methods("GET")
	protected.HandleFunc("/companies/{id}", s.updateCompanyHandler).Methods("PUT")
	protected.HandleFunc("/companies/{id}", s.deleteCompanyHandler).Methods("DELETE")
	protected.HandleFunc("/companies/{id}/assets", s.listAssetsHandler).Methods("GET")

	protected.HandleFunc("/assets", s.createAssetHandler).Methods("POST")
	protected.HandleFunc("/assets/{id}", s.getAssetHandler).Methods("GET")
	protected.HandleFunc("/assets/{id}", s.updateAssetHandler).Methods("PUT")
	protected.HandleFunc("/assets/{id}", s.deleteAssetHandler).Methods("DELETE")

	protected.HandleFunc("/schedules/amortization/{assetId}", s.amortizationHandler).Methods("GET")
	protected.HandleFunc("/schedules/depreciation/{assetId}", s.depreciationHandler).Methods("GET")
	protected.HandleFunc("/schedules/business-debt/{companyId}", s.businessDebtHandler).Methods("GET")

	router.HandleFunc("/health", s.healthHandler).Methods("GET")

	return router
}

func main() {
	cfg := config.Load()

	sqliteStore, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize SQLite store: %v", err)
	}
	defer sqliteStore.Close()

	server := NewServer(sqliteStore, cfg)

	log.Printf("Server starting on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, server.Router()))
}
