// Package server wires the layer runtime and projection API into an
// HTTP server.
package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/GiovanniAiello/deck.gl/internal/api"
	"github.com/GiovanniAiello/deck.gl/internal/api/editor"
	"github.com/GiovanniAiello/deck.gl/internal/db"
	"github.com/GiovanniAiello/deck.gl/internal/descriptor"
	"github.com/GiovanniAiello/deck.gl/internal/service"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string // holds descriptors/ and the duckdb database
}

// Server is the deck HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
}

// New creates a new deck server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("deck API", "1.0.0")
	humaConfig.Info.Description = "Layer update and coordinate projection core: prop diffing, attribute invalidation and geographic/screen conversion."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	humaAPI := humago.New(mux, humaConfig)

	// Layer-type descriptors come from YAML files in the data dir.
	descriptors, err := descriptor.LoadDir(filepath.Join(cfg.DataDir, "descriptors"))
	if err != nil {
		fmt.Printf("Skipping descriptors: %v\n", err)
		descriptors = nil
	}

	services := &api.Services{
		Layer: service.NewLayerService(descriptors, service.DefaultBus),
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
	}

	// Initialize DuckDB connection for query-backed layer data
	conn, err := db.Get(db.Config{
		DataDir: cfg.DataDir,
		DBName:  "deck",
	})
	if err == nil {
		s.db = conn
		services.DB = conn
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	return db.Close()
}

// OpenAPI returns the generated OpenAPI description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes() {
	// REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.services)

	// Datastar SSE routes: live change events and signal-bound prop
	// patches
	editor.NewEventHandler(service.DefaultBus).RegisterRoutes(s.humaAPI)
	editor.NewLayerHandler(s.services.Layer).RegisterRoutes(s.humaAPI)
}
