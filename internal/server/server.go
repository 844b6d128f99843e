/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the AI
gateway client into the coach endpoints.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"FitAICoach/internal/aigateway"
	"FitAICoach/internal/coach"
	"FitAICoach/internal/config"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// cfg holds the environment-derived settings.
	cfg *config.Config

	// gateway is the upstream AI client shared by every endpoint.
	gateway *aigateway.Client

	// coach serves the plan, image and motivation routes.
	coach *coach.Handler

	// startTime is reported by the health endpoint.
	startTime time.Time
}

// New builds the Server and its dependencies.
func New(cfg *config.Config) (*Server, error) {
	gateway, err := aigateway.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		gateway:   gateway,
		coach:     coach.NewHandler(gateway),
		startTime: time.Now(),
	}, nil
}

// NewServer initializes a new Server instance and returns a configured *http.Server.
// It reads configuration from environment variables and sets network timeouts
// that leave room for a full upstream generation.
func NewServer(cfg *config.Config) (*http.Server, error) {
	newApp, err := New(cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      newApp.RegisterRoutes(),             // Injected from routes.go
		IdleTimeout:  time.Minute,                         // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second,                    // Maximum duration for reading the entire request.
		WriteTimeout: cfg.RequestTimeout + 15*time.Second, // Upstream timeout plus headroom for the reply.
	}

	return server, nil
}
