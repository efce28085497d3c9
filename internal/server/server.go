// Package server provides HTTP server initialization and lifecycle management
// for the Converse chat widget backend.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/campusbot/converse/internal/assistant"
	"github.com/campusbot/converse/internal/config"
	"github.com/campusbot/converse/internal/engine"
	"github.com/campusbot/converse/internal/storage"
	"github.com/campusbot/converse/web/handlers"
)

// Start initializes and starts the HTTP server.
// Returns the actual address being listened on (useful for testing with port 0).
// The snapshot store and assistant client are both optional and may be nil.
func Start(ctx context.Context, cfg *config.Config, eng *engine.Engine, client *assistant.Client, snapshots storage.SnapshotStore) string {
	mux := http.NewServeMux()

	corrector := assistant.NewCorrector(cfg.Assistant.CorrectionURL, cfg.Assistant.Timeout, cfg.Assistant.TypoDebounce)
	chatHandlers := handlers.NewChatHandler(eng, client, corrector, snapshots)

	// API routes (require auth in production mode)
	apiMux := http.NewServeMux()
	chatHandlers.Register(apiMux)

	// Health endpoint — no auth required, used by the widget loader and monitoring
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
	})

	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))

	// WebSocket endpoint (no auth required - origin validation handles security)
	mux.HandleFunc("/ws", chatHandlers.HandleWebSocket)

	// Wrap entire server with rate limiting, then security headers
	rateLimiter := handlers.NewRateLimiter(cfg.Security.RateLimit, cfg.Security.RateBurst)
	handler := handlers.RateLimit(mux, rateLimiter)
	handler = handlers.SecurityHeaders(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", addr, err)
	}

	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	return actualAddr
}
