package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediakit/ffcheck/pkg/api"
	"github.com/mediakit/ffcheck/pkg/auth"
	"github.com/mediakit/ffcheck/pkg/knowledge"
	"github.com/mediakit/ffcheck/pkg/store"
)

func main() {
	var (
		port          = flag.Int("port", 8080, "HTTP server port")
		host          = flag.String("host", "0.0.0.0", "HTTP server host")
		requireAuth   = flag.Bool("auth", false, "Require authentication on API endpoints")
		jwtSecret     = flag.String("jwt-secret", "", "JWT signing secret (required with -auth)")
		knowledgePath = flag.String("knowledge", "", "Path to a YAML knowledge extension file")
	)
	flag.Parse()

	db := knowledge.Default()
	if *knowledgePath != "" {
		var err error
		db, err = knowledge.LoadExtensionFile(*knowledgePath)
		if err != nil {
			log.Fatalf("Failed to load knowledge extension: %v", err)
		}
		log.Printf("Loaded knowledge extension from %s", *knowledgePath)
	}

	var authMiddleware *auth.AuthMiddleware
	if *requireAuth {
		if *jwtSecret == "" {
			log.Fatal("-jwt-secret is required when -auth is set")
		}
		jwtManager := auth.NewJWTManager(*jwtSecret, 24*time.Hour)
		apiKeyManager := auth.NewAPIKeyManager()
		authMiddleware = auth.NewAuthMiddleware(jwtManager, apiKeyManager, false)
	}

	server := api.NewServer(store.NewMemoryStore(), db)
	defer server.Close()

	mux := http.NewServeMux()
	setupRoutes(mux, server, authMiddleware)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting ffcheck API server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupRoutes configures the HTTP routes
func setupRoutes(mux *http.ServeMux, server *api.Server, authMiddleware *auth.AuthMiddleware) {
	base := []api.Middleware{api.RecoveryMiddleware, api.LoggingMiddleware, api.MetricsMiddleware, api.CORSMiddleware}

	protect := func(h http.HandlerFunc) http.HandlerFunc {
		if authMiddleware == nil {
			return h
		}
		return authMiddleware.Handler(h).ServeHTTP
	}

	mux.HandleFunc("/health", api.Chain(server.HandleHealth, base...))
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/v1/analyze", api.Chain(protect(server.HandleAnalyze), base...))
	mux.HandleFunc("/api/v1/documents/analyze", api.Chain(protect(server.HandleAnalyzeDocument), base...))
	mux.HandleFunc("/api/v1/diagram", api.Chain(protect(server.HandleDiagram), base...))

	mux.HandleFunc("/api/v1/analyses", api.Chain(protect(server.HandleListAnalyses), base...))
	mux.HandleFunc("/api/v1/analyses/", api.Chain(protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			server.HandleGetAnalysis(w, r)
		case http.MethodDelete:
			server.HandleDeleteAnalysis(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}), base...))
}
