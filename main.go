package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hariram-suresh/loom-harmony/idp"
	"github.com/hariram-suresh/loom-harmony/idp/idpfactory"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	v1 "github.com/hariram-suresh/loom-harmony/v1"
	v1handlers "github.com/hariram-suresh/loom-harmony/v1/handlers"
	v1middleware "github.com/hariram-suresh/loom-harmony/v1/middleware"
)

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	slog.SetDefault(logger)

	slog.Info("Starting marketplace API server initialization")

	ctx := context.Background()

	// Initialize telemetry (Prometheus exporter + runtime metrics)
	shutdownTelemetry, err := monitoring.Setup(ctx, monitoring.Config{
		ServiceName: "loom-harmony-api",
	})
	if err != nil {
		slog.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	// Initialize GORM database connection
	dbConfig := v1.NewDatabaseConfig()
	gormDB, err := v1.ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to GORM database", "error", err)
		os.Exit(1)
	}

	// Initialize identity provider for account provisioning (optional)
	var idpProvider idp.IdentityProviderAPI
	if baseURL := os.Getenv("IDP_BASE_URL"); baseURL != "" {
		idpProvider, err = idpfactory.NewIdpAPIProvider(idpfactory.FactoryConfig{
			ProviderType: idp.ProviderAsgardeo,
			BaseURL:      baseURL,
			ClientID:     os.Getenv("IDP_CLIENT_ID"),
			ClientSecret: os.Getenv("IDP_CLIENT_SECRET"),
			Scopes:       []string{"internal_user_mgt_create", "internal_user_mgt_view", "internal_group_mgt_update"},
		})
		if err != nil {
			slog.Error("Failed to initialize identity provider", "error", err)
			os.Exit(1)
		}
		slog.Info("Identity provider configured", "baseUrl", baseURL)
	} else {
		slog.Info("No identity provider configured, weaver accounts use local IDs")
	}

	// Initialize handlers and routes
	v1Handler := v1handlers.NewV1HandlerWithIdP(gormDB, idpProvider)

	mux := http.NewServeMux()
	v1Handler.SetupV1Routes(mux)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","service":"loom-harmony-api","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
	})

	// Prometheus metrics endpoint
	mux.Handle("/metrics", monitoring.Handler())

	// Authentication and authorization
	jwtMiddleware := v1middleware.NewJWTAuthMiddleware(v1middleware.JWTAuthConfig{
		JWKSURL:          os.Getenv("JWT_JWKS_URL"),
		ExpectedIssuer:   os.Getenv("JWT_ISSUER"),
		ExpectedAudience: os.Getenv("JWT_AUDIENCE"),
	})
	authzMiddleware := v1middleware.NewAuthorizationMiddleware()
	auditMiddleware := v1middleware.NewAuditMiddleware()

	rateLimit := getEnvInt("RATE_LIMIT_MAX_REQUESTS", 300)

	// Middleware chain, outermost first
	var handler http.Handler = mux
	handler = monitoring.HTTPMetricsMiddleware(handler)
	handler = authzMiddleware.AuthorizeRequest(handler)
	handler = jwtMiddleware.AuthenticateJWT(handler)
	handler = auditMiddleware.AuditLoggingMiddleware(handler)
	handler = v1middleware.RateLimitMiddleware(rateLimit, time.Minute)(handler)
	handler = v1middleware.SecurityHeaders(handler)
	handler = v1middleware.NewCORSMiddleware()(handler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	addr := ":" + port
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Marketplace API server starting", "port", port, "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down marketplace API server...")

	// Create a deadline to wait for
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry shutdown failed", "error", err)
	}

	slog.Info("Marketplace API server exited")
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
