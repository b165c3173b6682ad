package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cyphera/gator-permissions/internal/client/accounts"
	"github.com/cyphera/gator-permissions/internal/client/tokens"
	"github.com/cyphera/gator-permissions/internal/confirm"
	"github.com/cyphera/gator-permissions/internal/events"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/orchestrator"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v\n", err)
	}

	logger.InitLogger(os.Getenv("STAGE"))
	defer logger.Sync()

	requiredEnvVars := []string{"ACCOUNT_PRIVATE_KEY", "TOKEN_API_URL"}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" {
			log.Fatalf("%s environment variable is required", envVar)
		}
	}

	contracts := registry.NewStaticProvider()
	accountController, err := accounts.NewLocalController(os.Getenv("ACCOUNT_PRIVATE_KEY"), contracts)
	if err != nil {
		log.Fatalf("Failed to initialize account controller: %v\n", err)
	}
	if factory := os.Getenv("ACCOUNT_FACTORY"); factory != "" {
		if accountController, err = accountController.WithAccountMetadata(factory, os.Getenv("ACCOUNT_FACTORY_DATA")); err != nil {
			log.Fatalf("Invalid account factory configuration: %v\n", err)
		}
	}

	tokenService := tokens.NewClient(os.Getenv("TOKEN_API_URL"), os.Getenv("TOKEN_API_KEY"))
	typeRegistry := permissions.NewRegistry()

	// The server deployment has no interactive wallet UI attached; the
	// dialog auto-approves so the full grant pipeline stays exercisable.
	// AUTO_APPROVE=false turns every request into a rejection instead.
	dialog := confirm.NewAutoDialog(os.Getenv("AUTO_APPROVE") != "false")

	orch := orchestrator.New(
		typeRegistry,
		dialog,
		events.NewMemoryDispatcher(),
		accountController,
		tokenService,
		contracts,
		logger.Log,
	)

	router := server.NewRouter(server.Dependencies{
		Orchestrator:      orch,
		Registry:          typeRegistry,
		RequestsPerSecond: envInt("RATE_LIMIT_RPS", 10),
		Burst:             envInt("RATE_LIMIT_BURST", 20),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second, // Prevent Slowloris attacks
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

func envInt(name string, fallback int) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", name, value)
	}
	return parsed
}
