package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-relay/internal/config"
	"chat-relay/internal/handlers"
	"chat-relay/internal/router"
	"chat-relay/internal/services"
)

func main() {
	log.Println("🚀 Starting Chat Relay...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	for _, warning := range cfg.Warnings() {
		log.Printf("⚠ Warning: %s", warning)
	}
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Upstream Relay ────
	relay := services.NewRelay(services.RelayConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Temperature: cfg.OpenAITemperature,
	})
	log.Printf("✓ Relay configured (model %s via %s)", cfg.OpenAIModel, cfg.OpenAIBaseURL)

	// ──── Step 3: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(relay)
	r := router.New(chatHandler, cfg.PublicDir, cfg.AllowedOrigins)

	// No WriteTimeout: upstream latency is not bounded here.
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Server listening on http://localhost:%s", cfg.Port)
	log.Printf("  API:    POST http://localhost:%s/api/chat", cfg.Port)
	log.Printf("  Static: %s", cfg.PublicDir)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
