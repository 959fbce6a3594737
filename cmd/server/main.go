package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mlem/gridlock/internal/server"
	"github.com/mlem/gridlock/internal/server/store"
)

const defaultPort = "8080"

func main() {
	// .env is optional; real environment variables win either way.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	var results *store.Results
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		var err error
		results, err = store.Open(dsn)
		if err != nil {
			log.Fatalf("opening result store: %v", err)
		}
		defer results.Close()
		log.Println("Match results will be persisted")
	} else {
		log.Println("DATABASE_URL not set, match results are not persisted")
	}

	hub := server.NewHub(results)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: hub.Router(),
	}

	log.Printf("Gridlock server starting on :%s", port)
	log.Printf("WebSocket endpoint: ws://localhost:%s/ws", port)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
