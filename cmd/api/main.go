package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mercadovecino/backend/internal/config"
	"github.com/mercadovecino/backend/internal/db"
	"github.com/mercadovecino/backend/internal/model"
	"github.com/mercadovecino/backend/internal/server"
)

// Set via -ldflags at build time.
var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config load error: %v", err)
	}

	srv := server.New(nil, cfg, gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// The DB comes up in the background so /healthz responds immediately on
	// cold starts; repositories reject calls until SetDB runs.
	go func() {
		if cfg == nil {
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		if err := conn.AutoMigrate(
			&model.Category{},
			&model.Product{},
			&model.Contact{},
			&model.Review{},
			&model.Notification{},
			&model.PushToken{},
			&model.Announcement{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
		srv.SetDB(conn)
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
