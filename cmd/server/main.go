package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/dpolishuk/repograph/internal/api"
	"github.com/dpolishuk/repograph/internal/config"
	"github.com/dpolishuk/repograph/internal/db"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := db.NewNeo4jClient(ctx, db.Neo4jConfig{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUser,
		Password: cfg.Neo4jPass,
	})
	if err != nil {
		// The service still serves parse-only traffic without a store.
		slog.Warn("starting without graph store", "error", err)
		client = nil
	} else {
		defer client.Close()
		if err := db.NewGraphWriter(client).EnsureSchema(ctx); err != nil {
			slog.Warn("schema setup failed", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName: "RepoGraph API",
	})

	api.SetupRoutes(app, api.NewHandler(cfg, client))

	slog.Info("starting repograph", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
