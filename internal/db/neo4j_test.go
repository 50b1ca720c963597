package db

import (
	"context"
	"testing"
)

func TestNewNeo4jClient(t *testing.T) {
	// This test requires Neo4j running
	// Skip in CI without Neo4j
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg := Neo4jConfig{
		URI:      "bolt://localhost:7687",
		Username: "neo4j",
		Password: "password",
	}

	client, err := NewNeo4jClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	err = client.Ping(context.Background())
	if err != nil {
		t.Fatalf("Failed to ping: %v", err)
	}
}

func TestConnectionErrorType(t *testing.T) {
	cfg := Neo4jConfig{
		URI:      "bolt://127.0.0.1:1", // nothing listens here
		Username: "neo4j",
		Password: "password",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err := NewNeo4jClient(ctx, cfg)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if _, ok := err.(*StoreConnectionError); !ok {
		t.Errorf("error type = %T, want *StoreConnectionError", err)
	}
}
