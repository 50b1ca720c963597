package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/dpolishuk/repograph/internal/config"
)

// storelessApp builds the app the way main does when Neo4j is down.
func storelessApp() *fiber.App {
	app := fiber.New()
	SetupRoutes(app, NewHandler(config.Load(), nil))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("invalid JSON response %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func TestHealthWithoutStore(t *testing.T) {
	app := storelessApp()

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["database"] != "disconnected" {
		t.Errorf("database field = %v, want disconnected", body["database"])
	}
}

func TestParseFileWithoutStore(t *testing.T) {
	app := storelessApp()

	resp, body := postJSON(t, app, "/api/parse", map[string]string{
		"filename": "app.py",
		"content":  "def foo():\n    return 1\n",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["ingested"] != false {
		t.Errorf("ingested = %v, want false", body["ingested"])
	}

	parsing, ok := body["parsing"].(map[string]any)
	if !ok {
		t.Fatalf("parsing field missing: %v", body)
	}
	if parsing["language"] != "Python" {
		t.Errorf("language = %v", parsing["language"])
	}
	symbols, ok := parsing["symbols"].([]any)
	if !ok || len(symbols) != 1 {
		t.Errorf("symbols = %v, want one entry", parsing["symbols"])
	}
}

func TestParseFileRequiresFilename(t *testing.T) {
	app := storelessApp()

	resp, _ := postJSON(t, app, "/api/parse", map[string]string{"content": "x"})
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestIndexRequiresPathAndName(t *testing.T) {
	app := storelessApp()

	resp, _ := postJSON(t, app, "/api/index", map[string]string{"repo_name": "x"})
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestQueryGraphWithoutStore(t *testing.T) {
	app := storelessApp()

	resp, body := postJSON(t, app, "/api/graph/query", map[string]string{
		"repo_name":  "demo",
		"query_type": "symbols",
	})
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if body["error"] == nil {
		t.Errorf("expected error body, got %v", body)
	}
}

func TestClassifyWithoutStore(t *testing.T) {
	app := storelessApp()

	resp, body := postJSON(t, app, "/api/classify", map[string]string{
		"repo_name": "demo",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["doc_type"] != "devdocs" {
		t.Errorf("doc_type = %v, want devdocs", body["doc_type"])
	}
	if body["confidence"] != 0.0 {
		t.Errorf("confidence = %v, want 0", body["confidence"])
	}
}
